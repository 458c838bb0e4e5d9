// Package validation は入力文字列の形式検証を提供する。
// 各関数は副作用を持たず、真偽値のみを返す。
package validation

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9._-]*[a-zA-Z0-9])?@[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z\s]*[a-zA-Z]$|^[a-zA-Z]$`)

	// 予約フォームは緩い形式チェックのみ行う。
	looseEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

	phoneGroups = regexp.MustCompile(`(\d{3})(\d{3})(\d{4})`)
)

// MinPasswordLength はパスワードの最小文字数。
const MinPasswordLength = 6

// PasswordTooLongMessage はパスワードが保存方式の上限を超える場合のメッセージ。
const PasswordTooLongMessage = "Password must be at most 72 bytes long"

// ValidateEmail はメールアドレスの形式を検証する。
// ローカル部は英数字で始まり英数字で終わる（途中は . _ - を許可、1文字も可）。
// ドメインは1つ以上のラベルと2文字以上のTLDを持つ。前後の空白は除去しない。
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email) &&
		!strings.HasPrefix(email, "@") &&
		!strings.HasSuffix(email, "@")
}

// ValidatePhone は6〜9で始まる10桁の電話番号かどうかを検証する。
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone) && len(phone) == 10
}

// ValidateCustomerName は前後の空白を除いた名前が英字と空白のみで構成され、
// 英字で始まり英字で終わるかどうかを検証する。1文字の英字も許可する。
func ValidateCustomerName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && namePattern.MatchString(trimmed)
}

// ValidatePassword はパスワードが最小文字数以上かどうかを検証する。
func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// ValidateLooseEmail は「何か@何か.何か」の形を含むかどうかだけを検証する。
func ValidateLooseEmail(email string) bool {
	return looseEmailPattern.MatchString(email)
}

// FormatPhoneNumber は最初に現れる10桁の数字列を (XXX) XXX-XXXX 形式に整形する。
// 該当する数字列がない場合は入力をそのまま返す。
func FormatPhoneNumber(phone string) string {
	loc := phoneGroups.FindStringSubmatchIndex(phone)
	if loc == nil {
		return phone
	}
	formatted := phoneGroups.ExpandString(nil, "($1) $2-$3", phone, loc)
	return phone[:loc[0]] + string(formatted) + phone[loc[1]:]
}
