package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードの保存形式と照合方法を抽象化する。
type PasswordHasher interface {
	// Hash は保存用の文字列を返す。
	Hash(password string) (string, error)
	// Compare は保存済みの値と入力されたパスワードが一致するかを返す。
	Compare(stored, password string) bool
}

// PlainHasher はパスワードを平文のまま保存・比較する。既定の方式。
type PlainHasher struct{}

// Hash は入力をそのまま返す。
func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

// Compare は完全一致で比較する。
func (PlainHasher) Compare(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptHasher はbcryptハッシュで保存・比較する。
// PASSWORD_HASHING=bcrypt で有効になる。平文で保存済みのユーザーはログインできなくなる。
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher は既定のコストでBcryptHasherを生成する。
func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{Cost: bcrypt.DefaultCost}
}

// Hash はbcryptハッシュを生成する。72バイトを超えるパスワードはエラーになる。
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// MaxPasswordBytes はbcryptが扱えるパスワードの最大バイト数を返す。
func (BcryptHasher) MaxPasswordBytes() int {
	return 72
}

// Compare はbcryptハッシュと照合する。
func (h BcryptHasher) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// passwordLimiter は扱えるパスワード長に上限がある保存方式が実装する。
type passwordLimiter interface {
	MaxPasswordBytes() int
}

var (
	_ PasswordHasher  = PlainHasher{}
	_ passwordLimiter = BcryptHasher{}
	_ PasswordHasher  = BcryptHasher{}
)
