package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/custdesk/internal/model"
)

// FieldErrors は入力項目名（JSON名）とエラーメッセージの組。
type FieldErrors map[string]string

// Valid はエラーが1件もない場合にtrueを返す。
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// SignUpForm はサインアップフォームの入力値。
type SignUpForm struct {
	Name            string `json:"name" validate:"required_trimmed"`
	Email           string `json:"email" validate:"cms_email"`
	Password        string `json:"password" validate:"cms_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// SignInForm はサインインフォームの入力値。
type SignInForm struct {
	Email    string `json:"email" validate:"cms_email"`
	Password string `json:"password" validate:"required"`
}

// ProfileForm はアカウント設定のプロフィール入力値。
type ProfileForm struct {
	Name  string `json:"name" validate:"required_trimmed"`
	Email string `json:"email" validate:"cms_email"`
}

// PasswordChangeForm はアカウント設定のパスワード変更入力値。
type PasswordChangeForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"cms_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

// PasswordResetForm はパスワード再設定の入力値。
type PasswordResetForm struct {
	Email       string `json:"email" validate:"cms_email"`
	NewPassword string `json:"newPassword" validate:"cms_password"`
}

// ContactForm は医院へのお問い合わせフォームの入力値。
type ContactForm struct {
	Name    string `json:"name" validate:"required_trimmed"`
	Email   string `json:"email" validate:"required_trimmed,loose_email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" validate:"required_trimmed"`
}

// 項目ごとのメッセージ。"項目名.タグ" が "項目名" より優先される。
var (
	customerMessages = map[string]string{
		"name":          "Name must contain only letters and spaces, cannot start with space or contain special characters",
		"email":         "Please enter a valid email address",
		"phone":         "Phone number must be 10 digits starting with 6-9",
		"address":       "Address is required",
		"contactPerson": "Contact person name must contain only letters and spaces",
		"profilePhoto":  "Profile photo must be an image",
	}
	signUpMessages = map[string]string{
		"name":            "Name is required",
		"email":           "Please enter a valid email address",
		"password":        "Password must be at least 6 characters long",
		"confirmPassword": "Passwords do not match",
	}
	signInMessages = map[string]string{
		"email":    "Please enter a valid email address",
		"password": "Please enter your password",
	}
	profileMessages = map[string]string{
		"name":  "Name is required",
		"email": "Please enter a valid email address",
	}
	passwordChangeMessages = map[string]string{
		"currentPassword": "Current password is required",
		"newPassword":     "Password must be at least 6 characters long",
		"confirmPassword": "Passwords do not match",
	}
	passwordResetMessages = map[string]string{
		"email":       "Please enter a valid email address",
		"newPassword": "Password must be at least 6 characters long",
	}
	appointmentMessages = map[string]string{
		"patientName":            "Patient name is required",
		"email.required_trimmed": "Email address is required",
		"email":                  "Please enter a valid email address",
		"phone":                  "Phone number is required",
		"service":                "Please select a service",
		"preferredDate":          "Please select a preferred date",
		"preferredTime":          "Please select a preferred time",
	}
	contactMessages = map[string]string{
		"name":                   "Name is required",
		"email.required_trimmed": "Email address is required",
		"email":                  "Please enter a valid email address",
		"message":                "Message is required",
	}
)

var validate = newValidator()

// newValidator はカスタムタグを登録したvalidatorを生成する。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラーの項目名にはJSON名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "cms_email", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})
	mustRegister(v, "cms_phone", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	mustRegister(v, "cms_name", func(fl validator.FieldLevel) bool {
		return ValidateCustomerName(fl.Field().String())
	})
	mustRegister(v, "cms_password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String())
	})
	mustRegister(v, "loose_email", func(fl validator.FieldLevel) bool {
		return ValidateLooseEmail(fl.Field().String())
	})
	mustRegister(v, "required_trimmed", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "image_data_uri", func(fl validator.FieldLevel) bool {
		return isImageDataURI(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func isImageDataURI(s string) bool {
	if !strings.HasPrefix(s, "data:image/") {
		return false
	}
	return strings.Contains(s, ",")
}

// validateStruct はフォームを検証し、失敗した項目をメッセージ表で変換して返す。
func validateStruct(form any, messages map[string]string) FieldErrors {
	errs := FieldErrors{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["general"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			errs[field] = msg
			continue
		}
		if msg, ok := messages[field]; ok {
			errs[field] = msg
			continue
		}
		errs[field] = field + " is invalid"
	}
	return errs
}

// ValidateCustomerForm は顧客フォームを検証する。
func ValidateCustomerForm(form model.CustomerForm) FieldErrors {
	return validateStruct(form, customerMessages)
}

// ValidateSignUp はサインアップフォームを検証する。
func ValidateSignUp(form SignUpForm) FieldErrors {
	return validateStruct(form, signUpMessages)
}

// ValidateSignIn はサインインフォームを検証する。
func ValidateSignIn(form SignInForm) FieldErrors {
	return validateStruct(form, signInMessages)
}

// ValidateProfile はプロフィール更新フォームを検証する。
func ValidateProfile(form ProfileForm) FieldErrors {
	return validateStruct(form, profileMessages)
}

// ValidatePasswordChange はパスワード変更フォームを検証する。
// 現在のパスワードの照合は行わない（auth.Service.ChangePasswordで行う）。
func ValidatePasswordChange(form PasswordChangeForm) FieldErrors {
	return validateStruct(form, passwordChangeMessages)
}

// ValidatePasswordReset はパスワード再設定フォームを検証する。
func ValidatePasswordReset(form PasswordResetForm) FieldErrors {
	return validateStruct(form, passwordResetMessages)
}

// ValidateAppointment は予約フォームの必須項目と形式を検証する。
// 診療メニューや時間枠の存在確認はdentalパッケージで行う。
func ValidateAppointment(req model.AppointmentRequest) FieldErrors {
	return validateStruct(req, appointmentMessages)
}

// ValidateContact はお問い合わせフォームを検証する。
func ValidateContact(form ContactForm) FieldErrors {
	return validateStruct(form, contactMessages)
}
