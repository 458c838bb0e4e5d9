// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/validation"
)

// AuthServiceInterface は認証・アカウント設定ハンドラーが必要とするサービスインターフェース。
// auth.Serviceが実装する。
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) bool
	Signup(ctx context.Context, email, password, name string) bool
	Logout(ctx context.Context)
	ResetPassword(ctx context.Context, email, newPassword string) bool
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) bool
	IsEmailTaken(ctx context.Context, email, exceptUserID string) bool
	ChangePassword(ctx context.Context, form validation.PasswordChangeForm) (validation.FieldErrors, bool)
	AcceptsPassword(password string) bool
	CurrentUser() *model.User
}

// AuthHandler はサインイン・サインアップ・パスワード再設定のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup はアカウントを登録してログインする。
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var form validation.SignUpForm
	if !decodeJSON(w, r, &form) {
		return
	}

	if errs := validation.ValidateSignUp(form); !errs.Valid() {
		writeValidationError(w, errs)
		return
	}
	if !h.service.AcceptsPassword(form.Password) {
		writeValidationError(w, validation.FieldErrors{"password": validation.PasswordTooLongMessage})
		return
	}

	if !h.service.Signup(r.Context(), form.Email, form.Password, form.Name) {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewEmailTakenError())
		return
	}

	h.writeCurrentUser(w, http.StatusCreated)
}

// Login はメールアドレスとパスワードでログインする。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form validation.SignInForm
	if !decodeJSON(w, r, &form) {
		return
	}

	if errs := validation.ValidateSignIn(form); !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	if !h.service.Login(r.Context(), form.Email, form.Password) {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialsError())
		return
	}

	h.writeCurrentUser(w, http.StatusOK)
}

// Logout はログイン中ユーザーを解除する。未ログインでも204を返す。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ResetPassword はメールアドレスを指定してパスワードを再設定する。
// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var form validation.PasswordResetForm
	if !decodeJSON(w, r, &form) {
		return
	}

	if errs := validation.ValidatePasswordReset(form); !errs.Valid() {
		writeValidationError(w, errs)
		return
	}
	if !h.service.AcceptsPassword(form.NewPassword) {
		writeValidationError(w, validation.FieldErrors{"newPassword": validation.PasswordTooLongMessage})
		return
	}

	if !h.service.ResetPassword(r.Context(), form.Email, form.NewPassword) {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewUserNotFoundError())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.writeCurrentUser(w, http.StatusOK)
}

// writeCurrentUser はログイン中ユーザーをパスワードを除いて書き込む。
// 未ログインの場合は401を返す。
func (h *AuthHandler) writeCurrentUser(w http.ResponseWriter, statusCode int) {
	user := h.service.CurrentUser()
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	writeJSON(w, statusCode, user.Public())
}
