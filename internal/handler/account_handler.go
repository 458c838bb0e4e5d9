package handler

import (
	"net/http"

	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/validation"
)

// AccountHandler はアカウント設定（プロフィール・パスワード変更）のHTTPハンドラー。
type AccountHandler struct {
	service AuthServiceInterface
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AuthServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// UpdateProfile はログイン中ユーザーの名前とメールアドレスを更新する。
// PATCH /api/account/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var form validation.ProfileForm
	if !decodeJSON(w, r, &form) {
		return
	}

	if errs := validation.ValidateProfile(form); !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	current := h.service.CurrentUser()
	if current == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	if h.service.IsEmailTaken(r.Context(), form.Email, current.ID) {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewEmailTakenError())
		return
	}

	patch := model.ProfilePatch{Name: &form.Name, Email: &form.Email}
	if !h.service.UpdateProfile(r.Context(), patch) {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewProfileUpdateFailedError())
		return
	}

	updated := h.service.CurrentUser()
	if updated == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	writeJSON(w, http.StatusOK, updated.Public())
}

// ChangePassword は現在のパスワードを確認してパスワードを変更する。
// PUT /api/account/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var form validation.PasswordChangeForm
	if !decodeJSON(w, r, &form) {
		return
	}

	errs, ok := h.service.ChangePassword(r.Context(), form)
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}
	if !ok {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewProfileUpdateFailedError())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
