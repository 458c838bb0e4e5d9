package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/custdesk/internal/middleware"
	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/validation"
)

// --- モック定義 ---

type mockAuthService struct {
	loginFn          func(ctx context.Context, email, password string) bool
	signupFn         func(ctx context.Context, email, password, name string) bool
	logoutFn         func(ctx context.Context)
	resetPasswordFn  func(ctx context.Context, email, newPassword string) bool
	updateProfileFn  func(ctx context.Context, patch model.ProfilePatch) bool
	isEmailTakenFn   func(ctx context.Context, email, exceptUserID string) bool
	changePasswordFn func(ctx context.Context, form validation.PasswordChangeForm) (validation.FieldErrors, bool)
	acceptsPwdFn     func(password string) bool
	currentUserFn    func() *model.User
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) bool {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return false
}

func (m *mockAuthService) Signup(ctx context.Context, email, password, name string) bool {
	if m.signupFn != nil {
		return m.signupFn(ctx, email, password, name)
	}
	return false
}

func (m *mockAuthService) Logout(ctx context.Context) {
	if m.logoutFn != nil {
		m.logoutFn(ctx)
	}
}

func (m *mockAuthService) ResetPassword(ctx context.Context, email, newPassword string) bool {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(ctx, email, newPassword)
	}
	return false
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, patch model.ProfilePatch) bool {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, patch)
	}
	return false
}

func (m *mockAuthService) IsEmailTaken(ctx context.Context, email, exceptUserID string) bool {
	if m.isEmailTakenFn != nil {
		return m.isEmailTakenFn(ctx, email, exceptUserID)
	}
	return false
}

func (m *mockAuthService) ChangePassword(ctx context.Context, form validation.PasswordChangeForm) (validation.FieldErrors, bool) {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, form)
	}
	return validation.FieldErrors{}, false
}

func (m *mockAuthService) AcceptsPassword(password string) bool {
	if m.acceptsPwdFn != nil {
		return m.acceptsPwdFn(password)
	}
	return true
}

func (m *mockAuthService) CurrentUser() *model.User {
	if m.currentUserFn != nil {
		return m.currentUserFn()
	}
	return nil
}

type mockCustomerService struct {
	addFn     func(ctx context.Context, form model.CustomerForm) (model.Customer, bool)
	updateFn  func(ctx context.Context, id string, form model.CustomerForm) bool
	deleteFn  func(ctx context.Context, id string) bool
	getByIDFn func(id string) (model.Customer, bool)
	searchFn  func(query string) []model.Customer
	statsFn   func(now time.Time) model.CustomerStats
}

func (m *mockCustomerService) Add(ctx context.Context, form model.CustomerForm) (model.Customer, bool) {
	if m.addFn != nil {
		return m.addFn(ctx, form)
	}
	return model.Customer{}, false
}

func (m *mockCustomerService) Update(ctx context.Context, id string, form model.CustomerForm) bool {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, form)
	}
	return true
}

func (m *mockCustomerService) Delete(ctx context.Context, id string) bool {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return true
}

func (m *mockCustomerService) GetByID(id string) (model.Customer, bool) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return model.Customer{}, false
}

func (m *mockCustomerService) Search(query string) []model.Customer {
	if m.searchFn != nil {
		return m.searchFn(query)
	}
	return []model.Customer{}
}

func (m *mockCustomerService) Stats(now time.Time) model.CustomerStats {
	if m.statsFn != nil {
		return m.statsFn(now)
	}
	return model.CustomerStats{}
}

type mockDentalService struct {
	addAppointmentFn func(ctx context.Context, req model.AppointmentRequest) (model.Appointment, validation.FieldErrors, error)
	updateStatusFn   func(ctx context.Context, id string, status model.AppointmentStatus) bool
	getAppointmentFn func(id string) (model.Appointment, bool)
	listFn           func() []model.Appointment
	submitContactFn  func(ctx context.Context, form validation.ContactForm) (model.ContactMessage, validation.FieldErrors, error)
}

func (m *mockDentalService) AddAppointment(ctx context.Context, req model.AppointmentRequest) (model.Appointment, validation.FieldErrors, error) {
	if m.addAppointmentFn != nil {
		return m.addAppointmentFn(ctx, req)
	}
	return model.Appointment{}, validation.FieldErrors{}, nil
}

func (m *mockDentalService) UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) bool {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return true
}

func (m *mockDentalService) GetAppointment(id string) (model.Appointment, bool) {
	if m.getAppointmentFn != nil {
		return m.getAppointmentFn(id)
	}
	return model.Appointment{}, false
}

func (m *mockDentalService) ListAppointments() []model.Appointment {
	if m.listFn != nil {
		return m.listFn()
	}
	return []model.Appointment{}
}

func (m *mockDentalService) SubmitContact(ctx context.Context, form validation.ContactForm) (model.ContactMessage, validation.FieldErrors, error) {
	if m.submitContactFn != nil {
		return m.submitContactFn(ctx, form)
	}
	return model.ContactMessage{}, validation.FieldErrors{}, nil
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

var errStoreDown = errors.New("store unavailable")

// --- テストヘルパー ---

func signedInUser() *model.User {
	return &model.User{
		ID:        "USER-1700000000000-abc123def",
		Email:     "jane@example.com",
		Password:  "secret1",
		Name:      "Jane",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

// withURLParam はchiのURLパラメータを設定したリクエストを返す。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
