package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/custdesk/internal/dental"
	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/validation"
)

// DentalServiceInterface は歯科医院ハンドラーが必要とするサービスインターフェース。
// dental.Serviceが実装する。
type DentalServiceInterface interface {
	AddAppointment(ctx context.Context, req model.AppointmentRequest) (model.Appointment, validation.FieldErrors, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) bool
	GetAppointment(id string) (model.Appointment, bool)
	ListAppointments() []model.Appointment
	SubmitContact(ctx context.Context, form validation.ContactForm) (model.ContactMessage, validation.FieldErrors, error)
}

// DentalHandler は歯科医院サイトのHTTPハンドラー。
type DentalHandler struct {
	service DentalServiceInterface
}

// NewDentalHandler はDentalHandlerを生成する。
func NewDentalHandler(service DentalServiceInterface) *DentalHandler {
	return &DentalHandler{service: service}
}

// updateStatusRequest は予約ステータス変更リクエストのボディ。
type updateStatusRequest struct {
	Status string `json:"status"`
}

// contactAcceptedResponse はお問い合わせ受付のAPIレスポンス。
type contactAcceptedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ListServices は診療メニューを返す。
// GET /dental/services
func (h *DentalHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dental.Services())
}

// ListTeam はスタッフ紹介を返す。
// GET /dental/team
func (h *DentalHandler) ListTeam(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dental.Team())
}

// ContactInfo は医院の連絡先と診療時間を返す。
// GET /dental/contact-info
func (h *DentalHandler) ContactInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dental.Contact())
}

// ListTimeSlots は予約可能な時間枠を返す。
// GET /dental/time-slots
func (h *DentalHandler) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dental.TimeSlots())
}

// RequestAppointment は予約リクエストを受け付ける。
// POST /dental/appointments
func (h *DentalHandler) RequestAppointment(w http.ResponseWriter, r *http.Request) {
	var req model.AppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appt, errs, err := h.service.AddAppointment(r.Context(), req)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to add appointment", slog.String("error", err.Error()))
		handleServiceError(w, r, model.NewPersistenceError("appointment"))
		return
	}
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

// ListAppointments は予約リクエストの一覧を返す。
// GET /dental/appointments
func (h *DentalHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListAppointments())
}

// GetAppointment は予約リクエストの詳細を返す。
// GET /dental/appointments/{id}
func (h *DentalHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	appt, ok := h.service.GetAppointment(id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewAppointmentNotFoundError(id))
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// UpdateAppointmentStatus は予約のステータスを変更する。
// 該当する予約がない場合も成功として204を返す。
// PATCH /dental/appointments/{id}/status
func (h *DentalHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status := model.AppointmentStatus(req.Status)
	if !status.Valid() {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidStatusError(req.Status))
		return
	}

	if !h.service.UpdateAppointmentStatus(r.Context(), id, status) {
		handleServiceError(w, r, model.NewPersistenceError("appointment_status"))
		return
	}

	appt, ok := h.service.GetAppointment(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// SubmitContact はお問い合わせを受け付ける。
// POST /dental/contact
func (h *DentalHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var form validation.ContactForm
	if !decodeJSON(w, r, &form) {
		return
	}

	msg, errs, err := h.service.SubmitContact(r.Context(), form)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to store contact message", slog.String("error", err.Error()))
		handleServiceError(w, r, model.NewPersistenceError("contact"))
		return
	}
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	writeJSON(w, http.StatusAccepted, contactAcceptedResponse{
		ID:      msg.ID,
		Message: "Thank you for your message. We will get back to you soon.",
	})
}
