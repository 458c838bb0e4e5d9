// Package dental は歯科医院サイトの掲載情報、予約リクエスト、お問い合わせを扱う。
package dental

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/custdesk/internal/idgen"
	"github.com/hitoshi/custdesk/internal/metrics"
	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/repository"
	"github.com/hitoshi/custdesk/internal/security"
	"github.com/hitoshi/custdesk/internal/validation"
)

// dateLayout は希望日の形式（HTMLのdate入力と同じ）。
const dateLayout = "2006-01-02"

// IDGenerator は予約・お問い合わせIDの生成インターフェース。
type IDGenerator interface {
	Generate(prefix string) string
}

// Service は予約リクエストとお問い合わせを管理する。
// 予約は起動時に読み込んだメモリ上の一覧を正とし、お問い合わせは追記のみ行う。
type Service struct {
	mu           sync.Mutex
	appointments repository.AppointmentRepository
	messages     repository.MessageRepository
	sanitizer    security.TextSanitizer
	ids          IDGenerator
	metrics      metrics.MetricsCollector
	now          func() time.Time

	list []model.Appointment
}

// NewService はServiceを生成し、保存済みの予約を読み込む。mcはnilでもよい。
func NewService(
	ctx context.Context,
	appointments repository.AppointmentRepository,
	messages repository.MessageRepository,
	sanitizer security.TextSanitizer,
	mc metrics.MetricsCollector,
) *Service {
	return &Service{
		appointments: appointments,
		messages:     messages,
		sanitizer:    sanitizer,
		ids:          idgen.New(),
		metrics:      mc,
		now:          time.Now,
		list:         appointments.Load(ctx),
	}
}

// AddAppointment は予約リクエストを検証して受け付ける。
// 入力エラーがあればエラー内容を返す。保存に失敗した場合は追加を取り消してエラーを返す。
func (s *Service) AddAppointment(ctx context.Context, req model.AppointmentRequest) (model.Appointment, validation.FieldErrors, error) {
	errs := validation.ValidateAppointment(req)
	s.validateSchedule(req, errs)
	if !errs.Valid() {
		return model.Appointment{}, errs, nil
	}

	svc, _ := findService(req.Service)

	s.mu.Lock()
	defer s.mu.Unlock()

	appt := model.Appointment{
		ID:            s.ids.Generate(idgen.PrefixAppointment),
		PatientName:   s.sanitizer.Sanitize(req.PatientName),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		Service:       svc.Name,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Message:       s.sanitizer.Sanitize(req.Message),
		Status:        model.AppointmentPending,
		CreatedAt:     s.now(),
	}

	s.list = append(s.list, appt)
	if err := s.appointments.Save(ctx, s.list); err != nil {
		s.list = s.list[:len(s.list)-1]
		return model.Appointment{}, nil, fmt.Errorf("failed to store appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordAppointmentRequested(appt.Service)
	}
	slog.InfoContext(ctx, "appointment requested",
		slog.String("appointment_id", appt.ID),
		slog.String("service", appt.Service),
		slog.String("preferred_date", appt.PreferredDate),
	)
	return appt, validation.FieldErrors{}, nil
}

// validateSchedule は診療メニュー・時間枠・希望日の妥当性を検証し、errsに追記する。
// 必須チェックで既にエラーのある項目は検証しない。
func (s *Service) validateSchedule(req model.AppointmentRequest, errs validation.FieldErrors) {
	if _, ok := errs["service"]; !ok {
		if _, found := findService(req.Service); !found {
			errs["service"] = "Please select a valid service"
		}
	}
	if _, ok := errs["preferredTime"]; !ok && !isTimeSlot(req.PreferredTime) {
		errs["preferredTime"] = "Please select a valid time slot"
	}
	if _, ok := errs["preferredDate"]; ok {
		return
	}

	now := s.now()
	date, err := time.ParseInLocation(dateLayout, req.PreferredDate, now.Location())
	if err != nil {
		errs["preferredDate"] = "Please enter a valid date"
		return
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		errs["preferredDate"] = "Preferred date cannot be in the past"
	}
}

// UpdateAppointmentStatus は指定IDの予約のステータスを変更する。
// 該当する予約がなくてもtrueを返す。未定義のステータスまたは保存失敗の場合はfalse。
func (s *Service) UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) bool {
	if !status.Valid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].Status = status
		}
	}
	if err := s.appointments.Save(ctx, s.list); err != nil {
		return false
	}

	slog.InfoContext(ctx, "appointment status updated",
		slog.String("appointment_id", id),
		slog.String("status", string(status)),
	)
	return true
}

// GetAppointment は指定IDの予約を返す。
func (s *Service) GetAppointment(id string) (model.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.list {
		if a.ID == id {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// ListAppointments は予約の一覧を受付順で返す。
func (s *Service) ListAppointments() []model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Appointment, len(s.list))
	copy(out, s.list)
	return out
}

// SubmitContact はお問い合わせを検証して保存する。
func (s *Service) SubmitContact(ctx context.Context, form validation.ContactForm) (model.ContactMessage, validation.FieldErrors, error) {
	if errs := validation.ValidateContact(form); !errs.Valid() {
		return model.ContactMessage{}, errs, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := model.ContactMessage{
		ID:        s.ids.Generate(idgen.PrefixMessage),
		Name:      s.sanitizer.Sanitize(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Phone:     strings.TrimSpace(form.Phone),
		Subject:   s.sanitizer.Sanitize(form.Subject),
		Message:   s.sanitizer.Sanitize(form.Message),
		CreatedAt: s.now(),
	}

	messages := append(s.messages.Load(ctx), msg)
	if err := s.messages.Save(ctx, messages); err != nil {
		return model.ContactMessage{}, nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	slog.InfoContext(ctx, "contact message received", slog.String("message_id", msg.ID))
	return msg, validation.FieldErrors{}, nil
}

// Flush はメモリ上の予約一覧を保存する。終了時に呼び出す。
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appointments.Save(ctx, s.list)
}
