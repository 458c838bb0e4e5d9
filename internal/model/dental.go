package model

import "time"

// Service は歯科医院の診療メニューを表す。
type Service struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Price       string   `json:"price,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Features    []string `json:"features"`
}

// TeamMember は医院スタッフの紹介情報を表す。
type TeamMember struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Qualifications []string `json:"qualifications"`
	Bio            string   `json:"bio"`
	Image          string   `json:"image,omitempty"`
	Specialties    []string `json:"specialties"`
}

// OpeningHours は曜日ごとの診療時間。
type OpeningHours struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// ContactInfo は医院の連絡先情報を表す。
type ContactInfo struct {
	Address        string         `json:"address"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	EmergencyPhone string         `json:"emergencyPhone"`
	Hours          []OpeningHours `json:"hours"`
}

// AppointmentStatus は予約リクエストの状態。
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid は定義済みのステータスかどうかを返す。
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment は予約リクエストを表す。
type Appointment struct {
	ID            string            `json:"id"`
	PatientName   string            `json:"patientName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Service       string            `json:"service"`
	PreferredDate string            `json:"preferredDate"` // YYYY-MM-DD
	PreferredTime string            `json:"preferredTime"`
	Message       string            `json:"message,omitempty"`
	Status        AppointmentStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// AppointmentRequest は予約フォームの入力値。
type AppointmentRequest struct {
	PatientName   string `json:"patientName" validate:"required_trimmed"`
	Email         string `json:"email" validate:"required_trimmed,loose_email"`
	Phone         string `json:"phone" validate:"required_trimmed"`
	Service       string `json:"service" validate:"required"`
	PreferredDate string `json:"preferredDate" validate:"required"`
	PreferredTime string `json:"preferredTime" validate:"required"`
	Message       string `json:"message,omitempty"`
}

// ContactMessage はお問い合わせフォームから送信されたメッセージを表す。
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
