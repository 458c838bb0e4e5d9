package dental

import "github.com/hitoshi/custdesk/internal/model"

// 医院の静的な掲載情報。API応答ではコピーを返す。
var (
	services = []model.Service{
		{
			ID:          "1",
			Name:        "General Dentistry",
			Description: "Comprehensive dental care including check-ups, cleanings, and preventive treatments",
			Icon:        "Stethoscope",
			Price:       "From £45",
			Duration:    "30-60 mins",
			Features:    []string{"Dental Examinations", "Professional Cleaning", "Fluoride Treatments", "Oral Health Advice"},
		},
		{
			ID:          "2",
			Name:        "Cosmetic Dentistry",
			Description: "Transform your smile with our advanced cosmetic dental procedures",
			Icon:        "Sparkles",
			Price:       "From £200",
			Duration:    "60-90 mins",
			Features:    []string{"Teeth Whitening", "Veneers", "Bonding", "Smile Makeovers"},
		},
		{
			ID:          "3",
			Name:        "Orthodontics",
			Description: "Straighten your teeth with traditional braces or modern clear aligners",
			Icon:        "Grid3x3",
			Price:       "From £2,500",
			Duration:    "12-24 months",
			Features:    []string{"Traditional Braces", "Clear Aligners", "Retainers", "Progress Monitoring"},
		},
		{
			ID:          "4",
			Name:        "Dental Implants",
			Description: "Replace missing teeth with permanent, natural-looking implants",
			Icon:        "Anchor",
			Price:       "From £1,200",
			Duration:    "3-6 months",
			Features:    []string{"Single Implants", "Multiple Implants", "Full Mouth Restoration", "Implant Maintenance"},
		},
		{
			ID:          "5",
			Name:        "Emergency Dental Care",
			Description: "24/7 emergency dental services for urgent dental problems",
			Icon:        "AlertTriangle",
			Price:       "From £80",
			Duration:    "30-45 mins",
			Features:    []string{"Pain Relief", "Emergency Repairs", "Trauma Treatment", "Out-of-Hours Care"},
		},
		{
			ID:          "6",
			Name:        "Periodontal Treatment",
			Description: "Specialized care for gum disease and oral health maintenance",
			Icon:        "Heart",
			Price:       "From £150",
			Duration:    "45-75 mins",
			Features:    []string{"Gum Disease Treatment", "Deep Cleaning", "Periodontal Surgery", "Maintenance Programs"},
		},
	}

	team = []model.TeamMember{
		{
			ID:             "1",
			Name:           "Dr. Sarah Mitchell",
			Role:           "Principal Dentist & Practice Owner",
			Qualifications: []string{"BDS Bristol University", "MJDF RCS England", "PG Cert Restorative Dentistry"},
			Bio:            "Dr. Mitchell has over 15 years of experience in general and cosmetic dentistry. She is passionate about providing high-quality, gentle dental care in a comfortable environment.",
			Specialties:    []string{"Cosmetic Dentistry", "Restorative Dentistry", "Preventive Care"},
		},
		{
			ID:             "2",
			Name:           "Dr. James Parker",
			Role:           "Associate Dentist",
			Qualifications: []string{"BDS King's College London", "MFDS RCS Edinburgh", "Cert Orthodontics"},
			Bio:            "Dr. Parker specializes in orthodontics and family dentistry. He has a gentle approach and is particularly skilled in treating anxious patients.",
			Specialties:    []string{"Orthodontics", "Family Dentistry", "Anxiety Management"},
		},
		{
			ID:             "3",
			Name:           "Emma Thompson",
			Role:           "Dental Hygienist",
			Qualifications: []string{"Dip Dental Hygiene", "NEBDN Certificate", "CPD Periodontics"},
			Bio:            "Emma is our experienced dental hygienist who focuses on preventive care and patient education. She helps patients maintain optimal oral health between visits.",
			Specialties:    []string{"Preventive Care", "Periodontal Health", "Patient Education"},
		},
		{
			ID:             "4",
			Name:           "Lisa Davies",
			Role:           "Practice Manager",
			Qualifications: []string{"NEBDN Diploma Practice Management", "NVQ Level 4 Management"},
			Bio:            "Lisa ensures the smooth operation of our practice and is always available to help with appointments, treatment planning, and any questions you may have.",
			Specialties:    []string{"Practice Management", "Patient Care", "Treatment Coordination"},
		},
	}

	contactInfo = model.ContactInfo{
		Address:        "High Street, Tewkesbury, Gloucestershire GL20 5AL",
		Phone:          "01684 292668",
		Email:          "info@tewkesburydental.co.uk",
		EmergencyPhone: "01684 292668",
		Hours: []model.OpeningHours{
			{Day: "Monday", Hours: "8:00 AM - 6:00 PM"},
			{Day: "Tuesday", Hours: "8:00 AM - 6:00 PM"},
			{Day: "Wednesday", Hours: "8:00 AM - 6:00 PM"},
			{Day: "Thursday", Hours: "8:00 AM - 6:00 PM"},
			{Day: "Friday", Hours: "8:00 AM - 5:00 PM"},
			{Day: "Saturday", Hours: "9:00 AM - 2:00 PM"},
			{Day: "Sunday", Hours: "Emergency Only"},
		},
	}

	// 予約可能な時間枠
	timeSlots = []string{
		"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
		"2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM", "4:00 PM", "4:30 PM", "5:00 PM",
	}
)

// Services は診療メニューの一覧を返す。
func Services() []model.Service {
	out := make([]model.Service, len(services))
	for i, s := range services {
		s.Features = append([]string(nil), s.Features...)
		out[i] = s
	}
	return out
}

// Team はスタッフ紹介の一覧を返す。
func Team() []model.TeamMember {
	out := make([]model.TeamMember, len(team))
	for i, m := range team {
		m.Qualifications = append([]string(nil), m.Qualifications...)
		m.Specialties = append([]string(nil), m.Specialties...)
		out[i] = m
	}
	return out
}

// Contact は医院の連絡先を返す。
func Contact() model.ContactInfo {
	c := contactInfo
	c.Hours = append([]model.OpeningHours(nil), contactInfo.Hours...)
	return c
}

// TimeSlots は予約可能な時間枠を返す。
func TimeSlots() []string {
	return append([]string(nil), timeSlots...)
}

// findService は名前またはIDで診療メニューを探す。
func findService(nameOrID string) (model.Service, bool) {
	for _, s := range services {
		if s.Name == nameOrID || s.ID == nameOrID {
			return s, true
		}
	}
	return model.Service{}, false
}

func isTimeSlot(slot string) bool {
	for _, s := range timeSlots {
		if s == slot {
			return true
		}
	}
	return false
}
