package validation

import (
	"testing"

	"github.com/hitoshi/custdesk/internal/model"
)

func validCustomerForm() model.CustomerForm {
	return model.CustomerForm{
		Name:          "Acme Traders",
		Address:       "12 High Street",
		Email:         "owner@acme.com",
		Phone:         "9876543210",
		ContactPerson: "Jane Doe",
	}
}

func TestValidateCustomerForm_Valid(t *testing.T) {
	errs := ValidateCustomerForm(validCustomerForm())
	if !errs.Valid() {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateCustomerForm_AllFieldsInvalid(t *testing.T) {
	errs := ValidateCustomerForm(model.CustomerForm{
		Name:          " 1nvalid",
		Address:       "   ",
		Email:         "bad",
		Phone:         "12345",
		ContactPerson: "J@ne",
		ProfilePhoto:  "https://example.com/photo.png",
	})

	want := map[string]string{
		"name":          customerMessages["name"],
		"address":       "Address is required",
		"email":         "Please enter a valid email address",
		"phone":         "Phone number must be 10 digits starting with 6-9",
		"contactPerson": customerMessages["contactPerson"],
		"profilePhoto":  "Profile photo must be an image",
	}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(want))
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("errs[%q] = %q, want %q", field, errs[field], msg)
		}
	}
}

func TestValidateCustomerForm_ImageDataURIAccepted(t *testing.T) {
	form := validCustomerForm()
	form.ProfilePhoto = "data:image/png;base64,iVBORw0KGgo="

	if errs := ValidateCustomerForm(form); !errs.Valid() {
		t.Errorf("expected data URI to be accepted, got %v", errs)
	}
}

func TestValidateSignUp(t *testing.T) {
	errs := ValidateSignUp(SignUpForm{
		Name:            "Jane",
		Email:           "jane@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	})
	if !errs.Valid() {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs = ValidateSignUp(SignUpForm{
		Name:            "  ",
		Email:           "jane",
		Password:        "123",
		ConfirmPassword: "1234",
	})
	if errs["name"] != "Name is required" {
		t.Errorf("name error = %q", errs["name"])
	}
	if errs["email"] != "Please enter a valid email address" {
		t.Errorf("email error = %q", errs["email"])
	}
	if errs["password"] != "Password must be at least 6 characters long" {
		t.Errorf("password error = %q", errs["password"])
	}
	if errs["confirmPassword"] != "Passwords do not match" {
		t.Errorf("confirmPassword error = %q", errs["confirmPassword"])
	}
}

func TestValidateSignIn_MissingPassword(t *testing.T) {
	errs := ValidateSignIn(SignInForm{Email: "jane@example.com"})
	if errs["password"] != "Please enter your password" {
		t.Errorf("password error = %q, want %q", errs["password"], "Please enter your password")
	}
	if _, ok := errs["email"]; ok {
		t.Error("expected no email error")
	}
}

func TestValidatePasswordChange(t *testing.T) {
	errs := ValidatePasswordChange(PasswordChangeForm{
		CurrentPassword: "",
		NewPassword:     "newsecret",
		ConfirmPassword: "different",
	})
	if errs["currentPassword"] != "Current password is required" {
		t.Errorf("currentPassword error = %q", errs["currentPassword"])
	}
	if errs["confirmPassword"] != "Passwords do not match" {
		t.Errorf("confirmPassword error = %q", errs["confirmPassword"])
	}
	if _, ok := errs["newPassword"]; ok {
		t.Error("expected no newPassword error")
	}
}

func TestValidateAppointment_EmailMessages(t *testing.T) {
	base := model.AppointmentRequest{
		PatientName:   "John Smith",
		Email:         "john@example.com",
		Phone:         "01684 292668",
		Service:       "General Dentistry",
		PreferredDate: "2030-01-01",
		PreferredTime: "9:00 AM",
	}
	if errs := ValidateAppointment(base); !errs.Valid() {
		t.Fatalf("expected no errors, got %v", errs)
	}

	empty := base
	empty.Email = ""
	if got := ValidateAppointment(empty)["email"]; got != "Email address is required" {
		t.Errorf("empty email error = %q", got)
	}

	malformed := base
	malformed.Email = "john"
	if got := ValidateAppointment(malformed)["email"]; got != "Please enter a valid email address" {
		t.Errorf("malformed email error = %q", got)
	}
}

func TestValidateAppointment_RequiredFields(t *testing.T) {
	errs := ValidateAppointment(model.AppointmentRequest{})
	for _, field := range []string{"patientName", "email", "phone", "service", "preferredDate", "preferredTime"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q", field)
		}
	}
	if _, ok := errs["message"]; ok {
		t.Error("message is optional")
	}
}

func TestValidateContact(t *testing.T) {
	errs := ValidateContact(ContactForm{Name: "Ann", Email: "ann@example.com", Message: "Hello"})
	if !errs.Valid() {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs = ValidateContact(ContactForm{})
	if errs["message"] != "Message is required" {
		t.Errorf("message error = %q", errs["message"])
	}
}
