package actions

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
	"github.com/BruksfildServices01/lead-crm/internal/crmapi"
	"github.com/BruksfildServices01/lead-crm/internal/timezone"
	"github.com/BruksfildServices01/lead-crm/internal/views"
)

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type LeadForm struct {
	Name     string
	Phone    string
	Problem  string
	Date     string
	Time     string
	Status   string
	Source   string
	Priority string
	AgentID  string
}

// Validate checks the form and builds the request body. The first
// problem found is returned.
func (f LeadForm) Validate() (crmapi.BookingInput, error) {
	in := crmapi.BookingInput{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Problem: strings.TrimSpace(f.Problem),
		Date:    strings.TrimSpace(f.Date),
		Time:    strings.TrimSpace(f.Time),
		AgentID: strings.TrimSpace(f.AgentID),
	}

	if utf8.RuneCountInString(in.Name) < 2 {
		return in, invalid("name", "Name must be at least 2 characters")
	}
	if countDigits(in.Phone) < 10 {
		return in, invalid("phone", "Phone number must be at least 10 digits")
	}
	if in.Problem == "" {
		return in, invalid("problem", "Problem description is required")
	}
	if _, err := views.ParseSlash(in.Date); err != nil {
		return in, invalid("date", "Date must be in DD/MM/YYYY format")
	}
	if !clockRe.MatchString(in.Time) {
		return in, invalid("time", "Time must be in HH:MM format")
	}

	status := crm.StatusPending
	if strings.TrimSpace(f.Status) != "" {
		st, ok := crm.ParseStatus(f.Status)
		if !ok {
			return in, invalid("status", "Unknown status: "+f.Status)
		}
		status = st
	}
	in.Status = string(status)

	if strings.TrimSpace(f.Source) != "" {
		src, ok := crm.ParseSource(f.Source)
		if !ok {
			return in, invalid("source", "Unknown source: "+f.Source)
		}
		in.Source = string(src)
	}
	if strings.TrimSpace(f.Priority) != "" {
		p, ok := crm.ParsePriority(f.Priority)
		if !ok {
			return in, invalid("priority", "Unknown priority: "+f.Priority)
		}
		in.Priority = string(p)
	}
	return in, nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

type ProfileForm struct {
	Name     string
	Phone    string
	Location string
	City     string
	Address  string
	Timezone string
	Language string
}

func (f ProfileForm) Validate() (crmapi.ProfileUpdate, error) {
	in := crmapi.ProfileUpdate{
		Name:     strings.TrimSpace(f.Name),
		Phone:    strings.TrimSpace(f.Phone),
		Location: strings.TrimSpace(f.Location),
		City:     strings.TrimSpace(f.City),
		Address:  strings.TrimSpace(f.Address),
		Timezone: strings.TrimSpace(f.Timezone),
		Language: strings.TrimSpace(f.Language),
	}

	if in == (crmapi.ProfileUpdate{}) {
		return in, invalid("name", "Nothing to update")
	}
	if in.Timezone != "" {
		if !timezone.IsValid(in.Timezone) {
			return in, invalid("timezone", fmt.Sprintf("Unknown timezone: %s", in.Timezone))
		}
	}
	return in, nil
}

type RegisterForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
	Phone    string
	Location string
	City     string
	Address  string
}

func (f RegisterForm) Validate() (crmapi.RegisterRequest, error) {
	in := crmapi.RegisterRequest{
		Name:     strings.TrimSpace(f.Name),
		Email:    normalizeEmail(f.Email),
		Password: f.Password,
		Phone:    strings.TrimSpace(f.Phone),
		Location: strings.TrimSpace(f.Location),
		City:     strings.TrimSpace(f.City),
		Address:  strings.TrimSpace(f.Address),
	}

	if in.Name == "" {
		return in, invalid("name", "Name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return in, invalid("email", "A valid email is required")
	}
	if err := checkPassword(f.Password, f.Confirm); err != nil {
		return in, err
	}
	return in, nil
}

type ResetForm struct {
	Email    string
	OTP      string
	Password string
	Confirm  string
}

func (f ResetForm) Validate() (crmapi.ResetPasswordRequest, error) {
	in := crmapi.ResetPasswordRequest{
		Email:       normalizeEmail(f.Email),
		OTP:         strings.TrimSpace(f.OTP),
		NewPassword: f.Password,
	}

	if in.Email == "" {
		return in, invalid("email", "Email is required")
	}
	if in.OTP == "" {
		return in, invalid("otp", "Verification code is required")
	}
	if err := checkPassword(f.Password, f.Confirm); err != nil {
		return in, err
	}
	return in, nil
}

func checkPassword(password, confirm string) error {
	if len(password) < 6 {
		return invalid("password", "Password must be at least 6 characters")
	}
	if password != confirm {
		return invalid("confirm", "Passwords do not match")
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
