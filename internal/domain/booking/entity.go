package booking

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/models"
)

var ErrNotFound = errors.New("booking: not found")

const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

// Fields are the editable parts of a booking, as received.
type Fields struct {
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

// Validate checks and normalizes the fields: dates become DD/MM/YYYY,
// times HH:MM, enums their canonical spelling.
func Validate(f Fields) (Fields, error) {
	out := Fields{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Problem: strings.TrimSpace(f.Problem),
		AgentID: strings.TrimSpace(f.AgentID),
	}

	if utf8.RuneCountInString(out.Name) < 2 {
		return out, httperr.ErrBusiness("invalid_name")
	}
	if digits(out.Phone) < 10 {
		return out, httperr.ErrBusiness("invalid_phone")
	}
	if out.Problem == "" {
		return out, httperr.ErrBusiness("missing_problem")
	}

	day, err := ParseDay(f.Date)
	if err != nil {
		return out, err
	}
	out.Date = day.Format(DateLayout)

	clock, err := time.Parse(TimeLayout, strings.TrimSpace(f.Time))
	if err != nil {
		return out, httperr.ErrBusiness("invalid_time")
	}
	out.Time = clock.Format(TimeLayout)

	st, err := NormalizeStatus(f.Status)
	if err != nil {
		return out, err
	}
	out.Status = string(st)

	out.Source = string(crm.SourceManual)
	if strings.TrimSpace(f.Source) != "" {
		src, ok := crm.ParseSource(f.Source)
		if !ok {
			return out, httperr.ErrBusiness("invalid_source")
		}
		out.Source = string(src)
	}

	if strings.TrimSpace(f.Priority) != "" {
		p, ok := crm.ParsePriority(f.Priority)
		if !ok {
			return out, httperr.ErrBusiness("invalid_priority")
		}
		out.Priority = string(p)
	}

	return out, nil
}

// ParseDay accepts D/M/YYYY or YYYY-MM-DD.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2/1/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, httperr.ErrBusiness("invalid_date")
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// ===============================
// Domain Actions
// ===============================

// Apply copies validated fields onto the record.
func Apply(b *models.Booking, f Fields) {
	b.Name = f.Name
	b.Phone = f.Phone
	b.Problem = f.Problem
	b.Date = f.Date
	b.Time = f.Time
	b.Status = f.Status
	b.Source = f.Source
	b.Priority = f.Priority

	b.AgentID = nil
	b.Agent = nil
	if f.AgentID != "" {
		id := f.AgentID
		b.AgentID = &id
	}
}

// ChangeStatus requires an explicit status; any known status may follow
// any other.
func ChangeStatus(b *models.Booking, status string) error {
	if strings.TrimSpace(status) == "" {
		return httperr.ErrBusiness("invalid_status")
	}
	st, err := NormalizeStatus(status)
	if err != nil {
		return err
	}
	b.Status = string(st)
	return nil
}
