package views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

// Via tells which step of the parser chain produced a lead's day.
type Via int

const (
	ViaNone Via = iota
	ViaSlash
	ViaISO
	ViaFallback
)

func (v Via) String() string {
	switch v {
	case ViaSlash:
		return "slash"
	case ViaISO:
		return "iso"
	case ViaFallback:
		return "fallback"
	default:
		return "none"
	}
}

type Parsed struct {
	Day Date
	Via Via
}

func (p Parsed) OK() bool { return p.Via != ViaNone }

var ErrBadDate = errors.New("views: unparseable date")

// ParseSlash reads D/M/YYYY (one or two digit day and month).
func ParseSlash(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return Date{}, ErrBadDate
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, ErrBadDate
	}
	return NewDate(year, time.Month(month), day)
}

// ParseISO reads YYYY-MM-DD, or the date part of an RFC 3339 timestamp as
// seen in loc.
func ParseISO(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t.In(loc)), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrBadDate
	}
	return DateOf(t), nil
}

// ParseLeadDate runs the chain slash → ISO → created_at. A lead with an
// unparseable date and no created_at comes back with ViaNone.
func ParseLeadDate(l crm.Lead, loc *time.Location) Parsed {
	if d, err := ParseSlash(l.Date); err == nil {
		return Parsed{Day: d, Via: ViaSlash}
	}
	if d, err := ParseISO(l.Date, loc); err == nil {
		return Parsed{Day: d, Via: ViaISO}
	}
	if !l.CreatedAt.IsZero() {
		return Parsed{Day: DateOf(l.CreatedAt.In(loc)), Via: ViaFallback}
	}
	return Parsed{Via: ViaNone}
}

// Date is a calendar day with no time or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate rejects out-of-range days such as 31/02.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December || day < 1 || year < 1 {
		return Date{}, ErrBadDate
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrBadDate, year, month, day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool { return o.Before(d) }

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Slash formats as DD/MM/YYYY, the form the backend stores.
func (d Date) Slash() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}
