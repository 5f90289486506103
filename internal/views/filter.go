package views

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

const AllStatuses = "All"

// Filter is a conjunction of its non-empty parts. From and To are
// inclusive and each may be left zero to open that side of the range.
type Filter struct {
	Search string
	Status string
	From   Date
	To     Date
}

func (f Filter) Apply(leads []crm.Lead, loc *time.Location) []crm.Lead {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	status := strings.TrimSpace(f.Status)
	if strings.EqualFold(status, AllStatuses) {
		status = ""
	}
	ranged := !f.From.IsZero() || !f.To.IsZero()

	out := make([]crm.Lead, 0, len(leads))
	for _, l := range leads {
		if status != "" && !strings.EqualFold(string(l.Status), status) {
			continue
		}
		if term != "" && !matches(l, term) {
			continue
		}
		if ranged && !f.contains(ParseLeadDate(l, loc)) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matches(l crm.Lead, term string) bool {
	return strings.Contains(strings.ToLower(l.Name), term) ||
		strings.Contains(strings.ToLower(l.Phone), term) ||
		strings.Contains(strings.ToLower(l.Text()), term)
}

func (f Filter) contains(p Parsed) bool {
	if !p.OK() {
		return false
	}
	if !f.From.IsZero() && p.Day.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && p.Day.After(f.To) {
		return false
	}
	return true
}

type Preset string

const (
	PresetAll       Preset = "all"
	PresetToday     Preset = "today"
	PresetLast7Days Preset = "last7days"
	PresetLastYear  Preset = "lastyear"
)

// Range resolves a preset against now. PresetAll and unknown presets give
// an open range.
func (p Preset) Range(now time.Time) (from, to Date) {
	today := DateOf(now)
	switch p {
	case PresetToday:
		return today, today
	case PresetLast7Days:
		return today.AddDays(-7), today
	case PresetLastYear:
		return DateOf(now.AddDate(-1, 0, 0)), today
	default:
		return Date{}, Date{}
	}
}
