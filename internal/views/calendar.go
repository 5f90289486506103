package views

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

// BucketByDay groups leads by parsed day. Leads with no usable date are
// left out.
func BucketByDay(leads []crm.Lead, loc *time.Location) map[Date][]crm.Lead {
	out := make(map[Date][]crm.Lead)
	for _, l := range leads {
		p := ParseLeadDate(l, loc)
		if !p.OK() {
			continue
		}
		out[p.Day] = append(out[p.Day], l)
	}
	return out
}

// LeadsOn returns the leads for one day ordered by their time field.
func LeadsOn(leads []crm.Lead, day Date, loc *time.Location) []crm.Lead {
	var out []crm.Lead
	for _, l := range leads {
		if p := ParseLeadDate(l, loc); p.OK() && p.Day == day {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Upcoming returns leads dated on or after from, soonest first.
func Upcoming(leads []crm.Lead, from Date, loc *time.Location) []crm.Lead {
	type dated struct {
		day  Date
		lead crm.Lead
	}

	var ds []dated
	for _, l := range leads {
		p := ParseLeadDate(l, loc)
		if p.OK() && !p.Day.Before(from) {
			ds = append(ds, dated{p.Day, l})
		}
	}
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].day != ds[j].day {
			return ds[i].day.Before(ds[j].day)
		}
		return ds[i].lead.Time < ds[j].lead.Time
	})

	out := make([]crm.Lead, len(ds))
	for i, d := range ds {
		out[i] = d.lead
	}
	return out
}

type Cell struct {
	Date    Date
	InMonth bool
}

// MonthGrid lays a month out as six weeks starting on weekStart, padding
// with days of the neighbouring months.
func MonthGrid(year int, month time.Month, weekStart time.Weekday) [6][7]Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	start := DateOf(first).AddDays(-offset)

	var grid [6][7]Cell
	for w := 0; w < 6; w++ {
		for d := 0; d < 7; d++ {
			day := start.AddDays(w*7 + d)
			grid[w][d] = Cell{Date: day, InMonth: day.Month == month && day.Year == year}
		}
	}
	return grid
}
