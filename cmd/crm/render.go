package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
	"github.com/BruksfildServices01/lead-crm/internal/views"
)

func printLeads(w io.Writer, leads []crm.Lead) {
	if len(leads) == 0 {
		fmt.Fprintln(w, "(no leads)")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tSTATUS\tSOURCE\tDATE\tTIME\tAGENT\tPROBLEM")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Name, l.Phone, l.Status, l.Source, l.Date, l.Time, l.AgentName(), clip(l.Text(), 40))
	}
	tw.Flush()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printUser(w io.Writer, u *crm.User) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"id", string(u.ID)},
		{"name", u.Name},
		{"email", u.Email},
		{"phone", u.Phone},
		{"location", u.Location},
		{"city", u.City},
		{"address", u.Address},
		{"timezone", u.Timezone},
		{"language", u.Language},
		{"avatar", u.AvatarURL},
	}
	for _, r := range rows {
		if r[1] != "" {
			fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
		}
	}
	tw.Flush()
}

func printCalendar(w io.Writer, year int, month time.Month, weekStart time.Weekday, buckets map[views.Date][]crm.Lead, today views.Date) {
	fmt.Fprintf(w, "%s %d\n", month, year)

	for i := 0; i < 7; i++ {
		fmt.Fprintf(w, " %-6s", time.Weekday((int(weekStart)+i)%7).String()[:3])
	}
	fmt.Fprintln(w)

	for _, week := range views.MonthGrid(year, month, weekStart) {
		for _, cell := range week {
			if !cell.InMonth {
				fmt.Fprintf(w, " %-6s", ".")
				continue
			}
			mark := " "
			if cell.Date == today {
				mark = "*"
			}
			label := fmt.Sprintf("%d", cell.Date.Day)
			if n := len(buckets[cell.Date]); n > 0 {
				label = fmt.Sprintf("%d(%d)", cell.Date.Day, n)
			}
			fmt.Fprintf(w, "%s%-6s", mark, label)
		}
		fmt.Fprintln(w)
	}
}

func printStats(w io.Writer, s views.Stats) {
	fmt.Fprintf(w, "Total leads: %d\n", s.Total)
	fmt.Fprintf(w, "Conversion rate: %.1f%%\n\n", s.ConversionRate*100)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCOUNT")
	for _, st := range crm.StatusOrder {
		fmt.Fprintf(tw, "%s\t%d\n", st, s.ByStatus[st])
	}
	var other []string
	for st := range s.ByStatus {
		if !st.Known() {
			other = append(other, string(st))
		}
	}
	sort.Strings(other)
	for _, st := range other {
		fmt.Fprintf(tw, "%s\t%d\n", st, s.ByStatus[crm.Status(st)])
	}
	tw.Flush()

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tCOUNT")
	for _, src := range crm.Sources {
		fmt.Fprintf(tw, "%s\t%d\n", src, s.BySource[src])
	}
	tw.Flush()
}
