package views

import "github.com/BruksfildServices01/lead-crm/internal/crm"

type Stats struct {
	Total          int
	ByStatus       map[crm.Status]int
	BySource       map[crm.Source]int
	ConversionRate float64
}

// Summarize counts leads per canonical status and per source. Conversion
// is completed leads over all leads.
func Summarize(leads []crm.Lead) Stats {
	s := Stats{
		Total:    len(leads),
		ByStatus: make(map[crm.Status]int),
		BySource: make(map[crm.Source]int),
	}

	for _, l := range leads {
		s.ByStatus[l.Status.Canonical()]++
		src := l.Source
		if src == "" {
			src = crm.SourceManual
		}
		s.BySource[src]++
	}

	if s.Total > 0 {
		s.ConversionRate = float64(s.ByStatus[crm.StatusCompleted]) / float64(s.Total)
	}
	return s
}
