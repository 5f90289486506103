package crm

import "strings"

type Status string

const (
	StatusPending     Status = "Pending"
	StatusScheduled   Status = "Scheduled"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
	StatusRescheduled Status = "Rescheduled"
	StatusLost        Status = "Lost"
)

// StatusOrder is the display order of the status pipeline.
var StatusOrder = []Status{
	StatusPending,
	StatusScheduled,
	StatusRescheduled,
	StatusCompleted,
	StatusCancelled,
	StatusLost,
}

var statusAliases = map[string]Status{
	"pending":     StatusPending,
	"new":         StatusPending,
	"scheduled":   StatusScheduled,
	"in progress": StatusScheduled,
	"in_progress": StatusScheduled,
	"completed":   StatusCompleted,
	"converted":   StatusCompleted,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"rescheduled": StatusRescheduled,
	"lost":        StatusLost,
}

// ParseStatus folds the per-view names (New, In Progress, Converted...)
// onto the canonical pipeline.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// Canonical returns the canonical form when known, the input otherwise.
func (s Status) Canonical() Status {
	if st, ok := ParseStatus(string(s)); ok {
		return st
	}
	return s
}

func (s Status) Known() bool {
	_, ok := ParseStatus(string(s))
	return ok
}
