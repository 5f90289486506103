package actions

import (
	"errors"

	"github.com/BruksfildServices01/lead-crm/internal/crmapi"
)

type Variant string

const (
	VariantDefault     Variant = ""
	VariantDestructive Variant = "destructive"
)

// Notification is a transient message for the user.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

const genericFailure = "Something went wrong. Please try again."

// describe picks the most useful text for a failed request: the backend
// message, then its error code, then a generic line.
func describe(err error) string {
	var apiErr *crmapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Code != "" {
			return apiErr.Code
		}
	}
	return genericFailure
}
