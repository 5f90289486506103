package booking

import (
	"strings"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
	"github.com/BruksfildServices01/lead-crm/internal/httperr"
)

// ===============================
// Booking Status
// ===============================

func InitialStatus() crm.Status {
	return crm.StatusPending
}

// NormalizeStatus maps a status or one of its aliases to the stored
// canonical value. Empty means the initial status.
func NormalizeStatus(s string) (crm.Status, error) {
	if strings.TrimSpace(s) == "" {
		return InitialStatus(), nil
	}
	st, ok := crm.ParseStatus(s)
	if !ok {
		return "", httperr.ErrBusiness("invalid_status")
	}
	return st, nil
}
