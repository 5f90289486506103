package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/models"
)

func validFields() Fields {
	return Fields{
		Name:    "Test",
		Phone:   "5551234567",
		Problem: "Leak",
		Date:    "10/10/2025",
		Time:    "09:00",
	}
}

func TestValidateNormalizes(t *testing.T) {
	f := validFields()
	f.Date = "2025-10-01"
	f.Time = "9:05"
	f.Status = "new"
	f.Source = "whatsapp"
	f.Priority = "low"
	f.AgentID = " agent-2 "

	out, err := Validate(f)

	require.NoError(t, err)
	assert.Equal(t, "01/10/2025", out.Date)
	assert.Equal(t, "09:05", out.Time)
	assert.Equal(t, "Pending", out.Status)
	assert.Equal(t, "WhatsApp", out.Source)
	assert.Equal(t, "Low", out.Priority)
	assert.Equal(t, "agent-2", out.AgentID)
}

func TestValidateDefaults(t *testing.T) {
	out, err := Validate(validFields())

	require.NoError(t, err)
	assert.Equal(t, "Pending", out.Status)
	assert.Equal(t, "Manual", out.Source)
	assert.Empty(t, out.Priority)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Fields)
		code   string
	}{
		"name":     {func(f *Fields) { f.Name = "A" }, "invalid_name"},
		"phone":    {func(f *Fields) { f.Phone = "12345" }, "invalid_phone"},
		"problem":  {func(f *Fields) { f.Problem = "" }, "missing_problem"},
		"date":     {func(f *Fields) { f.Date = "31/02/2025" }, "invalid_date"},
		"time":     {func(f *Fields) { f.Time = "25:00" }, "invalid_time"},
		"status":   {func(f *Fields) { f.Status = "Archived" }, "invalid_status"},
		"source":   {func(f *Fields) { f.Source = "Fax" }, "invalid_source"},
		"priority": {func(f *Fields) { f.Priority = "Urgent" }, "invalid_priority"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := validFields()
			tc.mutate(&f)

			_, err := Validate(f)

			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestApplyAndChangeStatus(t *testing.T) {
	b := &models.Booking{ID: "b1", AgentID: strPtr("agent-1")}
	f, err := Validate(validFields())
	require.NoError(t, err)

	Apply(b, f)
	assert.Equal(t, "Test", b.Name)
	assert.Nil(t, b.AgentID)

	require.NoError(t, ChangeStatus(b, "converted"))
	assert.Equal(t, "Completed", b.Status)

	assert.True(t, httperr.IsBusiness(ChangeStatus(b, ""), "invalid_status"))
	assert.True(t, httperr.IsBusiness(ChangeStatus(b, "Archived"), "invalid_status"))
	assert.Equal(t, "Completed", b.Status)
}

func strPtr(s string) *string { return &s }
