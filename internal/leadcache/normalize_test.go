package leadcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

func TestNormalizeAcceptsEveryKnownShape(t *testing.T) {
	payloads := map[string]string{
		"bookings": `{"bookings":[{"id":1,"name":"John"},{"id":"b-2","name":"Jane"}]}`,
		"leads":    `{"leads":[{"id":1,"name":"John"},{"id":"b-2","name":"Jane"}]}`,
		"data":     `{"data":[{"id":1,"name":"John"},{"id":"b-2","name":"Jane"}],"total":2}`,
		"bare":     `[{"id":1,"name":"John"},{"id":"b-2","name":"Jane"}]`,
	}

	for name, body := range payloads {
		t.Run(name, func(t *testing.T) {
			leads, err := Normalize([]byte(body))
			require.NoError(t, err)
			require.Len(t, leads, 2)
			assert.Equal(t, "1", leads[0].ID)
			assert.Equal(t, "b-2", leads[1].ID)
			assert.Equal(t, "John", leads[0].Name)
		})
	}
}

func TestNormalizeNullEnvelopeIsEmpty(t *testing.T) {
	leads, err := Normalize([]byte(`{"bookings": null}`))
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestNormalizeRejectsUnknownShapes(t *testing.T) {
	for _, body := range []string{``, `"oops"`, `{"message":"unauthorized"}`, `{"bookings":{"id":1}}`, `[1,2]`} {
		_, err := Normalize([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestNormalizeRejectsRecordWithoutID(t *testing.T) {
	_, err := Normalize([]byte(`[{"name":"no id"}]`))
	assert.ErrorIs(t, err, crm.ErrInvalidID)
}

func TestNormalizeSkipsUndecodableRecords(t *testing.T) {
	leads, err := Normalize([]byte(`{"bookings":[{"id":1,"name":"John"},{"id":null},{"name":"no id"},{"id":"b-4","name":"Jane"}]}`))

	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "1", leads[0].ID)
	assert.Equal(t, "b-4", leads[1].ID)
}

func TestDecodeLeadMapsFields(t *testing.T) {
	raw := []byte(`{
		"id": 99,
		"name": "Test",
		"phone": "5551234567",
		"problem": "Leak",
		"source": "whatsapp",
		"status": "Pending",
		"priority": "High",
		"date": "10/10/2025",
		"time": "09:00",
		"created_at": "2025-10-01T08:30:00Z",
		"agent": {"id": 3, "name": "James Brown", "avatarUrl": "https://img/3"}
	}`)

	lead, err := DecodeLead(raw)
	require.NoError(t, err)

	assert.Equal(t, "99", lead.ID)
	assert.Equal(t, crm.SourceWhatsApp, lead.Source)
	assert.Equal(t, crm.StatusPending, lead.Status)
	assert.Equal(t, crm.PriorityHigh, lead.Priority)
	assert.Equal(t, time.Date(2025, 10, 1, 8, 30, 0, 0, time.UTC), lead.CreatedAt.UTC())
	require.NotNil(t, lead.AssignedAgent)
	assert.Equal(t, crm.ID("3"), lead.AssignedAgent.ID)
	assert.Equal(t, "James Brown", lead.AssignedAgent.Name)
}

func TestDecodeLeadToleratesOddTimestamps(t *testing.T) {
	lead, err := DecodeLead([]byte(`{"id":"x","createdAt":"2024-03-15 10:00:00"}`))
	require.NoError(t, err)
	assert.Equal(t, 2024, lead.CreatedAt.Year())

	lead, err = DecodeLead([]byte(`{"id":"x","created_at":"yesterday"}`))
	require.NoError(t, err)
	assert.True(t, lead.CreatedAt.IsZero())
}
