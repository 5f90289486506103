package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

func TestParseLeadDateSlashIsDayFirst(t *testing.T) {
	for _, loc := range []*time.Location{time.UTC, time.FixedZone("UTC-10", -10*3600), time.FixedZone("IST", 19800)} {
		p := ParseLeadDate(crm.Lead{Date: "15/03/2024"}, loc)

		assert.Equal(t, ViaSlash, p.Via)
		assert.Equal(t, Date{2024, time.March, 15}, p.Day)
	}
}

func TestParseLeadDateISO(t *testing.T) {
	p := ParseLeadDate(crm.Lead{Date: "2024-03-15"}, time.UTC)
	assert.Equal(t, ViaISO, p.Via)
	assert.Equal(t, Date{2024, time.March, 15}, p.Day)

	ist := time.FixedZone("IST", 19800)
	p = ParseLeadDate(crm.Lead{Date: "2024-03-15T20:00:00Z"}, ist)
	assert.Equal(t, ViaISO, p.Via)
	assert.Equal(t, Date{2024, time.March, 16}, p.Day)
}

func TestParseLeadDateFallsBackToCreatedAt(t *testing.T) {
	lead := crm.Lead{
		Date:      "not-a-date",
		CreatedAt: time.Date(2024, time.July, 4, 12, 0, 0, 0, time.UTC),
	}

	p := ParseLeadDate(lead, time.UTC)
	assert.Equal(t, ViaFallback, p.Via)
	assert.Equal(t, Date{2024, time.July, 4}, p.Day)
}

func TestParseLeadDateNone(t *testing.T) {
	p := ParseLeadDate(crm.Lead{Date: "31/02/2024"}, time.UTC)
	assert.Equal(t, ViaNone, p.Via)
	assert.False(t, p.OK())
	assert.Equal(t, "none", p.Via.String())
}

func TestParseSlash(t *testing.T) {
	d, err := ParseSlash("1/3/2024")
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.March, 1}, d)
	assert.Equal(t, "01/03/2024", d.Slash())
	assert.Equal(t, "2024-03-01", d.String())

	for _, bad := range []string{"", "15-03-2024", "15/13/2024", "32/01/2024", "15/03/24", "aa/bb/cccc"} {
		_, err := ParseSlash(bad)
		assert.ErrorIs(t, err, ErrBadDate, bad)
	}
}

func TestDateOrdering(t *testing.T) {
	a := Date{2024, time.January, 31}
	b := a.AddDays(1)

	assert.Equal(t, Date{2024, time.February, 1}, b)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
}
