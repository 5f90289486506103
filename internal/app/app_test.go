package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
	"github.com/BruksfildServices01/lead-crm/internal/crmapi"
)

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, crmapi.ErrBaseURLMissing)
}

func TestInitSignedOutLoadsEmptyList(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	st, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	defer st.Teardown()

	st.Init(context.Background())

	assert.Empty(t, st.Cache.Leads())
	assert.False(t, st.Cache.Loading())
	assert.Zero(t, hits.Load())
}

func TestInitRestoresSessionAndLoads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, crmapi.PathShowAllBookings, r.URL.Path)
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"bookings":[{"id":1,"name":"Ana","status":"Pending"}],"total":1}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	first, err := New(Config{BaseURL: srv.URL, StateDir: dir})
	require.NoError(t, err)
	require.NoError(t, first.Session.Persist("jwt-1", crm.User{ID: "1", Name: "Ana"}))
	first.Teardown()

	st, err := New(Config{BaseURL: srv.URL, StateDir: dir})
	require.NoError(t, err)
	defer st.Teardown()

	st.Init(context.Background())

	require.NotNil(t, st.Session.User())
	assert.Equal(t, "Ana", st.Session.User().Name)
	assert.Equal(t, "jwt-1", st.Cookies.AuthToken())

	leads := st.Cache.Leads()
	require.Len(t, leads, 1)
	assert.Equal(t, "1", leads[0].ID)
}

func TestTeardownDiscardsInFlightLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`[{"id":"late"}]`))
	}))
	defer srv.Close()
	defer close(release)

	st, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, st.Session.Persist("jwt-1", crm.User{Name: "Ana"}))

	done := make(chan struct{})
	go func() {
		st.Refresh(context.Background())
		close(done)
	}()

	<-started
	st.Teardown()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not stop after teardown")
	}

	assert.Empty(t, st.Cache.Leads())
	assert.False(t, st.Cache.Loading())
}
