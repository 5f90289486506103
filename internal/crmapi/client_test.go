package crmapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newTestServer(t *testing.T, status int, reply string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.body))
		}
		calls = append(calls, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", srv.Client())
	require.NoError(t, err)
	return c, &calls
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("  ", nil)
	assert.ErrorIs(t, err, ErrBaseURLMissing)

	c, err := New("http://localhost:5000/", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestLoginDecodesTokenAndUser(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK,
		`{"token":"jwt-1","user":{"id":7,"name":"Ana","email":"ana@example.com"}}`)

	out, err := c.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "jwt-1", out.Token)
	assert.Equal(t, "Ana", out.User.Name)
	assert.EqualValues(t, "7", out.User.ID)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, PathLogin, got.path)
	assert.Empty(t, got.auth)
	assert.Equal(t, map[string]any{"email": "ana@example.com", "password": "secret"}, got.body)
}

func TestListBookingsSendsBearerAndReturnsRawBody(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `{"bookings":[],"total":0}`)

	raw, err := c.ListBookings(context.Background(), "tok")
	require.NoError(t, err)

	assert.JSONEq(t, `{"bookings":[],"total":0}`, string(raw))
	require.Len(t, *calls, 1)
	assert.Equal(t, "Bearer tok", (*calls)[0].auth)
	assert.Equal(t, PathShowAllBookings, (*calls)[0].path)
}

func TestCreateBookingOmitsEmptyOptionalFields(t *testing.T) {
	c, calls := newTestServer(t, http.StatusCreated,
		`{"message":"Booking created","booking":{"id":"b1","name":"Test"}}`)

	rec, err := c.CreateBooking(context.Background(), "tok", BookingInput{
		Name: "Test", Phone: "5551234567", Problem: "Leak",
		Date: "10/10/2025", Time: "09:00", Status: "Pending",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b1","name":"Test"}`, string(rec))

	require.Len(t, *calls, 1)
	assert.Equal(t, map[string]any{
		"name": "Test", "phone": "5551234567", "problem": "Leak",
		"date": "10/10/2025", "time": "09:00", "status": "Pending",
	}, (*calls)[0].body)
}

func TestMutationWithoutRecordReturnsNil(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `{"message":"Status updated"}`)

	rec, err := c.UpdateBookingStatus(context.Background(), "tok", "a b", "Completed")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/api/bookings/a b/status", (*calls)[0].path)
	assert.Equal(t, map[string]any{"status": "Completed"}, (*calls)[0].body)
}

func TestErrorResponseBecomesAPIError(t *testing.T) {
	c, _ := newTestServer(t, http.StatusUnauthorized,
		`{"error_code":"invalid_token","message":"Token is invalid or expired"}`)

	_, err := c.Profile(context.Background(), "stale")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid_token", apiErr.Code)
	assert.True(t, apiErr.Unauthorized())
	assert.Contains(t, err.Error(), "Token is invalid or expired")
}

func TestErrorWithoutJSONBody(t *testing.T) {
	c, _ := newTestServer(t, http.StatusInternalServerError, `boom`)

	err := c.DeleteBooking(context.Background(), "tok", "b1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status)
	assert.False(t, apiErr.Unauthorized())
	assert.Equal(t, "api 500", apiErr.Error())
}

func TestAIEndpoints(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `{"response":"Hi Ana","summary":"short"}`)

	reply, err := c.GenerateLeadResponse(context.Background(), "tok",
		LeadResponseRequest{Name: "Ana", Message: "My sink leaks", Source: "WhatsApp"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ana", reply)

	sum, err := c.SummarizeConversation(context.Background(), "tok", "a: hi\nb: hello")
	require.NoError(t, err)
	assert.Equal(t, "short", sum)

	require.Len(t, *calls, 2)
	assert.Equal(t, PathLeadResponse, (*calls)[0].path)
	assert.Equal(t, PathSummarize, (*calls)[1].path)
}
