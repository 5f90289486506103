package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

const (
	PathRegister            = "/api/register"
	PathLogin               = "/api/login"
	PathProfile             = "/api/profile"
	PathUpdateProfile       = "/api/update-profile"
	PathForgotPassword      = "/api/forgot-password"
	PathVerifyResetPassword = "/api/verify-reset-password"
	PathShowAllBookings     = "/api/showallbookings"
	PathBookings            = "/api/bookings"
	PathLeadResponse        = "/api/ai/lead-response"
	PathSummarize           = "/api/ai/summarize"
)

func BookingPath(id string) string {
	return PathBookings + "/" + url.PathEscape(id)
}

func BookingStatusPath(id string) string {
	return BookingPath(id) + "/status"
}

func BookingDetailsPath(id string) string {
	return BookingPath(id) + "/details"
}

// ---------- auth / profile ----------

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	City     string `json:"city,omitempty"`
	Address  string `json:"address,omitempty"`
}

type AuthResponse struct {
	Token   string   `json:"token"`
	User    crm.User `json:"user"`
	Message string   `json:"message,omitempty"`
}

type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	City     string `json:"city,omitempty"`
	Address  string `json:"address,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Language string `json:"language,omitempty"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	User    crm.User `json:"user"`
	Message string   `json:"message"`
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, PathRegister, "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*crm.User, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodGet, PathProfile, token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, in ProfileUpdate) (*crm.User, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodPut, PathUpdateProfile, token, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, PathForgotPassword, "", map[string]string{"email": email}, &out)
	return out.Message, err
}

func (c *Client) VerifyResetPassword(ctx context.Context, in ResetPasswordRequest) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, PathVerifyResetPassword, "", in, &out)
	return out.Message, err
}

// ---------- bookings ----------

// BookingInput is the write shape for create and full-detail updates.
// Optional fields are omitted when empty.
type BookingInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Problem  string `json:"problem"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Status   string `json:"status"`
	Source   string `json:"source,omitempty"`
	Priority string `json:"priority,omitempty"`
	AgentID  string `json:"agentId,omitempty"`
}

// ListBookings returns the raw body; the lead cache owns shape detection.
func (c *Client) ListBookings(ctx context.Context, token string) ([]byte, error) {
	var raw []byte
	if err := c.do(ctx, http.MethodGet, PathShowAllBookings, token, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) CreateBooking(ctx context.Context, token string, in BookingInput) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPost, PathBookings, token, in)
}

func (c *Client) UpdateBookingStatus(ctx context.Context, token, id, status string) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPut, BookingStatusPath(id), token, map[string]string{"status": status})
}

func (c *Client) UpdateBookingDetails(ctx context.Context, token, id string, in BookingInput) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPut, BookingDetailsPath(id), token, in)
}

func (c *Client) DeleteBooking(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, BookingPath(id), token, nil, nil)
}

// write returns the record embedded in a mutation answer, or nil when the
// backend sent none.
func (c *Client) write(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	var raw []byte
	if err := c.do(ctx, method, path, token, body, &raw); err != nil {
		return nil, err
	}
	return extractRecord(raw), nil
}

func extractRecord(raw []byte) json.RawMessage {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	for _, key := range []string{"booking", "lead", "data"} {
		if v, ok := env[key]; ok && len(bytes.TrimSpace(v)) > 0 && bytes.TrimSpace(v)[0] == '{' {
			return v
		}
	}
	if _, ok := env["id"]; ok {
		return raw
	}
	return nil
}

// ---------- ai ----------

type LeadResponseRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

func (c *Client) GenerateLeadResponse(ctx context.Context, token string, in LeadResponseRequest) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, PathLeadResponse, token, in, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) SummarizeConversation(ctx context.Context, token, conversation string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	body := map[string]string{"conversation": conversation}
	if err := c.do(ctx, http.MethodPost, PathSummarize, token, body, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}
