package account

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	domain "github.com/BruksfildServices01/lead-crm/internal/domain/account"
	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/models"
	"github.com/BruksfildServices01/lead-crm/internal/otp"
)

type memRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[uint]*models.User)}
}

func (r *memRepo) CreateUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return httperr.ErrBusiness("email_already_exists")
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memRepo) UpdateUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type nopWriter struct{}

func (nopWriter) Log(audit.Event) error { return nil }

type capturedMail struct {
	to, name, code string
}

type captureSender struct {
	sent []capturedMail
	err  error
}

func (s *captureSender) SendResetCode(_ context.Context, to, name, code string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, capturedMail{to, name, code})
	return nil
}

const secret = "test-secret"

func allDomains(string) bool { return true }

func setup(t *testing.T) (*memRepo, *Tokens, *audit.Dispatcher) {
	t.Helper()
	d := audit.NewDispatcher(nopWriter{})
	t.Cleanup(d.Close)
	return newMemRepo(), NewTokens(secret, time.Hour), d
}

func register(t *testing.T, repo *memRepo, tokens *Tokens, d *audit.Dispatcher) *models.User {
	t.Helper()
	u, _, err := NewRegister(repo, tokens, allDomains, d).Execute(context.Background(), RegisterInput{
		Name:     "Ana",
		Email:    " Ana@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func TestTokensIssue(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)
	fixed := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return fixed }

	raw, err := tokens.Issue(&models.User{ID: 7, Email: "ana@example.com"})
	require.NoError(t, err)

	parsed, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return fixed }))
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["sub"])
	assert.Equal(t, "ana@example.com", claims["email"])
	assert.Equal(t, float64(fixed.Add(time.Hour).Unix()), claims["exp"])
}

func TestRegisterAndLogin(t *testing.T) {
	repo, tokens, d := setup(t)

	u, token, err := NewRegister(repo, tokens, allDomains, d).Execute(context.Background(), RegisterInput{
		Name:     " Ana ",
		Email:    " Ana@Example.com ",
		Password: "secret1",
		City:     "Lisbon",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "Ana", u.Name)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	login := NewLogin(repo, tokens)
	got, token, err := login.Execute(context.Background(), "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, token)

	_, _, err = login.Execute(context.Background(), "ana@example.com", "wrong")
	assert.True(t, httperr.IsBusiness(err, "invalid_credentials"))
	_, _, err = login.Execute(context.Background(), "nobody@example.com", "secret1")
	assert.True(t, httperr.IsBusiness(err, "invalid_credentials"))
}

func TestRegisterRejects(t *testing.T) {
	repo, tokens, d := setup(t)
	register(t, repo, tokens, d)

	cases := map[string]struct {
		in    RegisterInput
		check DomainCheck
		code  string
	}{
		"name":      {RegisterInput{Email: "b@example.com", Password: "secret1"}, allDomains, "invalid_name"},
		"email":     {RegisterInput{Name: "B", Email: "nope", Password: "secret1"}, allDomains, "invalid_email"},
		"domain":    {RegisterInput{Name: "B", Email: "b@nowhere.test", Password: "secret1"}, func(string) bool { return false }, "invalid_email_domain"},
		"password":  {RegisterInput{Name: "B", Email: "b@example.com", Password: "12345"}, allDomains, "weak_password"},
		"duplicate": {RegisterInput{Name: "B", Email: "ana@example.com", Password: "secret1"}, allDomains, "email_already_exists"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := NewRegister(repo, tokens, tc.check, d).Execute(context.Background(), tc.in)
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	repo, tokens, d := setup(t)
	u := register(t, repo, tokens, d)
	uc := NewUpdateProfile(repo, d)

	city, tz := " Porto ", "Europe/Lisbon"
	got, err := uc.Execute(context.Background(), u.ID, ProfileInput{City: &city, Timezone: &tz})
	require.NoError(t, err)
	assert.Equal(t, "Porto", got.City)
	assert.Equal(t, "Europe/Lisbon", got.Timezone)
	assert.Equal(t, "Ana", got.Name)

	bad := "Mars/Olympus"
	_, err = uc.Execute(context.Background(), u.ID, ProfileInput{Timezone: &bad})
	assert.True(t, httperr.IsBusiness(err, "invalid_timezone"))

	blank := "  "
	_, err = uc.Execute(context.Background(), u.ID, ProfileInput{Name: &blank})
	assert.True(t, httperr.IsBusiness(err, "invalid_name"))

	_, err = uc.Execute(context.Background(), 999, ProfileInput{City: &city})
	assert.True(t, httperr.IsBusiness(err, "user_not_found"))

	stored, err := NewGetProfile(repo).Execute(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Porto", stored.City)
}

func TestForgotAndResetPassword(t *testing.T) {
	repo, tokens, d := setup(t)
	register(t, repo, tokens, d)
	codes := otp.NewMemoryStore()
	sender := &captureSender{}
	forgot := NewForgotPassword(repo, codes, sender)
	reset := NewResetPassword(repo, codes, d)

	require.NoError(t, forgot.Execute(context.Background(), "nobody@example.com"))
	assert.Empty(t, sender.sent)

	require.NoError(t, forgot.Execute(context.Background(), "ANA@example.com"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@example.com", sender.sent[0].to)
	assert.Equal(t, "Ana", sender.sent[0].name)

	err := forgot.Execute(context.Background(), "ana@example.com")
	assert.True(t, httperr.IsBusiness(err, "otp_cooldown"))

	err = reset.Execute(context.Background(), ResetPasswordInput{Email: "ana@example.com", OTP: "000000x", NewPassword: "newpass"})
	assert.True(t, httperr.IsBusiness(err, "invalid_otp"))

	err = reset.Execute(context.Background(), ResetPasswordInput{Email: "ana@example.com", OTP: sender.sent[0].code, NewPassword: "123"})
	assert.True(t, httperr.IsBusiness(err, "weak_password"))

	require.NoError(t, reset.Execute(context.Background(), ResetPasswordInput{
		Email:       "ana@example.com",
		OTP:         sender.sent[0].code,
		NewPassword: "newpass",
	}))

	_, _, err = NewLogin(repo, tokens).Execute(context.Background(), "ana@example.com", "newpass")
	require.NoError(t, err)

	err = reset.Execute(context.Background(), ResetPasswordInput{Email: "ana@example.com", OTP: sender.sent[0].code, NewPassword: "again1"})
	assert.True(t, httperr.IsBusiness(err, "invalid_otp"))
}

func TestForgotPasswordFailedSendAllowsRetry(t *testing.T) {
	repo, tokens, d := setup(t)
	register(t, repo, tokens, d)
	codes := otp.NewMemoryStore()
	sender := &captureSender{err: errors.New("smtp down")}
	forgot := NewForgotPassword(repo, codes, sender)

	err := forgot.Execute(context.Background(), "ana@example.com")
	require.Error(t, err)
	assert.False(t, httperr.IsBusiness(err, "otp_cooldown"))

	sender.err = nil
	require.NoError(t, forgot.Execute(context.Background(), "ana@example.com"))
	require.Len(t, sender.sent, 1)

	reset := NewResetPassword(repo, codes, d)
	require.NoError(t, reset.Execute(context.Background(), ResetPasswordInput{
		Email:       "ana@example.com",
		OTP:         sender.sent[0].code,
		NewPassword: "newpass",
	}))
}

func TestResetPasswordAttemptLimit(t *testing.T) {
	repo, tokens, d := setup(t)
	register(t, repo, tokens, d)
	codes := otp.NewMemoryStore()
	require.NoError(t, codes.Issue(context.Background(), "ana@example.com", "123456"))
	reset := NewResetPassword(repo, codes, d)

	var err error
	for i := 0; i < otp.MaxAttempts; i++ {
		err = reset.Execute(context.Background(), ResetPasswordInput{Email: "ana@example.com", OTP: "000000", NewPassword: "newpass"})
	}
	assert.True(t, httperr.IsBusiness(err, "otp_attempts_exceeded"))
}

type fakeStorage struct {
	data []byte
	err  error
}

func (f *fakeStorage) Put(_ context.Context, userID uint, data []byte) (string, error) {
	f.data = data
	return "https://cdn.test/avatars/1/a.webp", f.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 512, 300))))
	return buf.Bytes()
}

func TestUploadAvatar(t *testing.T) {
	repo, tokens, d := setup(t)
	u := register(t, repo, tokens, d)
	store := &fakeStorage{}

	got, err := NewUploadAvatar(repo, store).Execute(context.Background(), u.ID, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/avatars/1/a.webp", got.AvatarURL)
	assert.NotEmpty(t, store.data)

	_, err = NewUploadAvatar(repo, store).Execute(context.Background(), u.ID, strings.NewReader("not an image"))
	assert.True(t, httperr.IsBusiness(err, "unsupported_image"))

	_, err = NewUploadAvatar(repo, nil).Execute(context.Background(), u.ID, strings.NewReader(""))
	assert.True(t, httperr.IsBusiness(err, "avatar_storage_disabled"))

	store.err = errors.New("s3 down")
	_, err = NewUploadAvatar(repo, store).Execute(context.Background(), u.ID, bytes.NewReader(pngBytes(t)))
	assert.EqualError(t, err, "s3 down")
}
