package actions

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
	"github.com/BruksfildServices01/lead-crm/internal/crmapi"
	"github.com/BruksfildServices01/lead-crm/internal/leadcache"
)

type API interface {
	Register(ctx context.Context, in crmapi.RegisterRequest) (*crmapi.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*crmapi.AuthResponse, error)
	Profile(ctx context.Context, token string) (*crm.User, error)
	UpdateProfile(ctx context.Context, token string, in crmapi.ProfileUpdate) (*crm.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	VerifyResetPassword(ctx context.Context, in crmapi.ResetPasswordRequest) (string, error)
	CreateBooking(ctx context.Context, token string, in crmapi.BookingInput) (json.RawMessage, error)
	UpdateBookingStatus(ctx context.Context, token, id, status string) (json.RawMessage, error)
	UpdateBookingDetails(ctx context.Context, token, id string, in crmapi.BookingInput) (json.RawMessage, error)
	DeleteBooking(ctx context.Context, token, id string) error
}

type Cache interface {
	Refetch(ctx context.Context)
	Patch(lead crm.Lead)
	RemoveLocal(id string)
}

type Session interface {
	Token() string
	Persist(token string, u crm.User) error
	SetUser(u *crm.User)
	SaveUser(u crm.User) error
	Navigate(path string)
}

// Policy decides how the cache catches up after a successful write.
type Policy int

const (
	// PolicyRefetch reloads the whole list once.
	PolicyRefetch Policy = iota
	// PolicyPatch merges the record returned by the write, falling back
	// to a refetch when the answer carries none.
	PolicyPatch
)

const (
	DashboardRoute = "/dashboard/overview"
	LoginRoute     = "/login"

	ResendCooldown = 60 * time.Second
)

var ErrCooldown = errors.New("actions: wait before requesting another code")

type Actions struct {
	api     API
	cache   Cache
	session Session
	notify  Notifier

	Policy Policy
	now    func() time.Time

	mu          sync.Mutex
	resendAfter time.Time
}

func New(api API, cache Cache, session Session, notify Notifier) *Actions {
	if notify == nil {
		notify = NotifierFunc(func(Notification) {})
	}
	return &Actions{
		api:     api,
		cache:   cache,
		session: session,
		notify:  notify,
		now:     time.Now,
	}
}

// ======================================================
// LEADS
// ======================================================

func (a *Actions) CreateLead(ctx context.Context, form LeadForm) error {
	const title = "Failed to create lead"

	in, err := form.Validate()
	if err != nil {
		return a.rejected(title, err)
	}

	rec, err := a.api.CreateBooking(ctx, a.session.Token(), in)
	if err != nil {
		return a.failed(title, err)
	}

	a.settle(ctx, rec)
	a.notify.Notify(Notification{
		Title:       "Lead created",
		Description: in.Name + " was added to your leads.",
	})
	return nil
}

func (a *Actions) UpdateStatus(ctx context.Context, id, status string) error {
	const title = "Failed to update status"

	if id == "" {
		return a.rejected(title, invalid("id", "Lead id is required"))
	}
	st, ok := crm.ParseStatus(status)
	if !ok {
		return a.rejected(title, invalid("status", "Unknown status: "+status))
	}

	rec, err := a.api.UpdateBookingStatus(ctx, a.session.Token(), id, string(st))
	if err != nil {
		return a.failed(title, err)
	}

	a.settle(ctx, rec)
	a.notify.Notify(Notification{
		Title:       "Status updated",
		Description: "Lead moved to " + string(st) + ".",
	})
	return nil
}

func (a *Actions) UpdateDetails(ctx context.Context, id string, form LeadForm) error {
	const title = "Failed to update lead"

	if id == "" {
		return a.rejected(title, invalid("id", "Lead id is required"))
	}
	in, err := form.Validate()
	if err != nil {
		return a.rejected(title, err)
	}

	rec, err := a.api.UpdateBookingDetails(ctx, a.session.Token(), id, in)
	if err != nil {
		return a.failed(title, err)
	}

	a.settle(ctx, rec)
	a.notify.Notify(Notification{Title: "Lead updated"})
	return nil
}

func (a *Actions) DeleteLead(ctx context.Context, id string) error {
	const title = "Failed to delete lead"

	if id == "" {
		return a.rejected(title, invalid("id", "Lead id is required"))
	}
	if err := a.api.DeleteBooking(ctx, a.session.Token(), id); err != nil {
		return a.failed(title, err)
	}

	if a.Policy == PolicyPatch {
		a.cache.RemoveLocal(id)
	} else {
		a.cache.Refetch(ctx)
	}
	a.notify.Notify(Notification{Title: "Lead deleted"})
	return nil
}

// settle brings the cache in line with a successful write.
func (a *Actions) settle(ctx context.Context, rec json.RawMessage) {
	if a.Policy == PolicyPatch && rec != nil {
		lead, err := leadcache.DecodeLead(rec)
		if err == nil {
			a.cache.Patch(lead)
			return
		}
		log.Printf("actions: unusable record in write response, refetching: %v", err)
	}
	a.cache.Refetch(ctx)
}

// ======================================================
// PROFILE
// ======================================================

func (a *Actions) UpdateProfile(ctx context.Context, form ProfileForm) error {
	const title = "Failed to update profile"

	in, err := form.Validate()
	if err != nil {
		return a.rejected(title, err)
	}

	u, err := a.api.UpdateProfile(ctx, a.session.Token(), in)
	if err != nil {
		return a.failed(title, err)
	}
	if err := a.session.SaveUser(*u); err != nil {
		log.Printf("actions: failed to store updated profile: %v", err)
	}

	a.cache.Refetch(ctx)
	a.notify.Notify(Notification{
		Title:       "Profile updated",
		Description: "Your profile has been updated successfully.",
	})
	return nil
}

// ======================================================
// AUTH
// ======================================================

func (a *Actions) Login(ctx context.Context, email, password string) error {
	const title = "Login failed"

	if email == "" || password == "" {
		return a.rejected(title, invalid("email", "Email and password are required"))
	}

	res, err := a.api.Login(ctx, normalizeEmail(email), password)
	if err != nil {
		return a.failed(title, err)
	}
	if err := a.signIn(ctx, res); err != nil {
		return a.failed(title, err)
	}

	a.notify.Notify(Notification{Title: "Welcome back", Description: "Logged in successfully."})
	return nil
}

func (a *Actions) Register(ctx context.Context, form RegisterForm) error {
	const title = "Registration failed"

	in, err := form.Validate()
	if err != nil {
		return a.rejected(title, err)
	}

	res, err := a.api.Register(ctx, in)
	if err != nil {
		return a.failed(title, err)
	}
	if err := a.signIn(ctx, res); err != nil {
		return a.failed(title, err)
	}

	a.notify.Notify(Notification{Title: "Account created", Description: "Welcome, " + res.User.Name + "."})
	return nil
}

// signIn persists the session, swaps in the full profile when the
// backend serves one, loads the leads and moves to the dashboard.
func (a *Actions) signIn(ctx context.Context, res *crmapi.AuthResponse) error {
	if res.Token == "" {
		return errors.New("no token received")
	}
	if err := a.session.Persist(res.Token, res.User); err != nil {
		return err
	}

	profile, err := a.api.Profile(ctx, res.Token)
	if err != nil {
		log.Printf("actions: profile fetch after login failed: %v", err)
	} else {
		a.session.SetUser(profile)
	}

	a.cache.Refetch(ctx)
	a.session.Navigate(DashboardRoute)
	return nil
}

// ForgotPassword asks the backend to mail a reset code. A new request is
// refused locally until the resend countdown runs out.
func (a *Actions) ForgotPassword(ctx context.Context, email string) error {
	const title = "Failed to send code"

	email = normalizeEmail(email)
	if email == "" {
		return a.rejected(title, invalid("email", "Email is required"))
	}

	if wait := a.ResendIn(); wait > 0 {
		a.notify.Notify(Notification{
			Title:       title,
			Description: "Please wait " + wait.Round(time.Second).String() + " before requesting a new code.",
			Variant:     VariantDestructive,
		})
		return ErrCooldown
	}

	msg, err := a.api.ForgotPassword(ctx, email)
	if err != nil {
		return a.failed(title, err)
	}

	a.mu.Lock()
	a.resendAfter = a.now().Add(ResendCooldown)
	a.mu.Unlock()

	if msg == "" {
		msg = "Check your email for the verification code."
	}
	a.notify.Notify(Notification{Title: "Code sent", Description: msg})
	return nil
}

// ResendIn is what is left of the resend countdown.
func (a *Actions) ResendIn() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	left := a.resendAfter.Sub(a.now())
	if left < 0 {
		return 0
	}
	return left
}

func (a *Actions) ResetPassword(ctx context.Context, form ResetForm) error {
	const title = "Failed to reset password"

	in, err := form.Validate()
	if err != nil {
		return a.rejected(title, err)
	}

	msg, err := a.api.VerifyResetPassword(ctx, in)
	if err != nil {
		return a.failed(title, err)
	}

	if msg == "" {
		msg = "You can now log in with your new password."
	}
	a.notify.Notify(Notification{Title: "Password reset", Description: msg})
	a.session.Navigate(LoginRoute)
	return nil
}

// ======================================================
// FAILURES
// ======================================================

func (a *Actions) rejected(title string, err error) error {
	a.notify.Notify(Notification{Title: title, Description: err.Error(), Variant: VariantDestructive})
	return err
}

func (a *Actions) failed(title string, err error) error {
	a.notify.Notify(Notification{Title: title, Description: describe(err), Variant: VariantDestructive})
	return err
}
