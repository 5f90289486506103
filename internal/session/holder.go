package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

const (
	KeyUser         = "user"
	KeyToken        = "Auth"
	KeyTokenExpires = "Auth.expires"

	CookieTTL  = 24 * time.Hour
	LoginRoute = "/login"
)

// Navigator moves the UI to another route.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Holder owns the signed-in user for the lifetime of the process.
type Holder struct {
	store   Store
	cookies Cookies
	nav     Navigator
	now     func() time.Time

	mu   sync.RWMutex
	user *crm.User
}

func New(store Store, cookies Cookies, nav Navigator) *Holder {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Holder{store: store, cookies: cookies, nav: nav, now: time.Now}
}

// Init restores the user from the store. An unreadable entry is removed
// and the session starts signed out.
func (h *Holder) Init() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.user = nil

	raw, ok := h.store.Get(KeyUser)
	if ok {
		var u *crm.User
		if raw == "undefined" || json.Unmarshal([]byte(raw), &u) != nil || u == nil {
			log.Printf("session: discarding unreadable stored user")
			if err := h.store.Remove(KeyUser); err != nil {
				log.Printf("session: failed to remove stored user: %v", err)
			}
		} else {
			h.user = u
		}
	}

	h.rehydrateCookie()
}

func (h *Holder) rehydrateCookie() {
	token, ok := h.store.Get(KeyToken)
	if !ok || token == "" {
		return
	}
	rawExp, ok := h.store.Get(KeyTokenExpires)
	if !ok {
		return
	}
	exp, err := time.Parse(time.RFC3339, rawExp)
	if err != nil || !exp.After(h.now()) {
		return
	}
	h.cookies.SetAuth(token, exp)
}

func (h *Holder) User() *crm.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	u := *h.user
	return &u
}

// SetUser replaces the in-memory user only.
func (h *Holder) SetUser(u *crm.User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if u == nil {
		h.user = nil
		return
	}
	cp := *u
	h.user = &cp
}

// SaveUser replaces the user in memory and in the store.
func (h *Holder) SaveUser(u crm.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := h.store.Set(KeyUser, string(raw)); err != nil {
		return err
	}
	h.SetUser(&u)
	return nil
}

func (h *Holder) Token() string {
	token, _ := h.store.Get(KeyToken)
	return token
}

// Persist records a fresh login: token and user in the store, and the
// auth cookie valid for one day.
func (h *Holder) Persist(token string, u crm.User) error {
	exp := h.now().Add(CookieTTL).UTC()

	if err := h.store.Set(KeyToken, token); err != nil {
		return err
	}
	if err := h.store.Set(KeyTokenExpires, exp.Format(time.RFC3339)); err != nil {
		return err
	}
	h.cookies.SetAuth(token, exp)
	return h.SaveUser(u)
}

// Logout is local only: the backend keeps no session to revoke.
func (h *Holder) Logout() {
	for _, key := range []string{KeyUser, KeyToken, KeyTokenExpires} {
		if err := h.store.Remove(key); err != nil {
			log.Printf("session: failed to remove %q: %v", key, err)
		}
	}
	h.cookies.ClearAuth()
	h.SetUser(nil)
	h.nav.Navigate(LoginRoute)
}

func (h *Holder) Navigate(path string) {
	h.nav.Navigate(path)
}
