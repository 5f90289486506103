package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

type fakeCookies struct {
	token   string
	expires time.Time
	cleared int
}

func (f *fakeCookies) SetAuth(token string, expires time.Time) {
	f.token, f.expires = token, expires
}

func (f *fakeCookies) ClearAuth() {
	f.token, f.expires = "", time.Time{}
	f.cleared++
}

func (f *fakeCookies) AuthToken() string { return f.token }

type routeLog []string

func (r *routeLog) Navigate(path string) { *r = append(*r, path) }

func newHolder(store Store) (*Holder, *fakeCookies, *routeLog) {
	cookies := &fakeCookies{}
	routes := &routeLog{}
	h := New(store, cookies, routes)
	h.now = func() time.Time { return time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC) }
	return h, cookies, routes
}

func TestInitRestoresStoredUser(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(KeyUser, `{"id":3,"name":"Ana","email":"ana@example.com"}`))

	h, _, _ := newHolder(store)
	h.Init()

	u := h.User()
	require.NotNil(t, u)
	assert.Equal(t, crm.ID("3"), u.ID)
	assert.Equal(t, "Ana", u.Name)
}

func TestInitDiscardsUnreadableUser(t *testing.T) {
	for name, raw := range map[string]string{
		"undefined": "undefined",
		"malformed": "{not json",
		"null":      "null",
	} {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.Set(KeyUser, raw))

			h, _, _ := newHolder(store)
			h.Init()

			assert.Nil(t, h.User())
			_, ok := store.Get(KeyUser)
			assert.False(t, ok)
		})
	}
}

func TestInitWithoutUserIsSignedOut(t *testing.T) {
	h, cookies, _ := newHolder(NewMemoryStore())
	h.Init()

	assert.Nil(t, h.User())
	assert.Empty(t, cookies.token)
}

func TestPersistWritesTokenUserAndCookie(t *testing.T) {
	store := NewMemoryStore()
	h, cookies, _ := newHolder(store)

	require.NoError(t, h.Persist("jwt-1", crm.User{ID: "9", Name: "Ana"}))

	assert.Equal(t, "jwt-1", h.Token())
	assert.Equal(t, "jwt-1", cookies.token)
	assert.Equal(t, time.Date(2025, 10, 11, 12, 0, 0, 0, time.UTC), cookies.expires)
	assert.Equal(t, "Ana", h.User().Name)

	raw, ok := store.Get(KeyUser)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"9","name":"Ana","phone":""}`, raw)
}

func TestInitRehydratesUnexpiredCookie(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(KeyToken, "jwt-1"))
	require.NoError(t, store.Set(KeyTokenExpires, "2025-10-11T08:00:00Z"))

	h, cookies, _ := newHolder(store)
	h.Init()
	assert.Equal(t, "jwt-1", cookies.token)

	require.NoError(t, store.Set(KeyTokenExpires, "2025-10-09T08:00:00Z"))
	cookies.token = ""
	h.Init()
	assert.Empty(t, cookies.token)
}

func TestSetUserIsMemoryOnly(t *testing.T) {
	store := NewMemoryStore()
	h, _, _ := newHolder(store)

	h.SetUser(&crm.User{Name: "Temp"})
	assert.Equal(t, "Temp", h.User().Name)

	_, ok := store.Get(KeyUser)
	assert.False(t, ok)
}

func TestUserReturnsCopy(t *testing.T) {
	h, _, _ := newHolder(NewMemoryStore())
	h.SetUser(&crm.User{Name: "Ana"})

	u := h.User()
	u.Name = "changed"
	assert.Equal(t, "Ana", h.User().Name)
}

func TestLogoutClearsEverythingAndNavigates(t *testing.T) {
	store := NewMemoryStore()
	h, cookies, routes := newHolder(store)
	require.NoError(t, h.Persist("jwt-1", crm.User{Name: "Ana"}))

	h.Logout()

	assert.Nil(t, h.User())
	assert.Empty(t, h.Token())
	_, ok := store.Get(KeyUser)
	assert.False(t, ok)
	assert.Equal(t, 1, cookies.cleared)
	assert.Equal(t, []string{"/login"}, []string(*routes))
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")

	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set("Auth", "jwt-1"))
	require.NoError(t, fs.Set("user", `{"name":"Ana"}`))
	require.NoError(t, fs.Remove("user"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok := reopened.Get("Auth")
	assert.True(t, ok)
	assert.Equal(t, "jwt-1", v)
	_, ok = reopened.Get("user")
	assert.False(t, ok)
}

func TestOpenFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := OpenFileStore(path)
	assert.Error(t, err)
}

func TestJarCookies(t *testing.T) {
	jc, err := NewJarCookies("http://127.0.0.1:5000/dashboard")
	require.NoError(t, err)

	jc.SetAuth("jwt-1", time.Now().Add(time.Hour))
	assert.Equal(t, "jwt-1", jc.AuthToken())

	jc.ClearAuth()
	assert.Empty(t, jc.AuthToken())

	_, err = NewJarCookies("/relative")
	assert.Error(t, err)
}
