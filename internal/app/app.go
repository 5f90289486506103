package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/actions"
	"github.com/BruksfildServices01/lead-crm/internal/crmapi"
	"github.com/BruksfildServices01/lead-crm/internal/leadcache"
	"github.com/BruksfildServices01/lead-crm/internal/session"
)

const SessionFile = "session.json"

type Config struct {
	BaseURL     string
	StateDir    string // empty keeps the session in memory
	HTTPTimeout time.Duration
	Policy      actions.Policy

	Notifier  actions.Notifier
	Navigator session.Navigator
}

// State wires the client side together and owns the lifetime of every
// load it starts.
type State struct {
	API     *crmapi.Client
	Session *session.Holder
	Cookies *session.JarCookies
	Cache   *leadcache.Cache
	Actions *actions.Actions

	life   context.Context
	cancel context.CancelFunc
}

func New(cfg Config) (*State, error) {
	if cfg.BaseURL == "" {
		return nil, crmapi.ErrBaseURLMissing
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	cookies, err := session.NewJarCookies(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	api, err := crmapi.New(cfg.BaseURL, &http.Client{
		Timeout: cfg.HTTPTimeout,
		Jar:     cookies.Jar(),
	})
	if err != nil {
		return nil, err
	}

	var store session.Store = session.NewMemoryStore()
	if cfg.StateDir != "" {
		fs, err := session.OpenFileStore(filepath.Join(cfg.StateDir, SessionFile))
		if err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
		store = fs
	}

	holder := session.New(store, cookies, cfg.Navigator)
	cache := leadcache.New(api, holder)
	acts := actions.New(api, cache, holder, cfg.Notifier)
	acts.Policy = cfg.Policy

	life, cancel := context.WithCancel(context.Background())

	return &State{
		API:     api,
		Session: holder,
		Cookies: cookies,
		Cache:   cache,
		Actions: acts,
		life:    life,
		cancel:  cancel,
	}, nil
}

// Init restores the session and, when signed in, performs the first load.
func (s *State) Init(ctx context.Context) {
	s.Session.Init()
	if s.Session.Token() == "" {
		s.Cache.Load(ctx)
		return
	}
	s.Refresh(ctx)
}

// Refresh reloads the lead list. The load is abandoned on Teardown.
func (s *State) Refresh(ctx context.Context) {
	ctx, cancel := s.scope(ctx)
	defer cancel()
	s.Cache.Refetch(ctx)
}

// Context returns a context cancelled by either ctx or Teardown.
func (s *State) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return s.scope(ctx)
}

func (s *State) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Teardown cancels in-flight loads; their responses are discarded.
func (s *State) Teardown() {
	s.cancel()
}
