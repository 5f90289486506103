package otp

import (
	"context"
	"sync"
	"time"
)

type pending struct {
	code     string
	attempts int
	expires  time.Time
	issued   time.Time
}

// MemoryStore is the single-process Store used when redis is not
// configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*pending
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*pending), now: time.Now}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Issue(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if p, ok := s.entries[email]; ok && now.Sub(p.issued) < Cooldown {
		return ErrCooldown
	}
	s.entries[email] = &pending{code: code, issued: now, expires: now.Add(CodeTTL)}
	return nil
}

func (s *MemoryStore) Revoke(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, email)
	return nil
}

func (s *MemoryStore) Verify(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.entries[email]
	if !ok || s.now().After(p.expires) || p.code == "" {
		return ErrInvalid
	}
	if p.attempts >= MaxAttempts {
		p.code = ""
		return ErrAttemptsExceeded
	}

	if !sameCode(code, p.code) {
		p.attempts++
		if p.attempts >= MaxAttempts {
			p.code = ""
			return ErrAttemptsExceeded
		}
		return ErrInvalid
	}

	// keep the entry so the resend cooldown still applies
	p.code = ""
	return nil
}
