package leadcache

import (
	"context"
	"log"
	"sync"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

// Fetcher issues the authenticated list request and returns the raw body.
type Fetcher interface {
	ListBookings(ctx context.Context, token string) ([]byte, error)
}

type TokenSource interface {
	Token() string
}

// Cache holds the lead list shown by the dashboard. It never reports
// errors to its callers: any failure leaves an empty list.
type Cache struct {
	api    Fetcher
	tokens TokenSource

	mu      sync.RWMutex
	leads   []crm.Lead
	loading bool
	issued  uint64
	applied uint64
}

func New(api Fetcher, tokens TokenSource) *Cache {
	return &Cache{
		api:     api,
		tokens:  tokens,
		loading: true,
	}
}

// Load replaces the list with a fresh snapshot from the backend.
// Overlapping loads are resolved by issue order: a response is dropped
// when a later-issued load has already been applied.
func (c *Cache) Load(ctx context.Context) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.loading = true
	c.mu.Unlock()

	token := c.tokens.Token()
	if token == "" {
		log.Println("leadcache: no auth token, showing empty list")
		c.apply(seq, []crm.Lead{})
		return
	}

	raw, err := c.api.ListBookings(ctx, token)
	if ctx.Err() != nil {
		c.discard(seq)
		return
	}
	if err != nil {
		log.Printf("leadcache: failed to fetch leads: %v", err)
		c.apply(seq, []crm.Lead{})
		return
	}

	leads, err := Normalize(raw)
	if err != nil {
		log.Printf("leadcache: invalid leads response: %v", err)
		c.apply(seq, []crm.Lead{})
		return
	}

	c.apply(seq, leads)
}

// Refetch is Load under the name consumers use after a mutation.
func (c *Cache) Refetch(ctx context.Context) {
	c.Load(ctx)
}

func (c *Cache) apply(seq uint64, leads []crm.Lead) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq == c.issued {
		c.loading = false
	}
	if seq < c.applied {
		log.Printf("leadcache: dropping stale response #%d (have #%d)", seq, c.applied)
		return
	}
	c.applied = seq
	c.leads = leads
}

func (c *Cache) discard(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq == c.issued {
		c.loading = false
	}
}

// Patch merges one record by id: replaced in place when present,
// prepended otherwise.
func (c *Cache) Patch(lead crm.Lead) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.leads {
		if c.leads[i].ID == lead.ID {
			c.leads[i] = lead
			return
		}
	}
	c.leads = append([]crm.Lead{lead}, c.leads...)
}

// RemoveLocal drops a record from memory only; the next load brings it
// back unless the backend deleted it too.
func (c *Cache) RemoveLocal(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.leads[:0:0]
	for _, l := range c.leads {
		if l.ID != id {
			out = append(out, l)
		}
	}
	c.leads = out
}

func (c *Cache) Leads() []crm.Lead {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]crm.Lead, len(c.leads))
	copy(out, c.leads)
	return out
}

func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Find returns the cached record with the given id.
func (c *Cache) Find(id string) (crm.Lead, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, l := range c.leads {
		if l.ID == id {
			return l, true
		}
	}
	return crm.Lead{}, false
}
