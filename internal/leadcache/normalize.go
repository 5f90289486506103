package leadcache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
)

var ErrUnknownShape = errors.New("leadcache: unrecognised leads payload")

// envelopeKeys are the wrappers the backend has used for the lead list.
var envelopeKeys = []string{"bookings", "leads", "data"}

type wireAgent struct {
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	AvatarURL string          `json:"avatarUrl"`
}

type wireLead struct {
	ID            json.RawMessage `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Problem       string          `json:"problem"`
	LastMessage   string          `json:"lastMessage"`
	Source        string          `json:"source"`
	Status        string          `json:"status"`
	Priority      string          `json:"priority"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	CreatedAt     string          `json:"created_at"`
	CreatedAtAlt  string          `json:"createdAt"`
	AssignedAgent *wireAgent      `json:"assignedAgent"`
	Agent         *wireAgent      `json:"agent"`
}

// Normalize accepts {bookings:[...]}, {leads:[...]}, {data:[...]} or a bare
// array and returns leads with string ids. Records that cannot be decoded
// are skipped; the payload is rejected only when none of them decode.
func Normalize(raw []byte) ([]crm.Lead, error) {
	items, err := listItems(raw)
	if err != nil {
		return nil, err
	}

	out := make([]crm.Lead, 0, len(items))
	var firstErr error
	for i, item := range items {
		lead, err := DecodeLead(item)
		if err != nil {
			err = fmt.Errorf("leadcache: record %d: %w", i, err)
			log.Printf("%v, skipped", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, lead)
	}
	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func listItems(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrUnknownShape
	}

	var items []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownShape, err)
		}
		return items, nil

	case '{':
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownShape, err)
		}
		for _, key := range envelopeKeys {
			v, ok := env[key]
			if !ok {
				continue
			}
			v = bytes.TrimSpace(v)
			if bytes.Equal(v, []byte("null")) {
				return []json.RawMessage{}, nil
			}
			if len(v) == 0 || v[0] != '[' {
				continue
			}
			if err := json.Unmarshal(v, &items); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnknownShape, err)
			}
			return items, nil
		}
	}

	return nil, ErrUnknownShape
}

// DecodeLead decodes a single record and coerces its id.
func DecodeLead(raw json.RawMessage) (crm.Lead, error) {
	var w wireLead
	if err := json.Unmarshal(raw, &w); err != nil {
		return crm.Lead{}, err
	}

	id, err := crm.CoerceID(w.ID)
	if err != nil {
		return crm.Lead{}, err
	}

	lead := crm.Lead{
		ID:          id,
		Name:        w.Name,
		Phone:       w.Phone,
		Problem:     w.Problem,
		LastMessage: w.LastMessage,
		Source:      crm.Source(w.Source),
		Status:      crm.Status(w.Status),
		Priority:    crm.Priority(w.Priority),
		Date:        w.Date,
		Time:        w.Time,
	}

	if src, ok := crm.ParseSource(w.Source); ok {
		lead.Source = src
	}

	created := w.CreatedAt
	if created == "" {
		created = w.CreatedAtAlt
	}
	lead.CreatedAt = parseTimestamp(created)

	agent := w.AssignedAgent
	if agent == nil {
		agent = w.Agent
	}
	if agent != nil {
		a := crm.Agent{Name: agent.Name, AvatarURL: agent.AvatarURL}
		if agentID, err := crm.CoerceID(agent.ID); err == nil {
			a.ID = crm.ID(agentID)
		}
		lead.AssignedAgent = &a
	}

	return lead, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp returns the zero time when nothing matches; created_at is
// only used as a fallback for date bucketing.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
