package crm

import (
	"strings"
	"time"
)

type Source string

const (
	SourceWhatsApp Source = "WhatsApp"
	SourceWebsite  Source = "Website"
	SourceFacebook Source = "Facebook"
	SourceManual   Source = "Manual"
)

var Sources = []Source{SourceWhatsApp, SourceWebsite, SourceFacebook, SourceManual}

// ParseSource matches case-insensitively. "Other" from the public capture
// form is folded into Manual.
func ParseSource(s string) (Source, bool) {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, "other") {
		return SourceManual, true
	}
	for _, src := range Sources {
		if strings.EqualFold(v, string(src)) {
			return src, true
		}
	}
	return "", false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func ParsePriority(s string) (Priority, bool) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

type Agent struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// Lead is the single client-side shape of a booking/lead record.
type Lead struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Problem       string    `json:"problem"`
	LastMessage   string    `json:"lastMessage,omitempty"`
	Source        Source    `json:"source,omitempty"`
	Status        Status    `json:"status"`
	Priority      Priority  `json:"priority,omitempty"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	CreatedAt     time.Time `json:"created_at"`
	AssignedAgent *Agent    `json:"assignedAgent,omitempty"`
}

// Text is what free-text search looks at. Some payloads only carry
// lastMessage instead of problem.
func (l Lead) Text() string {
	if l.Problem != "" {
		return l.Problem
	}
	return l.LastMessage
}

func (l Lead) AgentName() string {
	if l.AssignedAgent == nil || l.AssignedAgent.Name == "" {
		return UnassignedAgent
	}
	return l.AssignedAgent.Name
}

const UnassignedAgent = "Unassigned"

type User struct {
	ID        ID     `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
	Location  string `json:"location,omitempty"`
	City      string `json:"city,omitempty"`
	Address   string `json:"address,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Language  string `json:"language,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Message is one entry of a lead conversation.
type Message struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
