package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Completer is the single model call a flow makes.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

type LeadMessage struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

type Flows struct {
	model Completer
}

func NewFlows(model Completer) *Flows {
	return &Flows{model: model}
}

const autoReplySystem = `You are a customer support agent for a home services company.
Write a short, friendly first reply to a new lead. Acknowledge their problem,
say a team member will follow up to schedule a visit, and keep it under 80 words.
Answer with a JSON object: {"response": "<reply>"}.`

const summarizeSystem = `You summarize conversations between a lead and a support agent.
Return the customer's problem, what was agreed and any next step in at most three sentences.
Answer with a JSON object: {"summary": "<summary>"}.`

// AutoReply drafts the first answer to an incoming lead message.
func (f *Flows) AutoReply(ctx context.Context, in LeadMessage) (string, error) {
	user := fmt.Sprintf("Lead name: %s\nChannel: %s\nMessage: %s", in.Name, in.Source, in.Message)

	raw, err := f.model.CompleteJSON(ctx, autoReplySystem, user)
	if err != nil {
		return "", err
	}
	return field(raw, "response"), nil
}

// Summarize condenses a conversation transcript.
func (f *Flows) Summarize(ctx context.Context, conversation string) (string, error) {
	raw, err := f.model.CompleteJSON(ctx, summarizeSystem, conversation)
	if err != nil {
		return "", err
	}
	return field(raw, "summary"), nil
}

// field extracts key from a JSON object answer. Models sometimes ignore
// the format; the trimmed raw text is used then.
func field(raw, key string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		if v, ok := obj[key].(string); ok {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(raw)
}
