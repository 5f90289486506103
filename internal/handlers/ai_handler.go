package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lead-crm/internal/crm"
	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/httpresp"
	"github.com/BruksfildServices01/lead-crm/internal/llm"
	"github.com/BruksfildServices01/lead-crm/internal/middleware"
)

// Flows is implemented by *llm.Flows.
type Flows interface {
	AutoReply(ctx context.Context, in llm.LeadMessage) (string, error)
	Summarize(ctx context.Context, conversation string) (string, error)
}

type AIHandler struct {
	flows Flows
}

// NewAIHandler accepts a nil flows when no model is configured; both
// endpoints then answer 503.
func NewAIHandler(flows Flows) *AIHandler {
	return &AIHandler{flows: flows}
}

type LeadResponseRequest struct {
	Name    string `json:"name"`
	Message string `json:"message" binding:"required"`
	Source  string `json:"source"`
}

// SummarizeRequest takes either a plain transcript or the message list.
type SummarizeRequest struct {
	Conversation string        `json:"conversation"`
	Messages     []crm.Message `json:"messages"`
}

func (r SummarizeRequest) transcript() string {
	if strings.TrimSpace(r.Conversation) != "" {
		return r.Conversation
	}
	var b strings.Builder
	for _, m := range r.Messages {
		fmt.Fprintf(&b, "%s: %s\n", m.Sender, m.Content)
	}
	return b.String()
}

func (h *AIHandler) LeadResponse(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	var req LeadResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	reply, err := h.flows.AutoReply(c.Request.Context(), llm.LeadMessage{
		Name:    req.Name,
		Message: req.Message,
		Source:  req.Source,
	})
	if err != nil {
		h.failed(c, err)
		return
	}

	httpresp.OK(c, gin.H{"response": reply})
}

func (h *AIHandler) Summarize(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	transcript := req.transcript()
	if strings.TrimSpace(transcript) == "" {
		httperr.BadRequest(c, "missing_conversation", "Conversation is required.")
		return
	}

	summary, err := h.flows.Summarize(c.Request.Context(), transcript)
	if err != nil {
		h.failed(c, err)
		return
	}

	httpresp.OK(c, gin.H{"summary": summary})
}

func (h *AIHandler) enabled(c *gin.Context) bool {
	if h.flows == nil {
		httperr.Unavailable(c, "ai_disabled", "AI features are not configured.")
		return false
	}
	return true
}

func (h *AIHandler) failed(c *gin.Context, err error) {
	log.Printf("ai: %v", err)
	middleware.RecordIntegrationError("llm")
	httperr.Write(c, http.StatusBadGateway, "ai_failed", "The AI service did not answer. Please try again.")
}
