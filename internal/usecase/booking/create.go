package booking

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	domain "github.com/BruksfildServices01/lead-crm/internal/domain/booking"
	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/models"
	"github.com/BruksfildServices01/lead-crm/internal/queue"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID uint
	Fields domain.Fields
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	publisher queue.Publisher
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	publisher queue.Publisher,
) *CreateBooking {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &CreateBooking{
		repo:      repo,
		audit:     audit,
		publisher: publisher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1️⃣ Validation
	// --------------------------------------------------
	f, err := domain.Validate(in.Fields)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Agent
	// --------------------------------------------------
	agent, err := checkAgent(ctx, uc.repo, f.AgentID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Persist
	// --------------------------------------------------
	b := &models.Booking{
		ID:     uuid.NewString(),
		UserID: in.UserID,
	}
	domain.Apply(b, f)

	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Agent = agent

	// --------------------------------------------------
	// 4️⃣ Audit + event
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: b.ID,
	})

	if err := uc.publisher.PublishLeadCreated(ctx, queue.LeadCreated{
		BookingID: b.ID,
		UserID:    b.UserID,
		Name:      b.Name,
		Phone:     b.Phone,
		Problem:   b.Problem,
		Source:    b.Source,
		Status:    b.Status,
		Date:      b.Date,
		Time:      b.Time,
		CreatedAt: b.CreatedAt,
	}); err != nil {
		log.Printf("booking %s: publish lead.created: %v", b.ID, err)
	}

	return b, nil
}

// checkAgent resolves an optional agent id; an unknown id is a client error.
func checkAgent(ctx context.Context, repo domain.Repository, id string) (*models.Agent, error) {
	if id == "" {
		return nil, nil
	}
	agent, err := repo.GetAgent(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("agent_not_found")
	}
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// notFound maps a missing record to its business code.
func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness("booking_not_found")
	}
	return err
}
