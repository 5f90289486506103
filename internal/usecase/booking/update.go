package booking

import (
	"context"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	domain "github.com/BruksfildServices01/lead-crm/internal/domain/booking"
	"github.com/BruksfildServices01/lead-crm/internal/models"
)

// ======================================================
// STATUS
// ======================================================

type UpdateBookingStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	userID uint,
	id string,
	status string,
) (*models.Booking, error) {

	b, err := uc.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}

	from := b.Status
	if err := domain.ChangeStatus(b, status); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_status_changed",
		Entity:   "booking",
		EntityID: b.ID,
		Metadata: map[string]string{"from": from, "to": b.Status},
	})

	return b, nil
}

// ======================================================
// DETAILS
// ======================================================

type UpdateBookingDetails struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateBookingDetails(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateBookingDetails {
	return &UpdateBookingDetails{
		repo:  repo,
		audit: audit,
	}
}

// Execute replaces every editable field of the booking.
func (uc *UpdateBookingDetails) Execute(
	ctx context.Context,
	userID uint,
	id string,
	fields domain.Fields,
) (*models.Booking, error) {

	f, err := domain.Validate(fields)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}

	agent, err := checkAgent(ctx, uc.repo, f.AgentID)
	if err != nil {
		return nil, err
	}

	domain.Apply(b, f)
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	b.Agent = agent

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_updated",
		Entity:   "booking",
		EntityID: b.ID,
	})

	return b, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteBooking {
	return &DeleteBooking{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteBooking) Execute(ctx context.Context, userID uint, id string) error {
	if err := uc.repo.Delete(ctx, id, userID); err != nil {
		return notFound(err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_deleted",
		Entity:   "booking",
		EntityID: id,
	})
	return nil
}
