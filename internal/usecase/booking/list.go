package booking

import (
	"context"

	domain "github.com/BruksfildServices01/lead-crm/internal/domain/booking"
	"github.com/BruksfildServices01/lead-crm/internal/models"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Execute returns the user's bookings newest first.
func (uc *ListBookings) Execute(ctx context.Context, userID uint) ([]models.Booking, error) {
	list, err := uc.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Booking{}
	}
	return list, nil
}

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(ctx context.Context, userID uint, id string) (*models.Booking, error) {
	b, err := uc.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

type ListAgents struct {
	repo domain.Repository
}

func NewListAgents(repo domain.Repository) *ListAgents {
	return &ListAgents{repo: repo}
}

func (uc *ListAgents) Execute(ctx context.Context) ([]models.Agent, error) {
	return uc.repo.ListAgents(ctx)
}
