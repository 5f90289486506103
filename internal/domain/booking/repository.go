package booking

import (
	"context"

	"github.com/BruksfildServices01/lead-crm/internal/models"
)

// Repository stores bookings. Every read and write is scoped to the
// owning user; a booking of another user is reported as ErrNotFound.
type Repository interface {
	// -------- Booking --------
	Create(ctx context.Context, b *models.Booking) error

	ListForUser(ctx context.Context, userID uint) ([]models.Booking, error)

	GetForUser(ctx context.Context, id string, userID uint) (*models.Booking, error)

	Update(ctx context.Context, b *models.Booking) error

	Delete(ctx context.Context, id string, userID uint) error

	// -------- Agent --------
	GetAgent(ctx context.Context, id string) (*models.Agent, error)

	ListAgents(ctx context.Context) ([]models.Agent, error)
}
