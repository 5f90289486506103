package account

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/lead-crm/internal/models"
)

var ErrUserNotFound = errors.New("account: user not found")

type Repository interface {
	CreateUser(ctx context.Context, u *models.User) error

	GetUserByID(ctx context.Context, id uint) (*models.User, error)

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateUser(ctx context.Context, u *models.User) error
}
