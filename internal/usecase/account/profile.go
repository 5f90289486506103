package account

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	"github.com/BruksfildServices01/lead-crm/internal/avatar"
	domain "github.com/BruksfildServices01/lead-crm/internal/domain/account"
	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/models"
	"github.com/BruksfildServices01/lead-crm/internal/timezone"
)

// ======================================================
// GET
// ======================================================

type GetProfile struct {
	repo domain.Repository
}

func NewGetProfile(repo domain.Repository) *GetProfile {
	return &GetProfile{repo: repo}
}

func (uc *GetProfile) Execute(ctx context.Context, userID uint) (*models.User, error) {
	user, err := uc.repo.GetUserByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	return user, err
}

// ======================================================
// UPDATE
// ======================================================

// ProfileInput carries only the fields present in the request.
type ProfileInput struct {
	Name     *string
	Phone    *string
	Location *string
	City     *string
	Address  *string
	Timezone *string
	Language *string
}

type UpdateProfile struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateProfile(repo domain.Repository, audit *audit.Dispatcher) *UpdateProfile {
	return &UpdateProfile{repo: repo, audit: audit}
}

func (uc *UpdateProfile) Execute(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := NewGetProfile(uc.repo).Execute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, httperr.ErrBusiness("invalid_name")
		}
		user.Name = name
	}
	if in.Timezone != nil {
		tz := strings.TrimSpace(*in.Timezone)
		if tz != "" && !timezone.IsValid(tz) {
			return nil, httperr.ErrBusiness("invalid_timezone")
		}
		user.Timezone = tz
	}
	set(&user.Phone, in.Phone)
	set(&user.Location, in.Location)
	set(&user.City, in.City)
	set(&user.Address, in.Address)
	set(&user.Language, in.Language)

	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID: &userID,
		Action: "profile_updated",
		Entity: "user",
	})
	return user, nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// ======================================================
// AVATAR
// ======================================================

type UploadAvatar struct {
	repo    domain.Repository
	storage avatar.Storage
}

func NewUploadAvatar(repo domain.Repository, storage avatar.Storage) *UploadAvatar {
	return &UploadAvatar{repo: repo, storage: storage}
}

func (uc *UploadAvatar) Execute(ctx context.Context, userID uint, r io.Reader) (*models.User, error) {
	if uc.storage == nil {
		return nil, httperr.ErrBusiness("avatar_storage_disabled")
	}

	user, err := NewGetProfile(uc.repo).Execute(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := avatar.Process(r)
	switch {
	case errors.Is(err, avatar.ErrTooLarge):
		return nil, httperr.ErrBusiness("avatar_too_large")
	case errors.Is(err, avatar.ErrUnsupported):
		return nil, httperr.ErrBusiness("unsupported_image")
	case err != nil:
		return nil, err
	}

	url, err := uc.storage.Put(ctx, userID, data)
	if err != nil {
		return nil, err
	}

	user.AvatarURL = url
	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
