package account

import (
	"context"
	"errors"
	"log"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	domain "github.com/BruksfildServices01/lead-crm/internal/domain/account"
	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/mail"
	"github.com/BruksfildServices01/lead-crm/internal/otp"
	"github.com/BruksfildServices01/lead-crm/internal/validators"
)

// ======================================================
// FORGOT
// ======================================================

type ForgotPassword struct {
	repo   domain.Repository
	codes  otp.Store
	sender mail.Sender
}

func NewForgotPassword(repo domain.Repository, codes otp.Store, sender mail.Sender) *ForgotPassword {
	return &ForgotPassword{repo: repo, codes: codes, sender: sender}
}

// Execute mails a reset code. An unknown email succeeds silently so the
// endpoint cannot be used to probe for accounts.
func (uc *ForgotPassword) Execute(ctx context.Context, email string) error {
	email, ok := validators.NormalizeEmail(email)
	if !ok {
		return httperr.ErrBusiness("invalid_email")
	}

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		log.Printf("forgot-password: no account for %s", email)
		return nil
	}
	if err != nil {
		return err
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}

	if err := uc.codes.Issue(ctx, email, code); err != nil {
		if errors.Is(err, otp.ErrCooldown) {
			return httperr.ErrBusiness("otp_cooldown")
		}
		return err
	}

	if err := uc.sender.SendResetCode(ctx, email, user.Name, code); err != nil {
		if rerr := uc.codes.Revoke(ctx, email); rerr != nil {
			log.Printf("forgot-password: revoke code for %s: %v", email, rerr)
		}
		return err
	}
	return nil
}

// ======================================================
// RESET
// ======================================================

type ResetPasswordInput struct {
	Email       string
	OTP         string
	NewPassword string
}

type ResetPassword struct {
	repo  domain.Repository
	codes otp.Store
	audit *audit.Dispatcher
}

func NewResetPassword(repo domain.Repository, codes otp.Store, audit *audit.Dispatcher) *ResetPassword {
	return &ResetPassword{repo: repo, codes: codes, audit: audit}
}

func (uc *ResetPassword) Execute(ctx context.Context, in ResetPasswordInput) error {
	email, ok := validators.NormalizeEmail(in.Email)
	if !ok {
		return httperr.ErrBusiness("invalid_email")
	}

	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return err
	}

	switch err := uc.codes.Verify(ctx, email, in.OTP); {
	case errors.Is(err, otp.ErrInvalid):
		return httperr.ErrBusiness("invalid_otp")
	case errors.Is(err, otp.ErrAttemptsExceeded):
		return httperr.ErrBusiness("otp_attempts_exceeded")
	case err != nil:
		return err
	}

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return httperr.ErrBusiness("invalid_otp")
	}
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID: &user.ID,
		Action: "password_reset",
		Entity: "user",
	})
	return nil
}
