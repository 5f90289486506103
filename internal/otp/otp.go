package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	ErrCooldown         = errors.New("otp: code requested too recently")
	ErrInvalid          = errors.New("otp: invalid or expired code")
	ErrAttemptsExceeded = errors.New("otp: too many attempts")
)

const (
	CodeTTL     = 10 * time.Minute
	Cooldown    = 60 * time.Second
	MaxAttempts = 5
	Digits      = 6
)

// Store keeps one pending reset code per email.
type Store interface {
	// Issue replaces the pending code, failing with ErrCooldown when the
	// previous one was issued less than Cooldown ago.
	Issue(ctx context.Context, email, code string) error
	// Verify consumes the code on success.
	Verify(ctx context.Context, email, code string) error
	// Revoke drops the pending code and its cooldown.
	Revoke(ctx context.Context, email string) error
}

func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", Digits, n.Int64()), nil
}

func sameCode(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
