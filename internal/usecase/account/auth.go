package account

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	domain "github.com/BruksfildServices01/lead-crm/internal/domain/account"
	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/models"
	"github.com/BruksfildServices01/lead-crm/internal/validators"
)

const MinPasswordLen = 6

// DomainCheck reports whether an email domain can receive mail.
type DomainCheck func(email string) bool

// ======================================================
// REGISTER
// ======================================================

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Location string
	City     string
	Address  string
}

type Register struct {
	repo        domain.Repository
	tokens      *Tokens
	domainCheck DomainCheck
	audit       *audit.Dispatcher
}

func NewRegister(
	repo domain.Repository,
	tokens *Tokens,
	domainCheck DomainCheck,
	audit *audit.Dispatcher,
) *Register {
	if domainCheck == nil {
		domainCheck = validators.IsEmailDomainValid
	}
	return &Register{
		repo:        repo,
		tokens:      tokens,
		domainCheck: domainCheck,
		audit:       audit,
	}
}

func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, "", httperr.ErrBusiness("invalid_name")
	}

	email, ok := validators.NormalizeEmail(in.Email)
	if !ok {
		return nil, "", httperr.ErrBusiness("invalid_email")
	}
	if !uc.domainCheck(email) {
		return nil, "", httperr.ErrBusiness("invalid_email_domain")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Location:     strings.TrimSpace(in.Location),
		City:         strings.TrimSpace(in.City),
		Address:      strings.TrimSpace(in.Address),
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: strconv.FormatUint(uint64(user.ID), 10),
	})

	return user, token, nil
}

// ======================================================
// LOGIN
// ======================================================

type Login struct {
	repo   domain.Repository
	tokens *Tokens
}

func NewLogin(repo domain.Repository, tokens *Tokens) *Login {
	return &Login{repo: repo, tokens: tokens}
}

func (uc *Login) Execute(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", httperr.ErrBusiness("invalid_credentials")
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", httperr.ErrBusiness("invalid_credentials")
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", httperr.ErrBusiness("weak_password")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
