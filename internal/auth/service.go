package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/repository"
)

// Account is the caller-facing shape of a signed-up or logged-in user.
type Account struct {
	Email string
	Role  string
}

type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewService(users repository.UserRepository, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Signup registers a new account. Email is lowercased before storage so
// lookups are case-insensitive.
func (s *Service) Signup(ctx context.Context, email, password, role string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.ValidationErrorf("Email and password are required")
	}
	if role == "" {
		role = string(constants.DefaultRole)
	}
	if role != string(constants.RoleUser) && role != string(constants.RoleNGO) {
		return nil, common.ValidationErrorf("invalid role %q", role)
	}

	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ValidationErrorf("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, email, string(hash), role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("auth.signup.ok", "email", u.Email, "role", u.Role)
	return &Account{Email: u.Email, Role: u.Role}, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error so callers cannot probe for accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.ValidationErrorf("Email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.UnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, common.UnauthorizedError("Invalid email or password")
	}

	s.logger.Info("auth.login.ok", "email", u.Email)
	return &Account{Email: u.Email, Role: u.Role}, nil
}
