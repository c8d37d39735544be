package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/verdantfield/portal/internal/shared"
)

const bcryptCost = 10

// RepositoryPort defines data access methods for accounts and sessions.
type RepositoryPort interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// CreateUserInput carries a prepared account row.
type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// RegisterInput carries raw registration data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Service wraps authentication business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Register creates a customer account with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, CreateUserInput{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         RoleCustomer,
	})
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// CurrentUser loads the account bound to a session.
func (s *Service) CurrentUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
