package users

import (
	"context"
	"fmt"

	"github.com/verdantfield/portal/internal/auth"
	"github.com/verdantfield/portal/internal/platform/httpx"
	"github.com/verdantfield/portal/internal/shared"
)

// RepositoryPort defines data access methods for user administration.
type RepositoryPort interface {
	List(ctx context.Context, search string, offset, limit int) ([]auth.User, int, error)
	UpdateRole(ctx context.Context, id int64, role auth.Role) (*auth.User, error)
}

// ListUsersInput carries the admin listing filters.
type ListUsersInput struct {
	Search string
	Page   int
	Limit  int
}

// ListUsersResult pairs one page of users with pagination metadata.
type ListUsersResult struct {
	Users      []auth.User       `json:"users"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service handles user administration logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of users matching the search term.
func (s *Service) List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 10
	}

	offset := (input.Page - 1) * input.Limit
	users, total, err := s.repo.List(ctx, input.Search, offset, input.Limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []auth.User{}
	}
	return &ListUsersResult{
		Users:      users,
		Pagination: shared.NewPagination(input.Page, input.Limit, total),
	}, nil
}

// ChangeRole sets a user's role. Admins cannot demote or re-grant their
// own account; that guard lives here so every transport hits it.
func (s *Service) ChangeRole(ctx context.Context, actorID, targetID int64, raw string) (*auth.User, error) {
	role, err := auth.ParseRole(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if actorID == targetID {
		return nil, httpx.ErrForbidden
	}
	return s.repo.UpdateRole(ctx, targetID, role)
}
