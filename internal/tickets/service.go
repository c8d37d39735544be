package tickets

import (
	"context"
	"fmt"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// RepositoryPort defines data access methods for tickets.
type RepositoryPort interface {
	Create(ctx context.Context, ticket *Ticket) (*Ticket, error)
	ListAll(ctx context.Context) ([]TicketWithUser, error)
	ListByUser(ctx context.Context, userID int64) ([]Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Ticket, error)
}

// CreateTicketInput is a new service request from an authenticated customer.
type CreateTicketInput struct {
	ServiceType ServiceType `json:"serviceType" validate:"required"`
	Description string      `json:"description" validate:"required,min=10,max=1000"`
	Priority    Priority    `json:"priority" validate:"required"`
}

// Service handles ticket business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create opens a new ticket for the given user.
func (s *Service) Create(ctx context.Context, userID int64, input CreateTicketInput) (*Ticket, error) {
	if !input.ServiceType.Valid() {
		return nil, fmt.Errorf("%w: unknown service type %q", httpx.ErrValidation, input.ServiceType)
	}
	if !input.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", httpx.ErrValidation, input.Priority)
	}
	return s.repo.Create(ctx, &Ticket{
		UserID:      userID,
		ServiceType: input.ServiceType,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      StatusOpen,
	})
}

// ListAll returns every ticket with requester details, newest first.
func (s *Service) ListAll(ctx context.Context) ([]TicketWithUser, error) {
	return s.repo.ListAll(ctx)
}

// ListByUser returns one user's tickets, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Ticket, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus moves a ticket to a new status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, raw string) (*Ticket, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
