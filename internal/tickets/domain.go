package tickets

import (
	"fmt"
	"time"
)

// ServiceType categorizes the work a ticket asks for.
type ServiceType string

const (
	ServiceCleaning       ServiceType = "cleaning"
	ServiceMaintenance    ServiceType = "maintenance"
	ServiceRepair         ServiceType = "repair"
	ServiceGardening      ServiceType = "gardening"
	ServiceWindowCleaning ServiceType = "window_cleaning"
	ServiceOther          ServiceType = "other"
)

// Valid reports whether the service type is one of the known categories.
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceCleaning, ServiceMaintenance, ServiceRepair, ServiceGardening, ServiceWindowCleaning, ServiceOther:
		return true
	default:
		return false
	}
}

// Priority is the customer-selected urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority belongs to the closed set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Status tracks a ticket through its lifecycle. New tickets open as open.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("tickets: unknown status %q", raw)
	}
}

// Ticket is a customer service request.
type Ticket struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	ServiceType ServiceType `json:"serviceType"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// TicketWithUser is the admin listing row, the ticket joined with the
// requesting user's name and email.
type TicketWithUser struct {
	Ticket
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}
