package service

import (
	"context"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
)

// UserRepositoryInterface defines the interface for user persistence
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListHandlerIDs(ctx context.Context) ([]string, error)
	UpdateLanguage(ctx context.Context, id, language string) error
}

// TicketRepositoryInterface defines the interface for ticket persistence
type TicketRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error)
	List(ctx context.Context, filter domain.TicketFilter) ([]*domain.Ticket, error)
	Stats(ctx context.Context, assignedTo string) (*domain.TicketStats, error)
}

// ChatRepositoryInterface defines the interface for the chat log
type ChatRepositoryInterface interface {
	Append(ctx context.Context, m *domain.ChatMessage) error
	ListByUser(ctx context.Context, userID string, afterID int64, limit int) ([]*domain.ChatMessage, error)
}

// PayrollRepositoryInterface defines the interface for payroll records
type PayrollRepositoryInterface interface {
	GetByEmployee(ctx context.Context, employeeID string) (*domain.PayrollRecord, error)
	Upsert(ctx context.Context, p *domain.PayrollRecord) error
}
