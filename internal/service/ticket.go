package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/notify"
	"github.com/GaurishMcK/HR-Nexus/internal/pagination"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/GaurishMcK/HR-Nexus/internal/telemetry"
	"go.uber.org/zap"
)

// HandlerAssigner picks the HR handler for a new ticket.
type HandlerAssigner interface {
	Assign(ctx context.Context) string
}

// ResolutionDrafter suggests a handler reply for a ticket.
type ResolutionDrafter interface {
	DraftResolution(ctx context.Context, ticket *domain.Ticket, employee *domain.User) (*answer.Draft, error)
}

// CreateTicketInput represents the input for escalating an inquiry
type CreateTicketInput struct {
	EmployeeID string
	Question   string
	Score      float64
}

// EscalationResult is a committed ticket and the notice shown to the employee.
type EscalationResult struct {
	Ticket *domain.Ticket
	Notice string
}

// ListTicketsInput represents the input for listing tickets
type ListTicketsInput struct {
	Status string
	Cursor string
	Limit  int
}

// ReplyInput represents a handler reply with an optional status change
type ReplyInput struct {
	TicketID int64
	Text     string
	Status   string
}

// TicketService handles escalated tickets and handler actions on them
type TicketService struct {
	tickets    TicketRepositoryInterface
	users      UserRepositoryInterface
	tx         TxRunner
	assigner   HandlerAssigner
	drafter    ResolutionDrafter
	dispatcher notify.Dispatcher
	logger     *zap.Logger
}

// NewTicketService creates a new TicketService instance
func NewTicketService(
	tickets TicketRepositoryInterface,
	users UserRepositoryInterface,
	tx TxRunner,
	assigner HandlerAssigner,
	drafter ResolutionDrafter,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		tickets:    tickets,
		users:      users,
		tx:         tx,
		assigner:   assigner,
		drafter:    drafter,
		dispatcher: dispatcher,
		logger:     logging.OrNop(logger),
	}
}

// Create opens an Open ticket for an escalated inquiry. The ticket, the
// employee's question and the escalation notice commit together.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*EscalationResult, error) {
	if strings.TrimSpace(input.EmployeeID) == "" || strings.TrimSpace(input.Question) == "" {
		return nil, domain.ErrMissingRequiredField
	}

	ticket := &domain.Ticket{
		EmployeeID: input.EmployeeID,
		Question:   input.Question,
		Score:      input.Score,
		AssignedTo: s.assigner.Assign(ctx),
		Status:     domain.TicketStatusOpen,
	}

	var notice string
	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Tickets().Create(ctx, ticket); err != nil {
			return err
		}
		notice = domain.FormatEscalationNotice(ticket.ID, ticket.AssignedTo)
		if err := repos.Chat().Append(ctx, &domain.ChatMessage{
			UserID:  input.EmployeeID,
			Role:    domain.ChatRoleUser,
			Content: input.Question,
		}); err != nil {
			return err
		}
		return repos.Chat().Append(ctx, &domain.ChatMessage{
			UserID:  input.EmployeeID,
			Role:    domain.ChatRoleAssistant,
			Content: notice,
		})
	})
	if err != nil {
		return nil, domain.StorageError("create ticket", err)
	}

	s.logger.Info("ticket escalated",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("emp_id", ticket.EmployeeID),
		zap.String("assigned_to", ticket.AssignedTo),
		zap.Float64("score", ticket.Score))

	s.publish(ctx, notify.EventTicketEscalated, notify.Message{
		TicketID:  ticket.ID,
		Recipient: ticket.AssignedTo,
		Subject:   fmt.Sprintf("Ticket #%d assigned to you", ticket.ID),
		Body:      ticket.Question,
	})

	return &EscalationResult{Ticket: ticket, Notice: notice}, nil
}

// Get returns a ticket the actor may see.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Ticket, error) {
	if !actor.CanManageTickets() {
		return nil, domain.ErrRoleRequired
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError("get ticket", err)
	}
	if !canSee(actor, ticket) {
		return nil, domain.ErrTicketNotFound
	}
	return ticket, nil
}

// List returns tickets newest first. HR handlers only see their own.
func (s *TicketService) List(ctx context.Context, actor *domain.User, input ListTicketsInput) (*pagination.PageResult[*domain.Ticket], error) {
	if !actor.CanManageTickets() {
		return nil, domain.ErrRoleRequired
	}

	filter := domain.TicketFilter{AssignedTo: scopeFor(actor)}
	if input.Status != "" {
		status, err := domain.ParseTicketStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	beforeID, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}
	limit := pagination.NormalizeLimit(input.Limit)
	filter.BeforeID = beforeID
	filter.Limit = limit + 1

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, domain.StorageError("list tickets", err)
	}
	page := pagination.NewPage(tickets, limit, func(t *domain.Ticket) int64 { return t.ID })
	return &page, nil
}

// Stats returns dashboard counters scoped like List.
func (s *TicketService) Stats(ctx context.Context, actor *domain.User) (*domain.TicketStats, error) {
	if !actor.CanManageTickets() {
		return nil, domain.ErrRoleRequired
	}
	stats, err := s.tickets.Stats(ctx, scopeFor(actor))
	if err != nil {
		return nil, domain.StorageError("ticket stats", err)
	}
	return stats, nil
}

// UpdateStatus moves a ticket to status. Resolved tickets refuse any other
// status with ErrTicketResolved. Setting the status a ticket already has is a
// no-op.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, id int64, status string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "ticket.update_status", telemetry.SpanAttributes{
		UserID:    actorID(actor),
		TicketID:  id,
		Operation: "update_status",
	})
	defer span.End()

	target, err := domain.ParseTicketStatus(status)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	// Re-applying the current status changes nothing and notifies nobody.
	if current.Status == target {
		return current, nil
	}

	ticket, err := s.tickets.UpdateStatus(ctx, id, target)
	if err != nil {
		span.SetError(err)
		return nil, domain.StorageError("update ticket status", err)
	}

	s.logger.Info("ticket status updated",
		zap.Int64("ticket_id", id),
		zap.String("status", string(ticket.Status)),
		zap.String("by", actor.ID))
	s.publish(ctx, notify.EventTicketStatusChanged, notify.Message{
		TicketID:  id,
		Recipient: ticket.EmployeeID,
		Subject:   fmt.Sprintf("Ticket #%d is now %s", id, ticket.Status),
	})
	return ticket, nil
}

// Reply appends a handler response to the employee's chat log and optionally
// changes the ticket status, all in one transaction.
func (s *TicketService) Reply(ctx context.Context, actor *domain.User, input ReplyInput) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "ticket.reply", telemetry.SpanAttributes{
		UserID:    actorID(actor),
		TicketID:  input.TicketID,
		Operation: "reply",
	})
	defer span.End()

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, domain.ErrMissingRequiredField
	}
	var target domain.TicketStatus
	if input.Status != "" {
		st, err := domain.ParseTicketStatus(input.Status)
		if err != nil {
			return nil, err
		}
		target = st
	}
	if _, err := s.Get(ctx, actor, input.TicketID); err != nil {
		return nil, err
	}

	var ticket *domain.Ticket
	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		t, err := repos.Tickets().GetByID(ctx, input.TicketID)
		if err != nil {
			return err
		}
		if target != "" {
			if t, err = repos.Tickets().UpdateStatus(ctx, input.TicketID, target); err != nil {
				return err
			}
		}
		ticket = t
		return repos.Chat().Append(ctx, &domain.ChatMessage{
			UserID:  t.EmployeeID,
			Role:    domain.ChatRoleAssistant,
			Content: domain.FormatHandlerReply(t.ID, text),
		})
	})
	if err != nil {
		span.SetError(err)
		return nil, domain.StorageError("reply to ticket", err)
	}

	s.logger.Info("ticket replied",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("status", string(ticket.Status)),
		zap.String("by", actor.ID))
	s.publish(ctx, notify.EventTicketReplied, notify.Message{
		TicketID:  ticket.ID,
		Recipient: ticket.EmployeeID,
		Subject:   fmt.Sprintf("HR replied to ticket #%d", ticket.ID),
		Body:      text,
	})
	return ticket, nil
}

// Draft suggests a resolution for a ticket and keeps it in the caller's
// session alongside the selected ticket.
func (s *TicketService) Draft(ctx context.Context, actor *domain.User, sess *session.Session, id int64) (*answer.Draft, error) {
	ticket, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	employee, err := s.users.GetByID(ctx, ticket.EmployeeID)
	if err != nil {
		return nil, domain.StorageError("get ticket employee", err)
	}

	draft, err := s.drafter.DraftResolution(ctx, ticket, employee)
	if err != nil {
		return nil, err
	}

	if sess != nil {
		sess.SelectTicket(id)
		sess.TicketDraft = draft
	}
	return draft, nil
}

func (s *TicketService) publish(ctx context.Context, t notify.EventType, msg notify.Message) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, notify.NewEvent(t, msg)); err != nil {
		s.logger.Warn("notification publish failed", zap.String("type", string(t)), zap.Error(err))
	}
}

func canSee(actor *domain.User, t *domain.Ticket) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	return actor.Role == domain.RoleHR && t.AssignedTo == actor.ID
}

// scopeFor returns the assignee filter for an actor; ADMIN is unscoped.
func scopeFor(actor *domain.User) string {
	if actor.Role == domain.RoleAdmin {
		return ""
	}
	return actor.ID
}

func actorID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
