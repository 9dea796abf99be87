package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ticketColumns = `ticket_id, emp_id, question, score, assigned_to, status, created_at, updated_at`

type TicketRepository struct {
	db dbtx
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: pool}
}

func NewTicketRepositoryWithTx(tx pgx.Tx) *TicketRepository {
	return &TicketRepository{db: tx}
}

// Create inserts t and fills in its serial id and timestamps.
func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	status := t.Status
	if status == "" {
		status = domain.TicketStatusOpen
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tickets (emp_id, question, score, assigned_to, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ticket_id, status, created_at, updated_at`,
		t.EmployeeID, t.Question, t.Score, t.AssignedTo, status,
	).Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return err
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_id = $1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

// UpdateStatus sets the status in one guarded statement. A Resolved ticket
// only accepts Resolved again, and an unchanged status keeps updated_at. When no row changes, a lookup tells a missing
// ticket from a refused transition.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tickets
		 SET status = $2,
		     updated_at = CASE WHEN status = $2 THEN updated_at ELSE now() END
		 WHERE ticket_id = $1 AND (status <> $3 OR $2 = $3)
		 RETURNING `+ticketColumns,
		id, status, domain.TicketStatusResolved,
	)
	t, err := scanTicket(row)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrTicketResolved
}

func (r *TicketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]*domain.Ticket, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if filter.AssignedTo != "" {
		add("assigned_to = ?", filter.AssignedTo)
	}
	if filter.Status != "" {
		add("status = ?", filter.Status)
	}
	if filter.BeforeID > 0 {
		add("ticket_id < ?", filter.BeforeID)
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	args = append(args, limit)
	query += ` ORDER BY ticket_id DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Stats summarises tickets assigned to assignedTo, or all tickets when empty.
func (r *TicketRepository) Stats(ctx context.Context, assignedTo string) (*domain.TicketStats, error) {
	var s domain.TicketStats
	err := r.db.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE status = $2),
		        count(*) FILTER (WHERE score >= $3),
		        count(*) FILTER (WHERE status = $4)
		 FROM tickets
		 WHERE $1 = '' OR assigned_to = $1`,
		assignedTo, domain.TicketStatusOpen, domain.HighRiskScore, domain.TicketStatusResolved,
	).Scan(&s.Total, &s.Pending, &s.HighRisk, &s.Resolved)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.EmployeeID, &t.Question, &t.Score, &t.AssignedTo, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
