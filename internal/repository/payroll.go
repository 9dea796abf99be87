package repository

import (
	"context"
	"errors"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PayrollRepository struct {
	db dbtx
}

func NewPayrollRepository(pool *pgxpool.Pool) *PayrollRepository {
	return &PayrollRepository{db: pool}
}

func (r *PayrollRepository) GetByEmployee(ctx context.Context, employeeID string) (*domain.PayrollRecord, error) {
	var p domain.PayrollRecord
	err := r.db.QueryRow(ctx,
		`SELECT emp_id, currency, base_hourly_rate, pending_ot_hours, ot_multiplier
		 FROM payroll WHERE emp_id = $1`,
		employeeID,
	).Scan(&p.EmployeeID, &p.Currency, &p.BaseHourlyRate, &p.PendingOvertimeHours, &p.OvertimeMultiplier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPayrollNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PayrollRepository) Upsert(ctx context.Context, p *domain.PayrollRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO payroll (emp_id, currency, base_hourly_rate, pending_ot_hours, ot_multiplier)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (emp_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			base_hourly_rate = EXCLUDED.base_hourly_rate,
			pending_ot_hours = EXCLUDED.pending_ot_hours,
			ot_multiplier = EXCLUDED.ot_multiplier`,
		p.EmployeeID, p.Currency, p.BaseHourlyRate, p.PendingOvertimeHours, p.OvertimeMultiplier,
	)
	return err
}
