package service

import (
	"context"
	"errors"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"go.uber.org/zap"
)

// SeedUsers are the demo accounts created by Seed.
var SeedUsers = []domain.User{
	{ID: "EMP001", Name: "John Doe", Role: domain.RoleEmployee, Region: "US", Language: "English"},
	{ID: "EMP002", Name: "Rahul Sharma", Role: domain.RoleEmployee, Region: "India", Language: "Hindi"},
	{ID: "HR_ADMIN", Name: "System Admin", Role: domain.RoleAdmin, Region: "US", Language: "English"},
	{ID: "HR001", Name: "Alice (HR)", Role: domain.RoleHR, Region: "US", Language: "English"},
	{ID: "HR002", Name: "Bob (HR)", Role: domain.RoleHR, Region: "India", Language: "English"},
}

// SeedPayroll are the demo payroll rows created by Seed.
var SeedPayroll = []domain.PayrollRecord{
	{EmployeeID: "EMP001", Currency: "USD", BaseHourlyRate: 50, PendingOvertimeHours: 10, OvertimeMultiplier: 1.5},
	{EmployeeID: "EMP002", Currency: "Rs", BaseHourlyRate: 1153, PendingOvertimeHours: 30, OvertimeMultiplier: 1.5},
}

// SeedResult counts what Seed created.
type SeedResult struct {
	UsersCreated int
	UsersSkipped int
	Payroll      int
}

// Seed creates the demo users and payroll records. Existing users are left
// untouched, so running it twice is harmless.
func Seed(ctx context.Context, users UserRepositoryInterface, payroll PayrollRepositoryInterface, logger *zap.Logger) (*SeedResult, error) {
	logger = logging.OrNop(logger)
	res := &SeedResult{}

	for i := range SeedUsers {
		u := SeedUsers[i]
		err := users.Create(ctx, &u)
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			res.UsersSkipped++
		case err != nil:
			return res, domain.StorageError("seed user "+u.ID, err)
		default:
			res.UsersCreated++
		}
	}

	for i := range SeedPayroll {
		p := SeedPayroll[i]
		if err := payroll.Upsert(ctx, &p); err != nil {
			return res, domain.StorageError("seed payroll "+p.EmployeeID, err)
		}
		res.Payroll++
	}

	logger.Info("seed complete",
		zap.Int("users_created", res.UsersCreated),
		zap.Int("users_skipped", res.UsersSkipped),
		zap.Int("payroll", res.Payroll))
	return res, nil
}
