//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func setupPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { _ = pc.Terminate(ctx) })

	pool := testutil.NewTestPool(ctx, t, pc, testutil.MigrationsDir())
	t.Cleanup(pool.Close)
	return pool
}

func seedUsers(ctx context.Context, t *testing.T, pool *pgxpool.Pool, users ...*domain.User) {
	t.Helper()
	repo := NewUserRepository(pool)
	for _, u := range users {
		require.NoError(t, repo.Create(ctx, u))
	}
}

var (
	emp001 = &domain.User{ID: "EMP001", Name: "John Doe", Role: domain.RoleEmployee, Region: "US"}
	emp002 = &domain.User{ID: "EMP002", Name: "Rahul Sharma", Role: domain.RoleEmployee, Region: "India", Language: "Hindi"}
	hr001  = &domain.User{ID: "HR001", Name: "Alice (HR)", Role: domain.RoleHR, Region: "US"}
	hr002  = &domain.User{ID: "HR002", Name: "Bob (HR)", Role: domain.RoleHR, Region: "India"}
	admin  = &domain.User{ID: "HR_ADMIN", Name: "System Admin", Role: domain.RoleAdmin, Region: "US"}
)
