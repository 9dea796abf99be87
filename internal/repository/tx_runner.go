package repository

import (
	"context"
	"errors"

	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"

	maxTxAttempts = 3
)

// TxRunner runs escalation and chat writes in one transaction, retrying
// when Postgres aborts it for a serialization conflict or deadlock.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
			return fn(txRepos{tx: tx})
		})
		if !isRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

type txRepos struct {
	tx pgx.Tx
}

func (r txRepos) Tickets() service.TicketRepositoryInterface {
	return NewTicketRepositoryWithTx(r.tx)
}

func (r txRepos) Chat() service.ChatRepositoryInterface {
	return NewChatRepositoryWithTx(r.tx)
}
