// Package assignment picks the HR handler who owns a new escalated ticket.
package assignment

import (
	"context"
	"math/rand"

	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"go.uber.org/zap"
)

// Unassigned is recorded when no handler is available.
const Unassigned = "Unassigned"

// HandlerPool lists the ids of users eligible to own tickets.
type HandlerPool interface {
	ListHandlerIDs(ctx context.Context) ([]string, error)
}

// Balancer assigns tickets uniformly at random across the current handler
// pool. It does not look at workload; a least-loaded policy counting each
// handler's open tickets is the intended production replacement.
type Balancer struct {
	pool   HandlerPool
	pick   func(n int) int
	logger *zap.Logger
}

type Option func(*Balancer)

// WithPicker replaces the random index source. pick must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(b *Balancer) {
		if pick != nil {
			b.pick = pick
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Balancer) {
		b.logger = logging.OrNop(l)
	}
}

func NewBalancer(pool HandlerPool, opts ...Option) *Balancer {
	b := &Balancer{
		pool:   pool,
		pick:   rand.Intn,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Assign returns a handler id from the pool as read now, or Unassigned when
// the pool is empty or cannot be read. It never returns an error.
func (b *Balancer) Assign(ctx context.Context) string {
	ids, err := b.pool.ListHandlerIDs(ctx)
	if err != nil {
		b.logger.Warn("handler pool lookup failed, leaving ticket unassigned", zap.Error(err))
		return Unassigned
	}
	if len(ids) == 0 {
		b.logger.Warn("handler pool is empty, leaving ticket unassigned")
		return Unassigned
	}
	return ids[b.pick(len(ids))]
}
