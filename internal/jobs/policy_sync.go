package jobs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GaurishMcK/HR-Nexus/internal/corpus"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"go.uber.org/zap"
)

// Rebuilder rebuilds the policy index from the document source.
type Rebuilder interface {
	Rebuild(ctx context.Context) (int, error)
}

// RebuilderFunc adapts a function to Rebuilder.
type RebuilderFunc func(ctx context.Context) (int, error)

func (f RebuilderFunc) Rebuild(ctx context.Context) (int, error) { return f(ctx) }

// PolicySync rebuilds the index whenever the policy corpus changes on
// disk or in the bucket. The first run records a baseline without
// rebuilding.
type PolicySync struct {
	source  corpus.DocumentSource
	rebuild Rebuilder
	logger  *zap.Logger

	mu       sync.Mutex
	last     string
	baseline bool
}

func NewPolicySync(source corpus.DocumentSource, rebuild Rebuilder, logger *zap.Logger) *PolicySync {
	return &PolicySync{source: source, rebuild: rebuild, logger: logging.OrNop(logger)}
}

// ProcessJobs implements the JobProcessor interface
func (p *PolicySync) ProcessJobs(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	docs, err := p.source.Documents(ctx)
	if err != nil && !errors.Is(err, domain.ErrPolicySourceNotFound) {
		return fmt.Errorf("list policy documents: %w", err)
	}

	sum := Fingerprint(docs)
	if !p.baseline {
		p.last, p.baseline = sum, true
		return nil
	}
	if sum == p.last {
		return nil
	}

	p.logger.Info("policy corpus changed, rebuilding index", zap.Int("documents", len(docs)))
	chunks, err := p.rebuild.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	p.last = sum
	p.logger.Info("policy sync complete", zap.Int("chunks", chunks))
	return nil
}

// Fingerprint hashes document names and contents independent of order.
func Fingerprint(docs []domain.PolicyDocument) string {
	sorted := make([]domain.PolicyDocument, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := sha256.New()
	for _, d := range sorted {
		fmt.Fprintf(h, "%s\x00%d\x00", d.Name, len(d.Content))
		h.Write([]byte(d.Content))
	}
	return hex.EncodeToString(h.Sum(nil))
}
