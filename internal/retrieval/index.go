// Package retrieval holds the region-partitioned policy index and the
// grounding lookup built on it.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Embedder turns text into a vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChunkStore persists embedded chunks so the index survives restarts.
type ChunkStore interface {
	ReplaceAll(ctx context.Context, chunks []domain.PolicyChunk) error
	LoadAll(ctx context.Context) ([]domain.PolicyChunk, error)
}

// ErrPersist wraps failures to save a built index. The previous index keeps
// serving.
var ErrPersist = errors.New("persist index")

type BuildStatus string

const (
	BuildStatusOK          BuildStatus = "ok"
	BuildStatusNoDocuments BuildStatus = "no_documents"
)

// BuildResult reports what a build produced.
type BuildResult struct {
	Status  BuildStatus
	Chunks  int
	Regions map[domain.Region]int
}

const defaultEmbedConcurrency = 4

// Index is an in-memory cosine index over policy chunks.
//
// Readers load the current snapshot pointer and never block. Build and Load
// hold buildMu, construct a complete snapshot, persist it, and only then
// publish it with a single atomic store.
type Index struct {
	embedder    Embedder
	store       ChunkStore
	logger      *zap.Logger
	concurrency int

	buildMu sync.Mutex
	current atomic.Pointer[snapshot]
}

type Option func(*Index)

// WithEmbedConcurrency bounds parallel embedding calls during Build.
func WithEmbedConcurrency(n int) Option {
	return func(ix *Index) {
		if n > 0 {
			ix.concurrency = n
		}
	}
}

// WithLogger sets the index logger.
func WithLogger(l *zap.Logger) Option {
	return func(ix *Index) {
		ix.logger = logging.OrNop(l)
	}
}

// NewIndex creates an empty index. store may be nil for a memory-only index.
func NewIndex(embedder Embedder, store ChunkStore, opts ...Option) *Index {
	ix := &Index{
		embedder:    embedder,
		store:       store,
		logger:      zap.NewNop(),
		concurrency: defaultEmbedConcurrency,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Size returns the number of chunks in the published snapshot.
func (ix *Index) Size() int {
	return ix.current.Load().size()
}

// Build replaces the whole index with chunks. With no chunks it reports
// BuildStatusNoDocuments and leaves the current index in place. On any error
// the current index keeps serving.
func (ix *Index) Build(ctx context.Context, chunks []domain.PolicyChunk) (*BuildResult, error) {
	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	if len(chunks) == 0 {
		return &BuildResult{Status: BuildStatusNoDocuments}, nil
	}

	embedded := make([]domain.PolicyChunk, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)
	for i := range chunks {
		i := i
		g.Go(func() error {
			c := chunks[i]
			vec, err := ix.embedder.GenerateEmbedding(gctx, c.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %s#%d: %w", c.Source, c.ChunkIndex, err)
			}
			c.Embedding = vec
			c.Region = domain.NormalizeRegion(string(c.Region))
			embedded[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	next := newSnapshot(embedded)

	if ix.store != nil {
		if err := ix.store.ReplaceAll(ctx, embedded); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersist, err)
		}
	}

	ix.current.Store(next)
	ix.logger.Info("policy index published", zap.Int("chunks", next.size()), zap.Any("regions", next.regions))

	return &BuildResult{
		Status:  BuildStatusOK,
		Chunks:  next.size(),
		Regions: copyRegions(next.regions),
	}, nil
}

// Load publishes the chunks held by the store without re-embedding them.
func (ix *Index) Load(ctx context.Context) (int, error) {
	if ix.store == nil {
		return 0, nil
	}

	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	chunks, err := ix.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load index: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	next := newSnapshot(chunks)
	ix.current.Store(next)
	return next.size(), nil
}

// Query returns up to k chunks tagged region, most similar first. An empty
// region searches every region. An index that was never built returns nothing.
func (ix *Index) Query(ctx context.Context, text string, region domain.Region, k int) ([]ScoredChunk, error) {
	snap := ix.current.Load()
	if snap.size() == 0 || k <= 0 {
		return nil, nil
	}
	if region != "" && snap.regions[region] == 0 {
		return nil, nil
	}

	vec, err := ix.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return snap.search(vec, region, k), nil
}

func copyRegions(in map[domain.Region]int) map[domain.Region]int {
	out := make(map[domain.Region]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
