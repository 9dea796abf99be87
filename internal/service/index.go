package service

import (
	"context"
	"errors"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/corpus"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"github.com/GaurishMcK/HR-Nexus/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PolicyIndex is the retrieval index as seen by the rebuild flow.
type PolicyIndex interface {
	Build(ctx context.Context, chunks []domain.PolicyChunk) (*retrieval.BuildResult, error)
	Load(ctx context.Context) (int, error)
}

// RebuildResult reports a rebuild. Reason explains a build that produced
// nothing.
type RebuildResult struct {
	Status    retrieval.BuildStatus `json:"status"`
	Documents int                   `json:"documents"`
	Chunks    int                   `json:"chunks"`
	Regions   map[string]int        `json:"regions,omitempty"`
	Reason    string                `json:"reason,omitempty"`
}

// IndexService rebuilds the policy index from the document source.
type IndexService struct {
	source corpus.DocumentSource
	index  PolicyIndex
	chunk  corpus.ChunkConfig
	logger *zap.Logger

	group singleflight.Group
}

// NewIndexService creates a new IndexService instance
func NewIndexService(source corpus.DocumentSource, index PolicyIndex, logger *zap.Logger) *IndexService {
	return &IndexService{
		source: source,
		index:  index,
		chunk:  corpus.DefaultChunkConfig(),
		logger: logging.OrNop(logger),
	}
}

// Rebuild reads every policy document, chunks it and rebuilds the index.
// Concurrent callers share one run and its result.
func (s *IndexService) Rebuild(ctx context.Context) (*RebuildResult, error) {
	v, err, shared := s.group.Do("rebuild", func() (any, error) {
		return s.rebuild(ctx)
	})
	if shared {
		s.logger.Debug("index rebuild coalesced")
	}
	if err != nil {
		return nil, err
	}
	return v.(*RebuildResult), nil
}

func (s *IndexService) rebuild(ctx context.Context) (*RebuildResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "index.rebuild", telemetry.SpanAttributes{Operation: "rebuild"})
	defer span.End()

	docs, err := s.source.Documents(ctx)
	if errors.Is(err, domain.ErrPolicySourceNotFound) {
		s.logger.Warn("policy source missing", zap.Error(err))
		return &RebuildResult{Status: retrieval.BuildStatusNoDocuments, Reason: err.Error()}, nil
	}
	if err != nil {
		span.SetError(err)
		return nil, domain.StorageError("read policy documents", err)
	}

	chunks := corpus.Chunk(docs, s.chunk)
	res, err := s.index.Build(ctx, chunks)
	if err != nil {
		span.SetError(err)
		if errors.Is(err, retrieval.ErrPersist) {
			return nil, domain.StorageError("rebuild index", err)
		}
		return nil, domain.GenerationError("rebuild index", err)
	}

	out := &RebuildResult{
		Status:    res.Status,
		Documents: len(docs),
		Chunks:    res.Chunks,
	}
	if len(res.Regions) > 0 {
		out.Regions = make(map[string]int, len(res.Regions))
		for region, n := range res.Regions {
			out.Regions[string(region)] = n
		}
	}
	if res.Status == retrieval.BuildStatusNoDocuments {
		out.Reason = "no readable policy documents"
	}

	s.logger.Info("index rebuilt",
		zap.String("status", string(out.Status)),
		zap.Int("documents", out.Documents),
		zap.Int("chunks", out.Chunks))
	return out, nil
}

// Load restores the index from persisted chunks.
func (s *IndexService) Load(ctx context.Context) (int, error) {
	n, err := s.index.Load(ctx)
	if err != nil {
		return 0, domain.StorageError("load policy index", err)
	}
	s.logger.Info("policy index loaded", zap.Int("chunks", n))
	return n, nil
}

// UploadPolicy stores a policy document in the corpus and rebuilds the index.
func (s *IndexService) UploadPolicy(ctx context.Context, name string, content []byte) (*RebuildResult, error) {
	name = strings.TrimSpace(name)
	if err := corpus.ValidateName(name); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, domain.ErrMissingRequiredField
	}
	if err := s.source.Put(ctx, name, content); err != nil {
		return nil, domain.StorageError("store policy document", err)
	}
	s.logger.Info("policy uploaded", zap.String("name", name), zap.Int("bytes", len(content)))
	return s.Rebuild(ctx)
}
