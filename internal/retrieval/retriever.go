package retrieval

import (
	"context"
	"errors"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"go.uber.org/zap"
)

const (
	// RegionK is the number of chunks requested from the user's own region.
	RegionK = 4
	// FallbackK is the smaller number requested from the General region.
	FallbackK = 2
)

// ErrNoGrounding means neither the region nor General had a matching chunk.
var ErrNoGrounding = errors.New("no grounding policy found")

// Searcher is the read side of the index.
type Searcher interface {
	Query(ctx context.Context, text string, region domain.Region, k int) ([]ScoredChunk, error)
}

// Retriever finds grounding chunks for a question, falling back from the
// user's region to General once.
type Retriever struct {
	index  Searcher
	logger *zap.Logger
}

func NewRetriever(index Searcher, logger *zap.Logger) *Retriever {
	return &Retriever{index: index, logger: logging.OrNop(logger)}
}

// Retrieve returns at least one chunk or ErrNoGrounding. Embedding failures
// are returned as-is.
func (r *Retriever) Retrieve(ctx context.Context, question string, region domain.Region) ([]ScoredChunk, error) {
	region = domain.NormalizeRegion(string(region))

	hits, err := r.index.Query(ctx, question, region, RegionK)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		return hits, nil
	}

	if region == domain.RegionGeneral {
		return nil, ErrNoGrounding
	}

	r.logger.Debug("no regional policy hit, falling back to General", zap.String("region", string(region)))
	hits, err = r.index.Query(ctx, question, domain.RegionGeneral, FallbackK)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, ErrNoGrounding
	}
	return hits, nil
}

// Sources lists the distinct source documents of hits in rank order.
func Sources(hits []ScoredChunk) []string {
	seen := make(map[string]struct{}, len(hits))
	var out []string
	for _, h := range hits {
		if _, ok := seen[h.Source]; ok {
			continue
		}
		seen[h.Source] = struct{}{}
		out = append(out, h.Source)
	}
	return out
}
