package retrieval

import (
	"math"
	"sort"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
)

// ScoredChunk is a query hit with its cosine similarity.
type ScoredChunk struct {
	domain.PolicyChunk
	Score float64
}

type entry struct {
	chunk domain.PolicyChunk
	norm  float64
}

// snapshot is an immutable, fully built index generation.
type snapshot struct {
	entries []entry
	regions map[domain.Region]int
}

func newSnapshot(chunks []domain.PolicyChunk) *snapshot {
	s := &snapshot{
		entries: make([]entry, 0, len(chunks)),
		regions: make(map[domain.Region]int),
	}
	for _, c := range chunks {
		c.Region = domain.NormalizeRegion(string(c.Region))
		s.entries = append(s.entries, entry{chunk: c, norm: vectorNorm(c.Embedding)})
		s.regions[c.Region]++
	}
	return s
}

func (s *snapshot) size() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// search returns the k most similar chunks; an empty region matches all.
func (s *snapshot) search(query []float32, region domain.Region, k int) []ScoredChunk {
	if s.size() == 0 || k <= 0 {
		return nil
	}
	if region != "" && s.regions[region] == 0 {
		return nil
	}

	qNorm := vectorNorm(query)
	results := make([]ScoredChunk, 0, k)
	for _, e := range s.entries {
		if region != "" && e.chunk.Region != region {
			continue
		}
		results = append(results, ScoredChunk{
			PolicyChunk: e.chunk,
			Score:       cosine(query, qNorm, e.chunk.Embedding, e.norm),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if len(a) != len(b) || aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}
