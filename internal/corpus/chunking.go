package corpus

import (
	"strings"
	"unicode"
)

// ChunkConfig controls how policy documents are split for embedding.
type ChunkConfig struct {
	MaxRunes int
	MinRunes int
	Overlap  int
}

// DefaultChunkConfig matches the policy corpus: 500 runes with 50 of overlap.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxRunes: 500,
		MinRunes: 250,
		Overlap:  50,
	}
}

// Split breaks text into overlapping chunks. Cuts land on whitespace when one
// exists in the back half of the window.
func Split(text string, cfg ChunkConfig) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	if cfg.MaxRunes <= 0 {
		cfg = DefaultChunkConfig()
	}
	runes := []rune(clean)
	if len(runes) <= cfg.MaxRunes {
		return []string{clean}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + cfg.MaxRunes
		if end >= len(runes) {
			end = len(runes)
		} else {
			minCut := start + cfg.MinRunes
			for i := end; i > minCut; i-- {
				if unicode.IsSpace(runes[i-1]) {
					end = i
					break
				}
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}

		next := end - cfg.Overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}
