package domain

import (
	"path/filepath"
	"strings"
)

// Region is a jurisdiction tag partitioning policy content and users.
type Region string

// RegionGeneral is the fallback region for untagged policy content.
const RegionGeneral Region = "General"

// NormalizeRegion trims r and falls back to RegionGeneral when it is empty.
func NormalizeRegion(r string) Region {
	r = strings.TrimSpace(r)
	if r == "" {
		return RegionGeneral
	}
	return Region(r)
}

// RegionFromFilename derives a region from the `<name>_<REGION>.<ext>` naming
// convention. Names that do not follow it are tagged General.
func RegionFromFilename(name string) Region {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	idx := strings.LastIndex(base, "_")
	if idx <= 0 || idx == len(base)-1 {
		return RegionGeneral
	}
	return NormalizeRegion(base[idx+1:])
}

// PolicyChunk is a bounded span of policy text, the unit of retrieval.
type PolicyChunk struct {
	Source     string
	Region     Region
	ChunkIndex int
	Content    string
	Embedding  []float32
}

// PolicyDocument is a whole source document before chunking.
type PolicyDocument struct {
	Name    string
	Region  Region
	Content string
}
