package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		expected Region
	}{
		{"leave_US.pdf", Region("US")},
		{"policies/notice_India.txt", Region("India")},
		{"handbook_2024_UK.md", Region("UK")},
		{"handbook.txt", RegionGeneral},
		{"trailing_.txt", RegionGeneral},
		{"_US.txt", RegionGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RegionFromFilename(tt.name))
		})
	}
}

func TestNormalizeRegion(t *testing.T) {
	assert.Equal(t, RegionGeneral, NormalizeRegion("  "))
	assert.Equal(t, Region("US"), NormalizeRegion(" US "))
}
