package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandOrigins(t *testing.T) {
	origins, unknown := ExpandOrigins([]string{"Singapore", "KOREA", "singapore", "Atlantis", " "})

	assert.Equal(t, []string{"SIN", "ICN", "GMP", "PUS", "CJU"}, origins)
	assert.Equal(t, []string{"Atlantis"}, unknown)
}

func TestExpandOrigins_Defaults(t *testing.T) {
	origins, unknown := ExpandOrigins(DefaultRegions)

	assert.Empty(t, unknown)
	assert.Equal(t, "PEK", origins[0])
	assert.Contains(t, origins, "TPE")
	assert.NotContains(t, origins, "BKK")

	seen := make(map[string]bool)
	for _, o := range origins {
		assert.False(t, seen[o], "duplicate %s", o)
		seen[o] = true
	}
}

func TestKnownRegions(t *testing.T) {
	regions := KnownRegions()
	assert.Len(t, regions, 12)
	assert.Equal(t, "australia", regions[0])
}
