package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForIsStable(t *testing.T) {
	cache := NewCache()

	first := cache.For(7)
	assert.NotEmpty(t, first)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, cache.For(7))
	}
}

func TestForCyclesPalette(t *testing.T) {
	cache := NewCache()

	seen := map[string]bool{}
	for id := uint(1); id <= uint(len(palette)); id++ {
		seen[cache.For(id)] = true
	}

	assert.Len(t, seen, len(palette))

	// palette wraps after exhaustion
	assert.Equal(t, cache.For(1), cache.For(uint(len(palette))+1))
}

func TestSeedWinsOverAssignment(t *testing.T) {
	cache := NewCache()

	cache.Seed(42, "#123456")
	assert.Equal(t, "#123456", cache.For(42))

	// empty seeds are ignored
	cache.Seed(43, "")
	assert.NotEmpty(t, cache.For(43))
}
