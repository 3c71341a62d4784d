package keygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateProducesKeysOfTheConfiguredLength(t *testing.T) {
	gen := NewGenerator(8)

	for i := 0; i < 100; i++ {
		key := gen.Generate()
		assert.Len(t, key, 8)
		assert.True(t, gen.IsValid(key))
	}
}

func TestGenerateProducesDistinctKeys(t *testing.T) {
	gen := NewGenerator(8)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[gen.Generate()] = true
	}

	// 62^8 combinations; 1000 draws colliding would point at a broken source
	assert.Greater(t, len(seen), 990)
}

func TestNewGeneratorClampsLength(t *testing.T) {
	assert.Len(t, NewGenerator(1).Generate(), 6)
	assert.Len(t, NewGenerator(50).Generate(), 12)
}

func TestIsValid(t *testing.T) {
	gen := NewGenerator(8)

	assert.True(t, gen.IsValid("aB3xYz01"))
	assert.False(t, gen.IsValid(""))
	assert.False(t, gen.IsValid("has space"))
	assert.False(t, gen.IsValid("toolongforlimit"))
}
