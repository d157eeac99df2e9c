package valueobject

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededSource(seed byte) *rand.ChaCha8 {
	var key [32]byte
	key[0] = seed
	return rand.NewChaCha8(key)
}

func TestCodeGenerator_Generate(t *testing.T) {
	tests := []struct {
		name   string
		opts   []GeneratorOption
		length int
	}{
		{
			name:   "defaults",
			opts:   nil,
			length: DefaultCodeLength,
		},
		{
			name:   "custom length",
			opts:   []GeneratorOption{WithLength(8)},
			length: 8,
		},
		{
			name:   "non-positive length keeps default",
			opts:   []GeneratorOption{WithLength(0)},
			length: DefaultCodeLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewCodeGenerator(tt.opts...)

			code, err := g.Generate()

			require.NoError(t, err)
			assert.Len(t, code, tt.length)
			assert.True(t, g.Matches(code))
		})
	}
}

func TestCodeGenerator_DeterministicWithSeededSource(t *testing.T) {
	a := NewCodeGenerator(WithSource(seededSource(7)))
	b := NewCodeGenerator(WithSource(seededSource(7)))

	for i := 0; i < 20; i++ {
		codeA, err := a.Generate()
		require.NoError(t, err)
		codeB, err := b.Generate()
		require.NoError(t, err)
		assert.Equal(t, codeA, codeB)
	}
}

func TestCodeGenerator_UsesOnlyAlphabet(t *testing.T) {
	g := NewCodeGenerator(WithAlphabet("xy"), WithLength(16), WithSource(seededSource(1)))

	code, err := g.Generate()

	require.NoError(t, err)
	assert.Empty(t, strings.Trim(code, "xy"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestCodeGenerator_SourceError(t *testing.T) {
	g := NewCodeGenerator(WithSource(failingReader{}))

	_, err := g.Generate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
}

func TestCodeGenerator_Matches(t *testing.T) {
	g := NewCodeGenerator()

	assert.True(t, g.Matches("aZ09"))
	assert.False(t, g.Matches("aZ0"))
	assert.False(t, g.Matches("aZ0-"))
	assert.False(t, g.Matches(""))
}
