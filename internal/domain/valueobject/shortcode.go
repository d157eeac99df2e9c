package valueobject

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	// DefaultCodeLength gives 62^4 (~14.7M) codes; collisions are expected
	// well before that and are retried by the registrar.
	DefaultCodeLength = 4
	DefaultAlphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces fixed-length, URL-safe short codes.
type CodeGenerator struct {
	alphabet string
	length   int

	mu     sync.Mutex // guards source; deterministic readers are not goroutine-safe
	source io.Reader
}

// GeneratorOption configures a CodeGenerator.
type GeneratorOption func(*CodeGenerator)

// WithAlphabet overrides the symbol set. It must hold between 1 and 256 bytes.
func WithAlphabet(alphabet string) GeneratorOption {
	return func(g *CodeGenerator) {
		if len(alphabet) > 0 && len(alphabet) <= 256 {
			g.alphabet = alphabet
		}
	}
}

// WithLength overrides the code length.
func WithLength(length int) GeneratorOption {
	return func(g *CodeGenerator) {
		if length > 0 {
			g.length = length
		}
	}
}

// WithSource injects the randomness source.
func WithSource(r io.Reader) GeneratorOption {
	return func(g *CodeGenerator) {
		if r != nil {
			g.source = r
		}
	}
}

// NewCodeGenerator creates a generator backed by crypto/rand unless a source
// is injected.
func NewCodeGenerator(opts ...GeneratorOption) *CodeGenerator {
	g := &CodeGenerator{
		alphabet: DefaultAlphabet,
		length:   DefaultCodeLength,
		source:   rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Length returns the length of generated codes.
func (g *CodeGenerator) Length() int {
	return g.length
}

// Generate returns a new candidate code. Bytes at or above the largest
// multiple of the alphabet size are rejected so every symbol is equally likely.
func (g *CodeGenerator) Generate() (string, error) {
	n := len(g.alphabet)
	limit := 256 - 256%n

	code := make([]byte, 0, g.length)
	buf := make([]byte, g.length*2)

	g.mu.Lock()
	defer g.mu.Unlock()

	for len(code) < g.length {
		if _, err := io.ReadFull(g.source, buf); err != nil {
			return "", fmt.Errorf("read randomness: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, g.alphabet[int(b)%n])
			if len(code) == g.length {
				break
			}
		}
	}

	return string(code), nil
}

// Matches reports whether s has the shape of a code this generator produces.
func (g *CodeGenerator) Matches(s string) bool {
	if len(s) != g.length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(g.alphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
