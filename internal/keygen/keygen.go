package keygen

import (
	"crypto/rand"
	"math/big"
)

// Base62 character set (0-9, A-Z, a-z) - 62 characters total
// Base62 avoids special characters that would clash with key validation
const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generator produces server-assigned document keys using cryptographically
// secure random numbers. Thread-safe and collision-resistant.
type Generator struct {
	length int // Length of generated keys
}

// NewGenerator creates a new key generator with specified length
// Recommended length: 6-8 characters for good collision resistance
// - 6 chars = 62^6 = ~56 billion combinations
// - 8 chars = 62^8 = ~218 trillion combinations
func NewGenerator(length int) *Generator {
	if length < 4 {
		length = 6 // Minimum safe length
	}
	if length > 12 {
		length = 12 // Maximum reasonable length
	}

	return &Generator{
		length: length,
	}
}

// Generate creates a random document key using base62 encoding
// Uses crypto/rand for cryptographically secure random generation
func (g *Generator) Generate() string {
	result := make([]byte, g.length)

	for i := 0; i < g.length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(base62Chars))))
		if err != nil {
			// Fallback to a deterministic index if crypto/rand fails
			// This should rarely happen in practice
			num = big.NewInt(int64(i % len(base62Chars)))
		}

		result[i] = base62Chars[num.Int64()]
	}

	return string(result)
}

// IsValid checks if a key contains only base62 characters of the expected length
func (g *Generator) IsValid(key string) bool {
	if len(key) == 0 || len(key) > g.length {
		return false
	}

	for _, char := range key {
		found := false
		for _, validChar := range base62Chars {
			if char == validChar {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
