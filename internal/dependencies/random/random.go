package random

import (
	"crypto/rand"
	"math/big"
)

const (
	// SeedAlphabet is the character set used for deck seeds and game IDs
	SeedAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	SeedLength   = 16
	IDLength     = 12
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// NewSeed returns a fresh deck seed
func NewSeed(r Random) string {
	return r.String(SeedLength, SeedAlphabet)
}

// NewID returns a fresh short identifier
func NewID(r Random) string {
	return r.String(IDLength, SeedAlphabet)
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// String generates a random string of the given length from the given alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
