package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

const (
	// Min is the smallest code that can be issued.
	Min = 100000
	// Max is the largest code that can be issued.
	Max = 999999
)

var span = big.NewInt(Max - Min + 1)

// Generator produces one-time codes.
type Generator interface {
	Generate() (int, error)
}

// Random draws codes from a cryptographic byte stream.
type Random struct {
	src io.Reader
}

// NewRandom returns a Random backed by crypto/rand.
func NewRandom() *Random {
	return &Random{src: rand.Reader}
}

// NewRandomFrom returns a Random reading from src. Intended for tests.
func NewRandomFrom(src io.Reader) *Random {
	return &Random{src: src}
}

// Generate returns a code in [Min, Max].
func (g *Random) Generate() (int, error) {
	n, err := rand.Int(g.src, span)
	if err != nil {
		return 0, fmt.Errorf("otp: read random source: %w", err)
	}

	return Min + int(n.Int64()), nil
}

// Valid reports whether code lies in the issuable range.
func Valid(code int) bool {
	return code >= Min && code <= Max
}

// Format renders code the way it is sent to the gateway and hashed for storage.
func Format(code int) string {
	return strconv.Itoa(code)
}
