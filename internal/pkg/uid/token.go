package uid

import (
	"crypto/rand"
	"encoding/hex"
	"io"
)

// DefaultTokenBytes is the entropy of tokens from NewToken.
const DefaultTokenBytes = 32

// Token generates opaque hex-encoded random strings, used for refresh tokens.
type Token struct {
	size int
	src  io.Reader
}

// NewToken returns a generator reading size bytes from crypto/rand per token.
func NewToken(size int) *Token {
	if size <= 0 {
		size = DefaultTokenBytes
	}
	return &Token{size: size, src: rand.Reader}
}

// Generate returns a token of 2*size hex characters. It panics if the
// system random source fails, as crypto/rand.Read itself does.
func (t *Token) Generate() string {
	buf := make([]byte, t.size)
	if _, err := io.ReadFull(t.src, buf); err != nil {
		panic("uid: random source failed: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
