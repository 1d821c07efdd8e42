package uid

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_Generate(t *testing.T) {
	s, err := NewSnowflake(1)
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	prev := int64(0)
	for range 1000 {
		id := s.Generate()
		assert.Greater(t, id, prev)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
		prev = id
	}
}

func TestNewSnowflake(t *testing.T) {
	_, err := NewSnowflake(4096)
	assert.Error(t, err)

	s, err := NewSnowflake(-1)
	require.NoError(t, err)
	assert.NotZero(t, s.Generate())
}

func TestUUID_Generate(t *testing.T) {
	id, err := uuid.Parse(NewUUID().Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestToken_Generate(t *testing.T) {
	tok := NewToken(0)
	a, b := tok.Generate(), tok.Generate()
	assert.Len(t, a, 2*DefaultTokenBytes)
	assert.NotEqual(t, a, b)

	fixed := &Token{size: 4, src: bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef})}
	assert.Equal(t, "deadbeef", fixed.Generate())
	assert.Panics(t, func() { fixed.Generate() })
}
