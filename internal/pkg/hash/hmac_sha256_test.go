package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHMACSHA256(t *testing.T) {
	_, err := NewHMACSHA256("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestHMACSHA256_HashVerify(t *testing.T) {
	h, err := NewHMACSHA256("top-secret")
	require.NoError(t, err)

	d1, err := h.Hash("123456")
	require.NoError(t, err)
	d2, err := h.Hash("123456")
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
	assert.NotContains(t, string(d1), "123456")

	assert.True(t, h.Verify(string(d1), "123456"))
	assert.False(t, h.Verify(string(d1), "123457"))
	assert.False(t, h.Verify("", "123456"))

	other, err := NewHMACSHA256("another-secret")
	require.NoError(t, err)
	assert.False(t, other.Verify(string(d1), "123456"))
}
