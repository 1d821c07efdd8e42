package instrument

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExporters(t *testing.T) {
	ctx := context.Background()

	// the grpc exporters connect lazily, so nothing has to listen here
	te, me, le, err := newExporters(ctx, &Config{OTLPEndpoint: "127.0.0.1:4317"})
	require.NoError(t, err)
	assert.NotNil(t, te)
	assert.NotNil(t, me)
	assert.NotNil(t, le)

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = te.Shutdown(ctx)
	_ = me.Shutdown(ctx)
	_ = le.Shutdown(ctx)
}
