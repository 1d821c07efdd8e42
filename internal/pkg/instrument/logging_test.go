package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	buf.Reset()

	return out
}

func TestNewLogger_Masking(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LogOptions{
		ServiceName: "phoneauth",
		MaskFields:  []string{"code", "refresh"},
		PhoneFields: []string{"phone_number"},
	}, nil)

	ctx := SetCorrelationID(context.Background(), "cid-1")
	log.InfoContext(ctx, "verify",
		"code", 123456,
		"phone_number", "09123456789",
		"body", `{"phone_number":"09123456789","code":111111,"nested":{"refresh":"abc"}}`,
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "***", line["code"])
	assert.Equal(t, "0912***6789", line["phone_number"])
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "phoneauth", line["service"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(line["body"].(string)), &body))
	assert.Equal(t, "***", body["code"])
	assert.Equal(t, "0912***6789", body["phone_number"])
	assert.Equal(t, "***", body["nested"].(map[string]any)["refresh"])
}

func TestNewLogger_WithAttrsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LogOptions{Level: "warn", MaskFields: []string{"token"}}, nil)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.With("token", "secret").Warn("kept", slog.Group("req", "token", "x"))
	line := decodeLine(t, &buf)
	assert.Equal(t, "***", line["token"])
	assert.Equal(t, "***", line["req"].(map[string]any)["token"])
	assert.NotContains(t, line, "_cID")
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "x", GetCorrelationID(SetCorrelationID(context.Background(), "x")))
}

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), &Config{ServiceName: "test"})
	require.NoError(t, err)
	assert.NoError(t, ins.Shutdown(context.Background()))
	assert.NotNil(t, ins.Tracer("t"))
	assert.NotNil(t, ins.Meter("m"))
}
