package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(`
app:
  server:
    cors: "https://a.example, https://b.example,,"
modules:
  identity:
    otp_max_attempts: 5
sms:
  headers: "x-api:abc, x-tenant:one"
instrument:
  log_mask_fields:
    - code
    - token
`))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.GetInt("modules.identity.otp_max_attempts"))
	assert.Equal(t, 5*time.Minute, cfg.GetMinute("modules.identity.otp_expiry_minutes"))
	assert.Equal(t, 15*time.Minute, cfg.GetMinute("modules.identity.otp_lock_minutes"))
	assert.Equal(t, 7*24*time.Hour, cfg.GetDay("modules.identity.refresh_token_ttl_days"))
	assert.Equal(t, "first-log", cfg.GetString("sms.templates.welcome"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, []string{"code", "token"}, cfg.GetArray("instrument.log_mask_fields"))
	assert.Equal(t, map[string]string{"x-api": "abc", "x-tenant": "one"}, cfg.GetMap("sms.headers"))
	assert.Empty(t, cfg.GetArray("missing.key"))
	assert.NoError(t, cfg.Close())
}

func TestNewViperFromBytes_EnvOverride(t *testing.T) {
	t.Setenv("PHONEAUTH_MODULES_IDENTITY_OTP_LOCK_MINUTES", "30")

	cfg, err := NewViperFromBytes("yaml", []byte("modules: {}"))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.GetMinute("modules.identity.otp_lock_minutes"))
}

func TestNewViperFromBytes_Errors(t *testing.T) {
	_, err := NewViperFromBytes(" ", nil)
	require.ErrorIs(t, err, ErrConfigTypeRequired)

	_, err = NewViperFromBytes("yaml", []byte("a: [unterminated"))
	require.Error(t, err)
}
