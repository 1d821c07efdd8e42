package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/phoneauth/internal/identity"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.identity.enabled") {
		slog.Warn("module identity is disabled")
		return
	}

	if err := identity.New(identity.Dependency{
		DBConn:         a.dbConn,
		Goroutine:      a.goroutine,
		Router:         a.router,
		Messaging:      a.messaging,
		SMS:            a.sms,
		RequestLimiter: a.requestLimiter,
		VerifyLimiter:  a.verifyLimiter,
		Config:         a.config,
		Instrument:     a.ins,
		UID:            a.uid,
		Token:          a.token,
		HMAC:           a.hmac,
		OTP:            a.otp,
		Clock:          a.clock,
		Validator:      a.validator,
		JWT:            a.jwt,
	}); err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}
}
