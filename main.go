package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/app"
)

// @title           Phone Auth API
// @version         1.0
// @description     Passwordless sign-in with one-time codes sent by SMS, plus session and profile management.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	wait := application.Start()
	<-wait
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx)
}
