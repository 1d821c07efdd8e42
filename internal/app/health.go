package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneauth/internal/pkg/router"
)

type healthResponse struct {
	router.Bare
	Message string `json:"message"`
}

func (a *App) health(r *router.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var kv []string
	if err := a.dbConn.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "health check failed", "dependency", "database", "error", err)
		kv = append(kv, "database", "unreachable")
	}
	if err := a.cacheConn.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "health check failed", "dependency", "redis", "error", err)
		kv = append(kv, "redis", "unreachable")
	}

	if len(kv) > 0 {
		return nil, goerror.NewBusiness("Service unavailable", goerror.CodeUnavailable, kv...)
	}

	return healthResponse{Message: "ok"}, nil
}
