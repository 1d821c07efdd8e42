// Command migrate applies the embedded schema to the database in DATABASE_URL
// (or PHONEAUTH_DATABASE_URL).
//
//	migrate up
//	migrate down
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/phoneauth/internal/pkg/migration"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	arg := "up"
	if len(os.Args) > 1 {
		arg = os.Args[1]
	}

	dir, err := migration.ParseDirection(arg)
	if err != nil {
		logger.Error("invalid argument", "error", err)
		os.Exit(2)
	}

	url := os.Getenv("PHONEAUTH_DATABASE_URL")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		logger.Error("database url is required, set PHONEAUTH_DATABASE_URL or DATABASE_URL")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		logger.Error("failed to connect DB", "error", err)
		os.Exit(1)
	}

	err = migration.Run(pool, dir)
	pool.Close()
	if err != nil {
		logger.Error("failed to migrate", "direction", string(dir), "error", err)
		os.Exit(1)
	}

	logger.Info("migration finished", "direction", string(dir))
}
