// Package migration applies the embedded SQL schema with golang-migrate.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var files embed.FS

// Direction selects which way migrations run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ErrInvalidDirection is returned for anything other than Up or Down.
var ErrInvalidDirection = errors.New("migration: direction must be up or down")

// ParseDirection validates a direction given on the command line.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down:
		return d, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidDirection, s)
	}
}

// Run migrates the database behind pool all the way in dir. Being already
// at the target version is not an error.
func Run(pool *pgxpool.Pool, dir Direction) error {
	if _, err := ParseDirection(string(dir)); err != nil {
		return err
	}

	src, err := iofs.New(files, "migrations")
	if err != nil {
		return fmt.Errorf("migration: source: %w", err)
	}

	// closing the migrator closes db, which leaves the pool open
	db := stdlib.OpenDBFromPool(pool)

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return errors.Join(fmt.Errorf("migration: driver: %w", err), db.Close())
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return errors.Join(fmt.Errorf("migration: init: %w", err), db.Close())
	}
	defer func() { _, _ = m.Close() }()

	if dir == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %s: %w", dir, err)
	}

	return nil
}
