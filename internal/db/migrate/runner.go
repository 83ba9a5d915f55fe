// Package migrate applies the embedded roster schema migrations using golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"ics-roster/internal/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ErrNoChange is returned when Up/Down has nothing to do (already at target version).
var ErrNoChange = migrate.ErrNoChange

// ErrMissingDSN is returned when no database URL is configured.
var ErrMissingDSN = errors.New("DATABASE_URL is not set; create a .env or set DATABASE_URL")

// Direction is the migration direction accepted by Run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection validates s as a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("direction must be up or down, got %q", s)
}

// Run applies migrations in the given direction using the provided DSN. Returns nil on
// success and when already at the target version.
func Run(dsn string, direction string) error {
	if dsn == "" {
		return ErrMissingDSN
	}
	d, err := ParseDirection(direction)
	if err != nil {
		return err
	}

	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	switch d {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version returns the currently applied schema version and whether it is dirty.
// A database with no migrations applied returns version 0.
func Version(dsn string) (uint, bool, error) {
	if dsn == "" {
		return 0, false, ErrMissingDSN
	}
	m, err := newMigrator(dsn)
	if err != nil {
		return 0, false, err
	}
	defer func() { _, _ = m.Close() }()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func newMigrator(dsn string) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return m, nil
}
