package postgres

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationResult describes the schema state after Migrate.
type MigrationResult struct {
	Version uint
	Dirty   bool
	Changed bool
}

// Migrate applies the migrations in dir to the database at dsn. Direction is
// "up" or "down"; steps of 0 runs every pending migration.
//
// Precondition: dir holds golang-migrate NNNNNN_name.{up,down}.sql files.
// Postcondition: Returns the resulting version; no pending change is not an error.
func Migrate(dsn, dir, direction string, steps int) (MigrationResult, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("resolving migrations dir %q: %w", dir, err)
	}
	m, err := migrate.New("file://"+filepath.ToSlash(abs), dsn)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	default:
		return MigrationResult{}, fmt.Errorf("invalid direction %q: must be 'up' or 'down'", direction)
	}

	res := MigrationResult{Changed: !errors.Is(err, migrate.ErrNoChange)}
	if err != nil && res.Changed {
		return res, fmt.Errorf("migrating %s: %w", direction, err)
	}
	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return res, fmt.Errorf("reading version: %w", verr)
	}
	res.Version, res.Dirty = version, dirty
	return res, nil
}
