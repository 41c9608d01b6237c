package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitedb "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"wordquiz/migrations"
)

// Dialect names the SQL flavour used for migrations
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DialectFor maps a database/sql driver name to its migration dialect
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return DialectPostgres, nil
	case "sqlite3":
		return DialectSQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// Migrate applies all pending migrations. It returns migrate.ErrNoChange
// when the schema is already up to date.
func Migrate(db *sql.DB, dialect Dialect) error {
	src, err := iofs.New(migrations.FS, string(dialect))
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	var driver database.Driver
	switch dialect {
	case DialectPostgres:
		driver, err = postgresdb.WithInstance(db, &postgresdb.Config{})
	case DialectSQLite:
		driver, err = sqlitedb.WithInstance(db, &sqlitedb.Config{})
	default:
		err = fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
