package sqlstore

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Supported values of the database.driver setting.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Options configures Open.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// driverName maps a configured driver onto the database/sql driver name.
func driverName(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite", nil
	case DriverPostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the configured database, applies the pool settings and
// verifies the connection with a ping.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	name, err := driverName(opts.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(name, opts.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", opts.Driver)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s database", opts.Driver)
	}

	return db, nil
}

// Dialect returns the configured driver name (sqlite or postgres) for db.
func Dialect(db *sqlx.DB) string {
	if db.DriverName() == "pgx" {
		return DriverPostgres
	}
	return DriverSQLite
}

// utc normalizes a timestamp before it is written. PostgreSQL keeps
// microseconds, so finer precision is dropped for both dialects.
func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
