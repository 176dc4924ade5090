package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// PostgresURLEnv names the variable that switches tests onto PostgreSQL.
const PostgresURLEnv = "SCRY_TEST_DATABASE_URL"

// IsPostgresEnvironment reports whether a PostgreSQL test database is configured.
func IsPostgresEnvironment() bool {
	return os.Getenv(PostgresURLEnv) != ""
}

// SQLiteMemoryDSN returns a DSN for a fresh, uniquely named in-memory SQLite
// database with foreign keys enforced.
func SQLiteMemoryDSN() string {
	return fmt.Sprintf(
		"file:test-%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite",
		uuid.NewString(),
	)
}

// Open returns a migrated database closed automatically when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	if IsPostgresEnvironment() {
		return open(t, sqlstore.Options{
			Driver:       sqlstore.DriverPostgres,
			DSN:          os.Getenv(PostgresURLEnv),
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		})
	}
	return OpenSQLite(t)
}

// OpenSQLite returns a migrated private in-memory SQLite database. It is
// limited to one connection, so code under test must not use the pool
// while it holds a transaction.
func OpenSQLite(t testing.TB) *sqlx.DB {
	t.Helper()
	return open(t, sqlstore.Options{
		Driver:       sqlstore.DriverSQLite,
		DSN:          SQLiteMemoryDSN(),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
}

func open(t testing.TB, opts sqlstore.Options) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, opts)
	require.NoError(t, err, "failed to open %s test database", opts.Driver)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.Migrate(ctx, db, nil), "failed to migrate test database")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t testing.TB, db *sqlx.DB, fn func(tx *sqlx.Tx)) {
	t.Helper()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(tx)
}
