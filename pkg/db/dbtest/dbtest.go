// Package dbtest opens throwaway SQLite databases carrying the production schema.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/goupromo/goupromo-backend/pkg/config"
	"github.com/goupromo/goupromo-backend/pkg/db"
	"github.com/goupromo/goupromo-backend/pkg/migrate"
)

// Open returns a client over a private in-memory SQLite database with every
// migration applied. The database disappears when the test finishes.
func Open(t testing.TB) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	return open(t, config.DBConfig{
		DSN:          dsn,
		Driver:       config.DBDriverSQLite,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
}

// OpenPooled returns a client over a SQLite file in a temp dir with up to
// conns open connections, for tests that race writers against each other.
// Writers queue on the database lock instead of failing with SQLITE_BUSY.
func OpenPooled(t testing.TB, conns int) *db.Client {
	t.Helper()

	path := filepath.Join(t.TempDir(), "goupromo.db")
	return open(t, config.DBConfig{
		DSN:          fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate", path),
		Driver:       config.DBDriverSQLite,
		MaxOpenConns: conns,
		MaxIdleConns: conns,
	})
}

func open(t testing.TB, cfg config.DBConfig) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQLDB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Up(context.Background(), sqlDB, config.DBDriverSQLite); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return client
}
