package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, name string) *DB {
	t.Helper()

	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: ProfileCache,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBuildConnectionString(t *testing.T) {
	cache := buildConnectionString("/tmp/prices.db", ProfileCache)
	assert.True(t, strings.HasPrefix(cache, "/tmp/prices.db?_pragma=journal_mode(WAL)"))
	assert.Contains(t, cache, "&_pragma=synchronous(OFF)")
	assert.Equal(t, 1, strings.Count(cache, "?"))

	standard := buildConnectionString("/tmp/other.db", ProfileStandard)
	assert.Contains(t, standard, "&_pragma=synchronous(NORMAL)")
}

func TestMigrate_CreatesPriceCache(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "prices")

	require.NoError(t, db.Migrate(ctx))
	// idempotent
	require.NoError(t, db.Migrate(ctx))

	var name string
	err := db.Conn().QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='price_cache'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "price_cache", name)
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db := newTestDB(t, "scratch")
	assert.NoError(t, db.Migrate(context.Background()))
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "scratch")
	_, err := db.Conn().ExecContext(ctx, "CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)

	count := func() int {
		var n int
		require.NoError(t, db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n))
		return n
	}

	err = WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO t (v) VALUES (1)")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count())

	boom := errors.New("boom")
	err = WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
		_, _ = tx.ExecContext(ctx, "INSERT INTO t (v) VALUES (2)")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, count())

	err = WithTransaction(ctx, db.Conn(), func(tx *sql.Tx) error {
		panic("bad")
	})
	assert.ErrorContains(t, err, "panic in transaction")

	assert.Error(t, WithTransaction(ctx, nil, func(*sql.Tx) error { return nil }))
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "prices")
	require.NoError(t, db.Migrate(ctx))

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))

	assert.NoError(t, db.QuickCheck(ctx))
	assert.NoError(t, db.Vacuum(ctx))
}
