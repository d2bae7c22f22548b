package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigrated(t *testing.T) (ctx context.Context, path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "discover.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx = context.Background()
	require.NoError(t, Migrate(ctx, db, DialectSQLite))
	return ctx, path
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx, path := openMigrated(t)

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(ctx, db, DialectSQLite))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrateRejectsUnknownDialect(t *testing.T) {
	err := Migrate(context.Background(), nil, "postgres")
	require.Error(t, err)
}

func TestUniqueViolationIsDetected(t *testing.T) {
	ctx, path := openMigrated(t)
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	const q = `INSERT INTO users (id, email, created_at, updated_at) VALUES (?, ?, 0, 0)`
	_, err = db.ExecContext(ctx, q, "user_1", "a@example.com")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, q, "user_1", "b@example.com")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(nil))
}

func TestSplitStatements(t *testing.T) {
	script := `
-- comment
CREATE TABLE a (id INTEGER);

CREATE INDEX a_idx
    ON a (id);
`
	stmts := SplitStatements(script)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INTEGER)", stmts[0])
	assert.Contains(t, stmts[1], "ON a (id)")
}

func TestExtractUpMigration(t *testing.T) {
	got := ExtractUpMigration("-- +migrate Up\nCREATE TABLE x (id INT);\n-- +migrate Down\nDROP TABLE x;\n")
	assert.Contains(t, got, "CREATE TABLE x")
	assert.NotContains(t, got, "DROP TABLE")
}
