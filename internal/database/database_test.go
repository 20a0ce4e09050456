package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/isdelr/ender-auth-be/internal/models"
	"github.com/isdelr/ender-auth-be/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url        string
		wantDriver Driver
		wantDSN    string
	}{
		{"mongodb://localhost:27017", DriverMongo, "mongodb://localhost:27017"},
		{"mongodb+srv://cluster.example.net/auth", DriverMongo, "mongodb+srv://cluster.example.net/auth"},
		{"sqlite://./auth.db", DriverSQLite, "./auth.db"},
		{"sqlite://:memory:", DriverSQLite, ":memory:"},
		{"/var/lib/auth/auth.db", DriverSQLite, "/var/lib/auth/auth.db"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, dsn := ParseURL(tt.url)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestOpen_SQLiteMemory(t *testing.T) {
	ctx := context.Background()
	users, closeFn, err := Open(ctx, "sqlite://:memory:", "auth", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { closeFn(ctx) })

	_, ok := users.(*store.SQLiteStore)
	require.True(t, ok)

	created, err := users.Insert(ctx, models.User{Name: "Test User", Email: "test@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	found, err := users.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestOpen_SQLiteFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "auth.db")

	users, closeFn, err := Open(ctx, "sqlite://"+path, "auth", zerolog.Nop())
	require.NoError(t, err)
	_, err = users.Insert(ctx, models.User{Name: "Test User", Email: "test@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, closeFn(ctx))

	// migrations must be a no-op the second time around
	users, closeFn, err = Open(ctx, path, "auth", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { closeFn(ctx) })

	all, err := users.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "test@example.com", all[0].Email)
}

func TestMigrate_EnforcesUniqueEmail(t *testing.T) {
	db, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db))

	_, err = db.Exec(`INSERT INTO users(id, name, email, password_hash, created_at) VALUES('1', 'A', 'a@b.io', 'h', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users(id, name, email, password_hash, created_at) VALUES('2', 'B', 'a@b.io', 'h', CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "auth.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("auth.db"))
	assert.Equal(t, "auth.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("auth.db?mode=rwc"))
}

func TestOpen_SQLiteWithQuery(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "auth.db")

	users, closeFn, err := Open(ctx, "sqlite://"+path+"?mode=rwc", "auth", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { closeFn(ctx) })

	_, err = users.Insert(ctx, models.User{Name: "Test User", Email: "test@example.com", PasswordHash: "h"})
	require.NoError(t, err)
}
