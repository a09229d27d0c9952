package database

import (
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryDSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

func TestLoadMigrations_SortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/010_later.sql":  {Data: []byte("SELECT 10;")},
		"m/002_second.sql": {Data: []byte("SELECT 2;")},
		"m/001_first.sql":  {Data: []byte("SELECT 1;")},
		"m/README.md":      {Data: []byte("ignored")},
	}

	migrations, err := loadMigrations(fsys, "m")
	require.NoError(t, err)

	versions := []string{}
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}
	assert.Equal(t, []string{"001_first", "002_second", "010_later"}, versions)
	assert.Equal(t, "SELECT 2;", migrations[1].SQL)
}

func TestLoadMigrations_EmptyDir(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{}, "m")
	assert.Error(t, err)
}

func TestInitializeDatabase_CreatesSchema(t *testing.T) {
	db, err := InitializeDatabase(memoryDSN())
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "log_entries", "migrations"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	db, err := InitializeDatabase(memoryDSN())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))

	applied, err := getAppliedMigrations(db)
	require.NoError(t, err)
	assert.True(t, applied["001_create_users"])
	assert.True(t, applied["002_create_log_entries"])
	assert.Len(t, applied, 2)
}
