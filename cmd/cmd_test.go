package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/usermgmt/database"
	"github.com/blogem/usermgmt/models"
	"github.com/blogem/usermgmt/repositories"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsersList(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	out, err := runCLI(t, "users", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "FORENAME")
	assert.Contains(t, out, "Castor")
	assert.Contains(t, out, "rfeld@example.com")
}

func TestUsersList_Inactive(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	out, err := runCLI(t, "users", "list", "--inactive")
	require.NoError(t, err)

	assert.Contains(t, out, "Castor")
	assert.NotContains(t, out, "Peter")
}

func TestUsersList_ConflictingFlags(t *testing.T) {
	_, err := runCLI(t, "users", "list", "--active", "--inactive")

	assert.Error(t, err)
}

func TestLogsList_SQLite(t *testing.T) {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DATABASE_DSN", dsn)

	// keep the shared in-memory database alive between the two opens
	db, err := database.InitializeDatabase(dsn)
	require.NoError(t, err)
	defer db.Close()

	castor := int64(3)
	require.NoError(t, repositories.NewLogRepository(db).Create(context.Background(), &models.LogEntry{
		UserID:      &castor,
		Action:      models.ActionDeleted,
		Description: "User deleted: Castor Troy",
	}))

	out, err := runCLI(t, "logs", "list", "--user", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "User deleted: Castor Troy")
	assert.Equal(t, 1, strings.Count(out, "Deleted"))
}

func TestUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")

	_, err := runCLI(t, "users", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}
