package repositories

import (
	"database/sql"

	"github.com/blogem/usermgmt/models"
)

// Repositories struct holds one store per entity type
type Repositories struct {
	Users Store[models.User]
	Logs  Store[models.LogEntry]
}

// NewRepositories creates SQLite-backed stores sharing one database
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users: NewUserRepository(db),
		Logs:  NewLogRepository(db),
	}
}

// NewMemoryRepositories creates process-local in-memory stores
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Users: NewMemoryStore[models.User](),
		Logs:  NewMemoryStore[models.LogEntry](),
	}
}
