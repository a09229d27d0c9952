package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/blogem/usermgmt/config"
	"github.com/blogem/usermgmt/database"
	"github.com/blogem/usermgmt/repositories"
	"github.com/blogem/usermgmt/services"
)

// app holds the wiring shared by every command
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sql.DB
	services *services.Services
}

// newApp loads configuration, opens the configured store backend and seeds
// the sample users
func newApp(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg)

	a := &app{cfg: cfg, logger: logger}

	var repos *repositories.Repositories
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := database.InitializeDatabase(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db
		repos = repositories.NewRepositories(db)
	default:
		repos = repositories.NewMemoryRepositories()
	}

	seeded, err := repositories.Seed(ctx, repos.Users)
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Debug("seeded users", slog.Int("inserted", seeded), slog.String("backend", cfg.StoreBackend))

	a.services = services.NewServices(repos)
	return a, nil
}

// Close releases the database, if one was opened
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
