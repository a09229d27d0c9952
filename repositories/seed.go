package repositories

import (
	"context"
	"fmt"

	"github.com/blogem/usermgmt/models"
)

// SeedUsers returns the fixed sample users present at startup
func SeedUsers() []models.User {
	return []models.User{
		{ID: 1, Forename: "Peter", Surname: "Loew", Email: "ploew@example.com", IsActive: true},
		{ID: 2, Forename: "Benjamin Franklin", Surname: "Gates", Email: "bfgates@example.com", IsActive: true},
		{ID: 3, Forename: "Castor", Surname: "Troy", Email: "ctroy@example.com", IsActive: false},
		{ID: 4, Forename: "Memphis", Surname: "Raines", Email: "mraines@example.com", IsActive: true},
		{ID: 5, Forename: "Stanley", Surname: "Goodspeed", Email: "sgodspeed@example.com", IsActive: true},
		{ID: 6, Forename: "H.I.", Surname: "McDunnough", Email: "himcdunnough@example.com", IsActive: true},
		{ID: 7, Forename: "Cameron", Surname: "Poe", Email: "cpoe@example.com", IsActive: false},
		{ID: 8, Forename: "Edward", Surname: "Malus", Email: "emalus@example.com", IsActive: false},
		{ID: 9, Forename: "Damon", Surname: "Macready", Email: "dmacready@example.com", IsActive: false},
		{ID: 10, Forename: "Johnny", Surname: "Blaze", Email: "jblaze@example.com", IsActive: true},
		{ID: 11, Forename: "Robin", Surname: "Feld", Email: "rfeld@example.com", IsActive: true},
	}
}

// Seed inserts the sample users that are not present yet. It is safe to run
// against a file-backed database that was seeded before.
func Seed(ctx context.Context, users Store[models.User]) (int, error) {
	existing := make(map[int64]bool)
	for u, err := range users.QueryAll(ctx) {
		if err != nil {
			return 0, fmt.Errorf("failed to read existing users: %w", err)
		}
		existing[u.ID] = true
	}

	inserted := 0
	for _, u := range SeedUsers() {
		if existing[u.ID] {
			continue
		}
		if err := users.Create(ctx, &u); err != nil {
			return inserted, fmt.Errorf("failed to seed user %d: %w", u.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
