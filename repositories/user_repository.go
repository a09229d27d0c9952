package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/mattn/go-sqlite3"

	"github.com/blogem/usermgmt/models"
)

// sqliteUserStore implements Store[models.User] on top of SQLite
type sqliteUserStore struct {
	db *sql.DB
}

// NewUserRepository creates a SQLite-backed user store
func NewUserRepository(db *sql.DB) Store[models.User] {
	return &sqliteUserStore{db: db}
}

// QueryAll streams users in insertion (id) order
func (r *sqliteUserStore) QueryAll(ctx context.Context) iter.Seq2[models.User, error] {
	return func(yield func(models.User, error) bool) {
		query := `
			SELECT id, forename, surname, email, is_active, date_of_birth
			FROM users
			ORDER BY id ASC
		`

		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			yield(models.User{}, storageError("failed to query users", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var user models.User
			var dob sql.NullString

			if err := rows.Scan(
				&user.ID,
				&user.Forename,
				&user.Surname,
				&user.Email,
				&user.IsActive,
				&dob,
			); err != nil {
				yield(models.User{}, storageError("failed to scan user", err))
				return
			}

			// Convert NULL to nil
			if dob.Valid {
				if t, err := models.ParseDate(dob.String); err == nil {
					user.DateOfBirth = &t
				}
			}

			if !yield(user, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.User{}, storageError("error iterating users", err))
		}
	}
}

// Create inserts a user, keeping a preset id when one is given
func (r *sqliteUserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, forename, surname, email, is_active, date_of_birth)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if user.ID != 0 {
		exists, err := r.exists(ctx, user.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("user with ID %d: %w", user.ID, ErrDuplicate)
		}
	}

	result, err := r.db.ExecContext(ctx, query,
		nullableID(user.ID),
		user.Forename,
		user.Surname,
		user.Email,
		user.IsActive,
		nullableDate(user),
	)
	if isUniqueViolation(err) {
		// another writer took the id between the check and the insert
		return fmt.Errorf("user with ID %d: %w", user.ID, ErrDuplicate)
	}
	if err != nil {
		return storageError("failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return storageError("failed to get inserted ID", err)
	}

	user.ID = id
	return nil
}

// Update overwrites every column of an existing user
func (r *sqliteUserStore) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET forename = ?, surname = ?, email = ?, is_active = ?, date_of_birth = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Forename,
		user.Surname,
		user.Email,
		user.IsActive,
		nullableDate(user),
		user.ID,
	)
	if err != nil {
		return storageError("failed to update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with ID %d: %w", user.ID, ErrNotFound)
	}

	return nil
}

// Remove deletes a user by id. Log entries referencing the user are kept.
func (r *sqliteUserStore) Remove(ctx context.Context, user *models.User) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, user.ID); err != nil {
		return storageError("failed to delete user", err)
	}
	return nil
}

func (r *sqliteUserStore) exists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&count); err != nil {
		return false, storageError("failed to check user", err)
	}
	return count > 0, nil
}

func nullableDate(user *models.User) sql.NullString {
	if user.DateOfBirth == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: models.FormatDate(*user.DateOfBirth), Valid: true}
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// isUniqueViolation reports whether err is a SQLite primary key or unique constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func storageError(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrStorage, err)
}
