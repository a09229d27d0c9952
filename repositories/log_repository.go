package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"github.com/blogem/usermgmt/models"
)

// sqliteLogStore implements Store[models.LogEntry] and LogPager on SQLite
type sqliteLogStore struct {
	db *sql.DB
}

// NewLogRepository creates a SQLite-backed log store
func NewLogRepository(db *sql.DB) Store[models.LogEntry] {
	return &sqliteLogStore{db: db}
}

const logColumns = `id, user_id, action, description, created_at`

// QueryAll streams log entries in insertion (id) order
func (r *sqliteLogStore) QueryAll(ctx context.Context) iter.Seq2[models.LogEntry, error] {
	return func(yield func(models.LogEntry, error) bool) {
		rows, err := r.db.QueryContext(ctx, `SELECT `+logColumns+` FROM log_entries ORDER BY id ASC`)
		if err != nil {
			yield(models.LogEntry{}, storageError("failed to query log entries", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanLogEntry(rows)
			if err != nil {
				yield(models.LogEntry{}, err)
				return
			}
			if !yield(entry, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.LogEntry{}, storageError("error iterating log entries", err))
		}
	}
}

// Recent returns entries newest first, filtered by user when userID is set
func (r *sqliteLogStore) Recent(ctx context.Context, userID *int64, skip, take int) ([]models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM log_entries`
	args := []any{}
	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, take, skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query recent log entries", err)
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		entry, err := scanLogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating recent log entries", err)
	}

	return entries, nil
}

// Create appends a log entry
func (r *sqliteLogStore) Create(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO log_entries (user_id, action, description, created_at)
		VALUES (?, ?, ?, ?)
	`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var userID sql.NullInt64
	if entry.UserID != nil {
		userID = sql.NullInt64{Int64: *entry.UserID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		userID,
		entry.Action,
		sql.NullString{String: entry.Description, Valid: entry.Description != ""},
		entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return storageError("failed to create log entry", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return storageError("failed to get inserted ID", err)
	}

	entry.ID = id
	return nil
}

// Update is supported for completeness; the application never edits entries
func (r *sqliteLogStore) Update(ctx context.Context, entry *models.LogEntry) error {
	var userID sql.NullInt64
	if entry.UserID != nil {
		userID = sql.NullInt64{Int64: *entry.UserID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE log_entries SET user_id = ?, action = ?, description = ?, created_at = ? WHERE id = ?`,
		userID,
		entry.Action,
		sql.NullString{String: entry.Description, Valid: entry.Description != ""},
		entry.CreatedAt.UnixNano(),
		entry.ID,
	)
	if err != nil {
		return storageError("failed to update log entry", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("log entry with ID %d: %w", entry.ID, ErrNotFound)
	}
	return nil
}

// Remove deletes a log entry by id
func (r *sqliteLogStore) Remove(ctx context.Context, entry *models.LogEntry) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM log_entries WHERE id = ?`, entry.ID); err != nil {
		return storageError("failed to delete log entry", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLogEntry(row rowScanner) (models.LogEntry, error) {
	var entry models.LogEntry
	var userID sql.NullInt64
	var description sql.NullString
	var createdAt int64

	if err := row.Scan(&entry.ID, &userID, &entry.Action, &description, &createdAt); err != nil {
		return models.LogEntry{}, storageError("failed to scan log entry", err)
	}

	// Convert NULL values to nil/empty
	if userID.Valid {
		id := userID.Int64
		entry.UserID = &id
	}
	if description.Valid {
		entry.Description = description.String
	}
	entry.CreatedAt = time.Unix(0, createdAt).UTC()

	return entry, nil
}
