package models

import "time"

// Audit actions written by the user handlers
const (
	ActionCreated = "Created"
	ActionViewed  = "Viewed"
	ActionUpdated = "Updated"
	ActionDeleted = "Deleted"
)

// LogEntry represents a single audit entry. Entries are append-only.
type LogEntry struct {
	ID          int64     `json:"id" db:"id"`
	UserID      *int64    `json:"user_id,omitempty" db:"user_id"` // not enforced, may outlive the user
	Action      string    `json:"action" db:"action"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// GetID returns the record identity
func (l LogEntry) GetID() int64 { return l.ID }

// SetID assigns the record identity
func (l *LogEntry) SetID(id int64) { l.ID = id }

// Clone returns a copy that shares no pointers with l
func (l LogEntry) Clone() LogEntry {
	if l.UserID != nil {
		userID := *l.UserID
		l.UserID = &userID
	}
	return l
}

// LogListItem is the display projection of a log entry
type LogListItem struct {
	ID          int64
	UserID      *int64
	Action      string
	Description string
	CreatedAt   string
}

// NewLogListItem maps a log entry to its display projection
func NewLogListItem(l LogEntry) LogListItem {
	return LogListItem{
		ID:          l.ID,
		UserID:      l.UserID,
		Action:      l.Action,
		Description: l.Description,
		CreatedAt:   FormatDateTime(l.CreatedAt),
	}
}

// NewLogListItems maps a slice of log entries
func NewLogListItems(entries []LogEntry) []LogListItem {
	items := make([]LogListItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, NewLogListItem(e))
	}
	return items
}
