package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/blogem/usermgmt/metrics"
	"github.com/blogem/usermgmt/models"
	"github.com/blogem/usermgmt/repositories"
)

// Default page sizes for log queries
const (
	DefaultLogTake     = 50
	DefaultUserLogTake = 100
)

// LogService interface defines audit log business logic
type LogService interface {
	GetAll(ctx context.Context, skip, take int) ([]models.LogEntry, error)
	GetByUser(ctx context.Context, userID int64, skip, take int) ([]models.LogEntry, error)
	GetByID(ctx context.Context, id int64) (*models.LogEntry, error)
	Log(ctx context.Context, action, description string, userID *int64) (*models.LogEntry, error)
}

// logService implements LogService interface
type logService struct {
	store repositories.Store[models.LogEntry]
	now   func() time.Time
}

// LogServiceOption configures a log service
type LogServiceOption func(*logService)

// WithClock overrides the clock used to stamp new entries
func WithClock(now func() time.Time) LogServiceOption {
	return func(s *logService) {
		s.now = now
	}
}

// NewLogService creates a new log service
func NewLogService(store repositories.Store[models.LogEntry], opts ...LogServiceOption) LogService {
	s := &logService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns entries newest first, skipping skip and returning up to take
func (s *logService) GetAll(ctx context.Context, skip, take int) ([]models.LogEntry, error) {
	entries, err := s.recent(ctx, nil, skip, normalizeTake(take, DefaultLogTake))
	if err != nil {
		return nil, fmt.Errorf("failed to get log entries: %w", err)
	}
	return entries, nil
}

// GetByUser returns entries referencing userID, newest first
func (s *logService) GetByUser(ctx context.Context, userID int64, skip, take int) ([]models.LogEntry, error) {
	entries, err := s.recent(ctx, &userID, skip, normalizeTake(take, DefaultUserLogTake))
	if err != nil {
		return nil, fmt.Errorf("failed to get log entries for user %d: %w", userID, err)
	}
	return entries, nil
}

// GetByID returns one entry or repositories.ErrNotFound
func (s *logService) GetByID(ctx context.Context, id int64) (*models.LogEntry, error) {
	entry, err := repositories.Find(s.store.QueryAll(ctx), func(e models.LogEntry) bool {
		return e.ID == id
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("log entry with ID %d: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log entry: %w", err)
	}
	return entry, nil
}

// Log appends a new entry stamped with the current UTC time
func (s *logService) Log(ctx context.Context, action, description string, userID *int64) (*models.LogEntry, error) {
	entry := &models.LogEntry{
		UserID:      userID,
		Action:      action,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write log entry: %w", err)
	}

	metrics.IncAuditEntries(action)
	return entry, nil
}

// recent pages entries newest first. Stores that can page themselves do so;
// otherwise the full set is ordered in memory.
func (s *logService) recent(ctx context.Context, userID *int64, skip, take int) ([]models.LogEntry, error) {
	if skip < 0 {
		skip = 0
	}

	if pager, ok := s.store.(repositories.LogPager); ok {
		return pager.Recent(ctx, userID, skip, take)
	}

	seq := s.store.QueryAll(ctx)
	if userID != nil {
		seq = repositories.Filter(seq, func(e models.LogEntry) bool {
			return e.UserID != nil && *e.UserID == *userID
		})
	}

	entries, err := repositories.Collect(seq)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})

	if skip >= len(entries) {
		return []models.LogEntry{}, nil
	}
	entries = entries[skip:]
	if len(entries) > take {
		entries = entries[:take]
	}
	return entries, nil
}

func normalizeTake(take, fallback int) int {
	if take <= 0 {
		return fallback
	}
	return take
}
