package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blogem/usermgmt/models"
	"github.com/blogem/usermgmt/repositories"
	"github.com/blogem/usermgmt/repositories/mocks"
)

// tickingClock returns strictly increasing timestamps one second apart
func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newMemoryLogService(t *testing.T) LogService {
	t.Helper()
	store := repositories.NewMemoryStore[models.LogEntry]()
	return NewLogService(store, WithClock(tickingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))
}

func int64Ptr(v int64) *int64 { return &v }

func TestLogService_LogStampsUTC(t *testing.T) {
	ctx := context.Background()
	local := time.FixedZone("CEST", 2*60*60)
	service := NewLogService(repositories.NewMemoryStore[models.LogEntry](), WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, local)
	}))

	entry, err := service.Log(ctx, models.ActionCreated, "User created: Ada Lovelace", int64Ptr(12))

	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Equal(t, time.UTC, entry.CreatedAt.Location())
	assert.Equal(t, 10, entry.CreatedAt.Hour())
}

func TestLogService_GetAllOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	service := newMemoryLogService(t)

	for i := 0; i < 10; i++ {
		_, err := service.Log(ctx, models.ActionViewed, "", nil)
		require.NoError(t, err)
	}

	entries, err := service.GetAll(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 10)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].CreatedAt.After(entries[i].CreatedAt))
	}
}

func TestLogService_PagingReconstructsFullSequence(t *testing.T) {
	ctx := context.Background()
	service := newMemoryLogService(t)

	for i := 0; i < 23; i++ {
		_, err := service.Log(ctx, models.ActionViewed, "", int64Ptr(int64(i%3)))
		require.NoError(t, err)
	}

	full, err := service.GetAll(ctx, 0, 1000)
	require.NoError(t, err)
	require.Len(t, full, 23)

	for _, take := range []int{1, 4, 5, 23, 50} {
		var paged []models.LogEntry
		for skip := 0; ; skip += take {
			page, err := service.GetAll(ctx, skip, take)
			require.NoError(t, err)
			if len(page) == 0 {
				break
			}
			paged = append(paged, page...)
		}
		assert.Equal(t, full, paged, "take=%d", take)
	}
}

func TestLogService_Defaults(t *testing.T) {
	ctx := context.Background()
	service := newMemoryLogService(t)

	for i := 0; i < 120; i++ {
		_, err := service.Log(ctx, models.ActionViewed, "", int64Ptr(1))
		require.NoError(t, err)
	}

	all, err := service.GetAll(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, DefaultLogTake)

	byUser, err := service.GetByUser(ctx, 1, -5, 0)
	require.NoError(t, err)
	assert.Len(t, byUser, DefaultUserLogTake)
}

func TestLogService_GetByUserFilters(t *testing.T) {
	ctx := context.Background()
	service := newMemoryLogService(t)

	_, err := service.Log(ctx, models.ActionCreated, "a", int64Ptr(1))
	require.NoError(t, err)
	_, err = service.Log(ctx, models.ActionViewed, "b", int64Ptr(2))
	require.NoError(t, err)
	_, err = service.Log(ctx, "System", "no user", nil)
	require.NoError(t, err)
	_, err = service.Log(ctx, models.ActionUpdated, "c", int64Ptr(1))
	require.NoError(t, err)

	entries, err := service.GetByUser(ctx, 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Description)
	assert.Equal(t, "a", entries[1].Description)

	entries, err = service.GetByUser(ctx, 1, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLogService_GetByID(t *testing.T) {
	ctx := context.Background()
	service := newMemoryLogService(t)

	written, err := service.Log(ctx, models.ActionDeleted, "User deleted: Castor Troy", int64Ptr(3))
	require.NoError(t, err)

	got, err := service.GetByID(ctx, written.ID)
	require.NoError(t, err)
	assert.Equal(t, written, got)

	_, err = service.GetByID(ctx, written.ID+1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestLogService_DelegatesPagingToStore(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockLogPagerStore(t)
	expected := []models.LogEntry{{ID: 5, Action: models.ActionViewed}}
	store.On("Recent", ctx, mock.MatchedBy(func(id *int64) bool { return id != nil && *id == 3 }), 10, 5).
		Return(expected, nil)

	service := NewLogService(store)
	entries, err := service.GetByUser(ctx, 3, 10, 5)

	require.NoError(t, err)
	assert.Equal(t, expected, entries)
	store.AssertNotCalled(t, "QueryAll", mock.Anything)
}

func TestSeededScenario_CastorTroy(t *testing.T) {
	ctx := context.Background()
	users, _ := newSeededUserService(t)
	logs := newMemoryLogService(t)

	inactive, err := users.FilterByActive(ctx, false)
	require.NoError(t, err)
	ids := map[int64]bool{}
	for _, u := range inactive {
		ids[u.ID] = true
	}
	assert.True(t, ids[3])
	assert.False(t, ids[1])

	removed, err := users.Delete(ctx, 3)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = users.GetByID(ctx, 3)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = logs.Log(ctx, models.ActionDeleted, "User deleted: Castor Troy", int64Ptr(3))
	require.NoError(t, err)

	entries, err := logs.GetByUser(ctx, 3, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionDeleted, entries[0].Action)
}
