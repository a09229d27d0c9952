// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"

	"github.com/blogem/usermgmt/models"
)

// MockStore is a mock for repositories.Store[T]. QueryAll yields the records
// (or error) registered for it.
type MockStore[T any] struct {
	mock.Mock
}

// NewMockStore creates a mock and registers expectation assertion on cleanup
func NewMockStore[T any](t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore[T] {
	m := &MockStore[T]{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// QueryAll provides a mock function
func (m *MockStore[T]) QueryAll(ctx context.Context) iter.Seq2[T, error] {
	ret := m.Called(ctx)
	records, _ := ret.Get(0).([]T)
	err := ret.Error(1)
	return func(yield func(T, error) bool) {
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Create provides a mock function
func (m *MockStore[T]) Create(ctx context.Context, record *T) error {
	return m.Called(ctx, record).Error(0)
}

// Update provides a mock function
func (m *MockStore[T]) Update(ctx context.Context, record *T) error {
	return m.Called(ctx, record).Error(0)
}

// Remove provides a mock function
func (m *MockStore[T]) Remove(ctx context.Context, record *T) error {
	return m.Called(ctx, record).Error(0)
}

// MockLogPagerStore is a log store mock that also pages entries itself
type MockLogPagerStore struct {
	MockStore[models.LogEntry]
}

// NewMockLogPagerStore creates a paging log store mock
func NewMockLogPagerStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogPagerStore {
	m := &MockLogPagerStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Recent provides a mock function
func (m *MockLogPagerStore) Recent(ctx context.Context, userID *int64, skip, take int) ([]models.LogEntry, error) {
	ret := m.Called(ctx, userID, skip, take)
	entries, _ := ret.Get(0).([]models.LogEntry)
	return entries, ret.Error(1)
}
