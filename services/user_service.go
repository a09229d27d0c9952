package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blogem/usermgmt/models"
	"github.com/blogem/usermgmt/repositories"
)

// UserService interface defines user management business logic
type UserService interface {
	FilterByActive(ctx context.Context, isActive bool) ([]models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (UserCounts, error)
}

// UserCounts summarizes the user population
type UserCounts struct {
	Total    int
	Active   int
	Inactive int
}

// userService implements UserService interface
type userService struct {
	store repositories.Store[models.User]

	// serializes the lookup and removal in Delete
	deleteMu sync.Mutex
}

// NewUserService creates a new user service
func NewUserService(store repositories.Store[models.User]) UserService {
	return &userService{store: store}
}

// FilterByActive returns users whose active flag equals isActive, in store order
func (s *userService) FilterByActive(ctx context.Context, isActive bool) ([]models.User, error) {
	users, err := repositories.Collect(repositories.Filter(s.store.QueryAll(ctx), func(u models.User) bool {
		return u.IsActive == isActive
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to filter users: %w", err)
	}
	return nonNil(users), nil
}

// GetAll returns every user in store order
func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := repositories.Collect(s.store.QueryAll(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return nonNil(users), nil
}

// GetByID returns the user with the given id or repositories.ErrNotFound
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := repositories.Find(s.store.QueryAll(ctx), func(u models.User) bool {
		return u.ID == id
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("user with ID %d: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Add persists a new user and sets its assigned id
func (s *userService) Add(ctx context.Context, user *models.User) error {
	if err := s.store.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

// Update overwrites an existing user. Unknown ids return repositories.ErrNotFound.
func (s *userService) Update(ctx context.Context, user *models.User) error {
	if err := s.store.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes the user if it exists and reports whether this call removed it.
// A missing id is a no-op returning false.
func (s *userService) Delete(ctx context.Context, id int64) (bool, error) {
	s.deleteMu.Lock()
	defer s.deleteMu.Unlock()

	user, err := s.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.store.Remove(ctx, user); err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return true, nil
}

// Count returns total, active and inactive user counts from one pass
func (s *userService) Count(ctx context.Context) (UserCounts, error) {
	var counts UserCounts
	for u, err := range s.store.QueryAll(ctx) {
		if err != nil {
			return UserCounts{}, fmt.Errorf("failed to count users: %w", err)
		}
		counts.Total++
		if u.IsActive {
			counts.Active++
		} else {
			counts.Inactive++
		}
	}
	return counts, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
