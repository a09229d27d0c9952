package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserFormApply(t *testing.T) {
	user := &User{ID: 7, Forename: "Old", Surname: "Name", Email: "old@example.com"}
	form := &UserForm{
		Forename:    "  Ada ",
		Surname:     "Lovelace",
		Email:       "ada@example.com",
		IsActive:    true,
		DateOfBirth: "1815-12-10",
	}

	form.Apply(user)

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Ada", user.Forename)
	assert.Equal(t, "Lovelace", user.Surname)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.IsActive)
	if assert.NotNil(t, user.DateOfBirth) {
		assert.Equal(t, time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC), *user.DateOfBirth)
	}
}

func TestUserFormApplyClearsDateOfBirth(t *testing.T) {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &User{Forename: "A", Surname: "B", Email: "a@b.com", DateOfBirth: &dob}

	(&UserForm{Forename: "A", Surname: "B", Email: "a@b.com"}).Apply(user)

	assert.Nil(t, user.DateOfBirth)
}

func TestNewUserFormRoundTrip(t *testing.T) {
	dob := time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)
	user := &User{ID: 1, Forename: "Peter", Surname: "Loew", Email: "ploew@example.com", IsActive: true, DateOfBirth: &dob}

	form := NewUserForm(user)

	assert.Equal(t, "2001-02-03", form.DateOfBirth)
	copyUser := &User{ID: 1}
	form.Apply(copyUser)
	assert.Equal(t, user, copyUser)
}

func TestFullName(t *testing.T) {
	u := &User{Forename: "Castor", Surname: "Troy"}
	assert.Equal(t, "Castor Troy", u.FullName())
}

func TestNewLogListItem(t *testing.T) {
	userID := int64(3)
	entry := LogEntry{
		ID:          9,
		UserID:      &userID,
		Action:      ActionDeleted,
		Description: "User deleted: Castor Troy",
		CreatedAt:   time.Date(2025, 10, 6, 14, 30, 5, 0, time.UTC),
	}

	item := NewLogListItem(entry)

	assert.Equal(t, int64(9), item.ID)
	assert.Equal(t, &userID, item.UserID)
	assert.Equal(t, "Deleted", item.Action)
	assert.Equal(t, "2025-10-06 14:30:05 UTC", item.CreatedAt)
}

func TestPagination(t *testing.T) {
	p := NewPagination(0, 25, false)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.Skip())
	assert.False(t, p.HasPrev)

	p = NewPagination(3, 25, true)
	assert.Equal(t, 50, p.Skip())
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
}
