package models

import (
	"strings"
	"time"
)

// User represents a managed user record
type User struct {
	ID          int64      `json:"id" db:"id"`
	Forename    string     `json:"forename" db:"forename"`
	Surname     string     `json:"surname" db:"surname"`
	Email       string     `json:"email" db:"email"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
}

// GetID returns the record identity
func (u User) GetID() int64 { return u.ID }

// SetID assigns the record identity
func (u *User) SetID(id int64) { u.ID = id }

// Clone returns a copy that shares no pointers with u
func (u User) Clone() User {
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		u.DateOfBirth = &dob
	}
	return u
}

// FullName returns "<forename> <surname>"
func (u *User) FullName() string {
	return strings.TrimSpace(u.Forename + " " + u.Surname)
}

// UserForm represents form data for creating/updating users
type UserForm struct {
	Forename    string `json:"forename" validate:"required,max=100"`
	Surname     string `json:"surname" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=200"`
	IsActive    bool   `json:"is_active"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

// NewUserForm fills a form from an existing user
func NewUserForm(u *User) *UserForm {
	form := &UserForm{
		Forename: u.Forename,
		Surname:  u.Surname,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
	if u.DateOfBirth != nil {
		form.DateOfBirth = FormatDate(*u.DateOfBirth)
	}
	return form
}

// Apply overwrites every editable field of u with the form values.
// The form must have passed validation.
func (f *UserForm) Apply(u *User) {
	u.Forename = strings.TrimSpace(f.Forename)
	u.Surname = strings.TrimSpace(f.Surname)
	u.Email = strings.TrimSpace(f.Email)
	u.IsActive = f.IsActive
	u.DateOfBirth = nil
	if f.DateOfBirth != "" {
		if dob, err := ParseDate(f.DateOfBirth); err == nil {
			u.DateOfBirth = &dob
		}
	}
}

// UserListItem is the display projection of a user
type UserListItem struct {
	ID          int64
	Forename    string
	Surname     string
	Email       string
	IsActive    bool
	DateOfBirth string
}

// NewUserListItem maps a user to its display projection
func NewUserListItem(u User) UserListItem {
	item := UserListItem{
		ID:       u.ID,
		Forename: u.Forename,
		Surname:  u.Surname,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
	if u.DateOfBirth != nil {
		item.DateOfBirth = FormatDate(*u.DateOfBirth)
	}
	return item
}

// NewUserListItems maps a slice of users
func NewUserListItems(users []User) []UserListItem {
	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, NewUserListItem(u))
	}
	return items
}
