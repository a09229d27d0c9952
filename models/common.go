package models

import (
	"time"
)

// FlashMessage represents a flash message for user feedback
type FlashMessage struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// PageData represents common data passed to templates
type PageData struct {
	Title        string        `json:"title"`
	CurrentPage  string        `json:"current_page"`
	FlashMessage *FlashMessage `json:"flash_message,omitempty"`
	User         string        `json:"user,omitempty"` // signed-in operator, empty when auth is off
	Data         interface{}   `json:"data,omitempty"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasPrev  bool `json:"has_prev"`
	HasNext  bool `json:"has_next"`
}

// NewPagination normalizes page/pageSize. hasNext is supplied by the caller.
func NewPagination(page, pageSize int, hasNext bool) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{Page: page, PageSize: pageSize, HasPrev: page > 1, HasNext: hasNext}
}

// Skip returns the number of entries before this page
func (p Pagination) Skip() int {
	return (p.Page - 1) * p.PageSize
}

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateTime formats a time as YYYY-MM-DD HH:MM:SS UTC
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// ParseDate parses a YYYY-MM-DD string into a UTC time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// ValidationErrors maps form field names to messages
type ValidationErrors map[string]string

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}
