package controllers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/blogem/usermgmt/models"
)

// Paging defaults for the log list
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// logListData is the view model of a paged log list
type logListData struct {
	Logs       []models.LogListItem
	Pagination models.Pagination
	UserID     *int64
	BaseURL    string
}

// LogController handles audit log requests
type LogController struct {
	*base
}

// NewLogController creates a new log controller
func NewLogController(b *base) *LogController {
	return &LogController{base: b}
}

// Index handles GET /logs?page=&pageSize=
func (c *LogController) Index(w http.ResponseWriter, r *http.Request) {
	page, pageSize, inRange := pagingParams(r)
	pagination := models.NewPagination(page, pageSize, false)
	if !inRange {
		c.renderList(w, r, "Logs", nil, pagination, nil, "/logs")
		return
	}

	// one extra entry tells whether a next page exists
	entries, err := c.services.Logs.GetAll(r.Context(), pagination.Skip(), pageSize+1)
	if err != nil {
		c.fail(w, r, err, "Log entries")
		return
	}

	c.renderList(w, r, "Logs", entries, pagination, nil, "/logs")
}

// ByUser handles GET /logs/user/{userId}
func (c *LogController) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userId")
	if !ok {
		c.notFound(w, r, "User")
		return
	}

	page, pageSize, inRange := pagingParams(r)
	pagination := models.NewPagination(page, pageSize, false)
	title := fmt.Sprintf("Logs for user %d", userID)
	baseURL := fmt.Sprintf("/logs/user/%d", userID)
	if !inRange {
		c.renderList(w, r, title, nil, pagination, &userID, baseURL)
		return
	}

	entries, err := c.services.Logs.GetByUser(r.Context(), userID, pagination.Skip(), pageSize+1)
	if err != nil {
		c.fail(w, r, err, "Log entries")
		return
	}

	c.renderList(w, r, title, entries, pagination, &userID, baseURL)
}

// View handles GET /logs/{id}
func (c *LogController) View(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		c.notFound(w, r, "Log entry")
		return
	}

	entry, err := c.services.Logs.GetByID(r.Context(), id)
	if err != nil {
		c.fail(w, r, err, "Log entry")
		return
	}

	c.render(w, r, http.StatusOK, "log_view", fmt.Sprintf("Log entry %d", entry.ID), "logs", models.NewLogListItem(*entry))
}

func (c *LogController) renderList(w http.ResponseWriter, r *http.Request, title string, entries []models.LogEntry, pagination models.Pagination, userID *int64, baseURL string) {
	if len(entries) > pagination.PageSize {
		entries = entries[:pagination.PageSize]
		pagination.HasNext = true
	}

	c.render(w, r, http.StatusOK, "logs", title, "logs", logListData{
		Logs:       models.NewLogListItems(entries),
		Pagination: pagination,
		UserID:     userID,
		BaseURL:    baseURL,
	})
}

// pagingParams reads page and pageSize, falling back to 1 and DefaultPageSize.
// inRange is false when the page starts past any representable offset;
// such a page is empty.
func pagingParams(r *http.Request) (page, pageSize int, inRange bool) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err = strconv.Atoi(query.Get("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return page, pageSize, page-1 <= math.MaxInt/pageSize
}
