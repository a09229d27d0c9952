package controllers

import (
	"context"
	"net/http"

	"github.com/blogem/usermgmt/models"
	"github.com/blogem/usermgmt/services"
)

// dashboardRecentLogs is how many entries the dashboard shows
const dashboardRecentLogs = 10

// dashboardData is the view model of the dashboard
type dashboardData struct {
	Counts     services.UserCounts
	RecentLogs []models.LogListItem
}

// DashboardController handles dashboard-related requests
type DashboardController struct {
	*base
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(b *base) *DashboardController {
	return &DashboardController{base: b}
}

// Index handles GET /
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts := services.Defer(ctx, c.services.Users.Count)
	recent := services.Defer(ctx, func(ctx context.Context) ([]models.LogEntry, error) {
		return c.services.Logs.GetAll(ctx, 0, dashboardRecentLogs)
	})

	userCounts, err := counts.Wait(ctx)
	if err != nil {
		c.fail(w, r, err, "Dashboard")
		return
	}
	entries, err := recent.Wait(ctx)
	if err != nil {
		c.fail(w, r, err, "Dashboard")
		return
	}

	c.render(w, r, http.StatusOK, "dashboard", "Dashboard", "dashboard", dashboardData{
		Counts:     userCounts,
		RecentLogs: models.NewLogListItems(entries),
	})
}
