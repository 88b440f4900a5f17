package controller

import (
	"context"
	"sync"
	"time"

	"saas-admin-console/internal/bus"
	"saas-admin-console/internal/logger"
	"saas-admin-console/internal/session"
	"saas-admin-console/internal/telemetry"
	"saas-admin-console/models"
)

// recentProjectsLimit bounds the dashboard's recent-projects panel.
const recentProjectsLimit = 5

// DashboardService is the slice of the admin API the dashboard reads.
type DashboardService interface {
	FetchDashboardStats(ctx context.Context, timeRange models.TimeRange) (models.DashboardStats, error)
	ListProjects(ctx context.Context, limit int) ([]models.Project, error)
	ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error)
}

// DashboardController drives the admin overview: aggregate stats as the
// primary resource, plus recent projects and unread notifications as
// secondaries that degrade softly.
type DashboardController struct {
	lifecycle

	svc   DashboardService
	store session.Store
	nav   Navigator
	bus   *bus.Bus

	timeRange     models.TimeRange
	stats         models.DashboardStats
	projects      []models.Project
	notifications []models.Notification
}

func NewDashboardController(svc DashboardService, store session.Store, b *bus.Bus, nav Navigator, metrics *telemetry.Metrics) *DashboardController {
	c := &DashboardController{
		svc:       svc,
		store:     store,
		nav:       nav,
		bus:       b,
		timeRange: models.Range7d,
	}
	c.init("dashboard", metrics)
	return c
}

// Mount checks the persisted session, wires bus subscriptions and polling,
// and runs the first refresh. Without an admin session it redirects to the
// login view and mounts nothing.
func (c *DashboardController) Mount(ctx context.Context, pollInterval time.Duration) error {
	if !requireAdmin(c.store, c.nav) {
		return ErrNotAuthenticated
	}

	refresh := func(bus.Event) { c.Refresh(context.Background()) }
	c.addUnsub(c.bus.Subscribe(bus.ProjectCreated, refresh))
	c.addUnsub(c.bus.Subscribe(bus.ProjectUpdated, refresh))
	c.addUnsub(c.bus.Subscribe(bus.ProjectDeleted, refresh))

	c.startPolling(pollInterval, func() { c.Refresh(context.Background()) })
	c.Refresh(ctx)
	return nil
}

// Refresh fetches all three resources concurrently and commits them as one
// batch. Stats failure marks the view Errored; a failed secondary keeps its
// previous data and is logged.
func (c *DashboardController) Refresh(ctx context.Context) {
	gen, ok := c.begin()
	if !ok {
		return
	}

	c.mu.Lock()
	tr := c.timeRange
	c.mu.Unlock()

	var (
		stats    models.DashboardStats
		projects []models.Project
		notifs   []models.Notification

		statsErr, projErr, notifErr error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		stats, statsErr = c.svc.FetchDashboardStats(ctx, tr)
	}()
	go func() {
		defer wg.Done()
		projects, projErr = c.svc.ListProjects(ctx, recentProjectsLimit)
	}()
	go func() {
		defer wg.Done()
		notifs, notifErr = c.svc.ListNotifications(ctx, true)
	}()
	wg.Wait()

	primaryErr := statsErr
	if primaryErr == nil {
		primaryErr = firstAuthErr(projErr, notifErr)
	}

	c.commit(gen, primaryErr, func() {
		c.stats = stats
		if projErr == nil {
			c.projects = projects
		} else {
			logger.Warn("Recent projects fetch failed, keeping previous data", "error", projErr)
		}
		if notifErr == nil {
			c.notifications = notifs
		} else {
			logger.Warn("Notifications fetch failed, keeping previous data", "error", notifErr)
		}
	})
}

// SetTimeRange narrows or widens the stats window and refreshes. Only the
// latest selected range can commit; older in-flight batches are discarded.
func (c *DashboardController) SetTimeRange(ctx context.Context, tr models.TimeRange) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.timeRange = tr
	c.mu.Unlock()
	c.Refresh(ctx)
	return nil
}

func (c *DashboardController) TimeRange() models.TimeRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeRange
}

func (c *DashboardController) Stats() models.DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *DashboardController) Projects() []models.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Project(nil), c.projects...)
}

func (c *DashboardController) Notifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Notification(nil), c.notifications...)
}
