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

// ProjectDetailService is the slice of the admin API one project view reads.
type ProjectDetailService interface {
	GetProject(ctx context.Context, projectID string) (models.Project, error)
	ProjectAnalytics(ctx context.Context, projectID string, timeRange models.TimeRange) (models.ProjectAnalytics, error)
}

// ProjectDetailController drives a single project's view: the project
// record is primary, its analytics panel is a soft-failing secondary. It
// only reacts to bus events about its own project.
type ProjectDetailController struct {
	lifecycle

	svc   ProjectDetailService
	store session.Store
	nav   Navigator
	bus   *bus.Bus

	projectID string
	timeRange models.TimeRange
	project   models.Project
	analytics models.ProjectAnalytics
}

func NewProjectDetailController(svc ProjectDetailService, store session.Store, b *bus.Bus, nav Navigator, projectID string, metrics *telemetry.Metrics) *ProjectDetailController {
	c := &ProjectDetailController{
		svc:       svc,
		store:     store,
		nav:       nav,
		bus:       b,
		projectID: projectID,
		timeRange: models.Range7d,
	}
	c.init("project_detail", metrics)
	return c
}

func (c *ProjectDetailController) Mount(ctx context.Context, pollInterval time.Duration) error {
	if !requireAdmin(c.store, c.nav) {
		return ErrNotAuthenticated
	}

	c.addUnsub(c.bus.Subscribe(bus.ProjectUpdated, func(e bus.Event) {
		if e.Payload.ProjectID == c.projectID {
			c.Refresh(context.Background())
		}
	}))
	c.addUnsub(c.bus.Subscribe(bus.ProjectDeleted, func(e bus.Event) {
		if e.Payload.ProjectID == c.projectID {
			c.nav.Navigate("/admin/projects")
		}
	}))

	c.startPolling(pollInterval, func() { c.Refresh(context.Background()) })
	c.Refresh(ctx)
	return nil
}

func (c *ProjectDetailController) Refresh(ctx context.Context) {
	gen, ok := c.begin()
	if !ok {
		return
	}

	c.mu.Lock()
	tr := c.timeRange
	c.mu.Unlock()

	var (
		project   models.Project
		analytics models.ProjectAnalytics

		projErr, analyticsErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		project, projErr = c.svc.GetProject(ctx, c.projectID)
	}()
	go func() {
		defer wg.Done()
		analytics, analyticsErr = c.svc.ProjectAnalytics(ctx, c.projectID, tr)
	}()
	wg.Wait()

	primaryErr := projErr
	if primaryErr == nil {
		primaryErr = firstAuthErr(analyticsErr)
	}

	c.commit(gen, primaryErr, func() {
		c.project = project
		if analyticsErr == nil {
			c.analytics = analytics
		} else {
			logger.Warn("Project analytics fetch failed, keeping previous data", "project_id", c.projectID, "error", analyticsErr)
		}
	})
}

func (c *ProjectDetailController) SetTimeRange(ctx context.Context, tr models.TimeRange) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.timeRange = tr
	c.mu.Unlock()
	c.Refresh(ctx)
	return nil
}

func (c *ProjectDetailController) Project() models.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.project
}

func (c *ProjectDetailController) Analytics() models.ProjectAnalytics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analytics
}
