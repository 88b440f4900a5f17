package controller

import (
	"context"
	"time"

	"saas-admin-console/internal/bus"
	"saas-admin-console/internal/session"
	"saas-admin-console/internal/telemetry"
	"saas-admin-console/models"
)

// ProjectService is the slice of the admin API the project list needs.
type ProjectService interface {
	ListProjects(ctx context.Context, limit int) ([]models.Project, error)
	CreateProject(ctx context.Context, draft models.ProjectDraft, files []models.ProjectFile) (models.Project, error)
	SetProjectStatus(ctx context.Context, projectID, status string) (models.ProjectStatusUpdate, error)
	DeleteProject(ctx context.Context, projectID string) error
}

// ProjectListController drives the full project table. Its own mutations
// patch the cached list in place instead of refetching, then publish a bus
// event so sibling views can react.
type ProjectListController struct {
	lifecycle

	svc     ProjectService
	store   session.Store
	nav     Navigator
	bus     *bus.Bus
	confirm Confirmer

	projects []models.Project
}

func NewProjectListController(svc ProjectService, store session.Store, b *bus.Bus, nav Navigator, confirm Confirmer, metrics *telemetry.Metrics) *ProjectListController {
	c := &ProjectListController{
		svc:     svc,
		store:   store,
		nav:     nav,
		bus:     b,
		confirm: confirm,
	}
	c.init("projects", metrics)
	return c
}

func (c *ProjectListController) Mount(ctx context.Context, pollInterval time.Duration) error {
	if !requireAdmin(c.store, c.nav) {
		return ErrNotAuthenticated
	}
	c.startPolling(pollInterval, func() { c.Refresh(context.Background()) })
	c.Refresh(ctx)
	return nil
}

func (c *ProjectListController) Refresh(ctx context.Context) {
	gen, ok := c.begin()
	if !ok {
		return
	}

	projects, err := c.svc.ListProjects(ctx, 0)
	c.commit(gen, err, func() {
		c.projects = projects
	})
}

// Create provisions a project, prepends it to the cached list and announces
// it on the bus. The returned project carries the server-assigned id.
func (c *ProjectListController) Create(ctx context.Context, draft models.ProjectDraft, files []models.ProjectFile) (models.Project, error) {
	project, err := c.svc.CreateProject(ctx, draft, files)
	if err != nil {
		return models.Project{}, err
	}

	c.mu.Lock()
	if !c.closed {
		c.projects = append([]models.Project{project}, c.projects...)
	}
	c.mu.Unlock()

	c.bus.Publish(bus.Event{
		Kind:    bus.ProjectCreated,
		Payload: bus.ProjectMutation{ProjectID: project.ProjectID},
	})
	return project, nil
}

// SetStatus transitions one project and patches only that row in the cached
// list; no refetch happens on success.
func (c *ProjectListController) SetStatus(ctx context.Context, projectID, status string) error {
	resp, err := c.svc.SetProjectStatus(ctx, projectID, status)
	if err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.projects {
		if c.projects[i].ProjectID == resp.ProjectID {
			c.projects[i].Status = resp.Status
			break
		}
	}
	c.mu.Unlock()

	c.bus.Publish(bus.Event{
		Kind:    bus.ProjectUpdated,
		Payload: bus.ProjectMutation{ProjectID: resp.ProjectID, Status: resp.Status},
	})
	return nil
}

// Delete removes a project after explicit confirmation. Declining returns
// ErrCancelled and sends nothing.
func (c *ProjectListController) Delete(ctx context.Context, projectID string) error {
	if c.confirm != nil && !c.confirm("Delete project "+projectID+"? This cannot be undone.") {
		return ErrCancelled
	}

	if err := c.svc.DeleteProject(ctx, projectID); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.projects {
		if c.projects[i].ProjectID == projectID {
			c.projects = append(c.projects[:i:i], c.projects[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.bus.Publish(bus.Event{
		Kind:    bus.ProjectDeleted,
		Payload: bus.ProjectMutation{ProjectID: projectID},
	})
	return nil
}

// Open navigates to the detail view for one project.
func (c *ProjectListController) Open(projectID string) {
	c.nav.Navigate("/admin/projects/" + projectID)
}

func (c *ProjectListController) Projects() []models.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Project(nil), c.projects...)
}
