package services

import (
	"context"
	"net/url"
	"strconv"

	"saas-admin-console/internal/api"
	"saas-admin-console/models"
)

// ListProjects returns projects newest first. limit bounds the page size;
// zero means the server default.
func (s *AdminService) ListProjects(ctx context.Context, limit int) ([]models.Project, error) {
	path := "/admin/projects"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp struct {
		Projects []models.Project `json:"projects"`
	}
	if err := s.client.GetJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (s *AdminService) GetProject(ctx context.Context, projectID string) (models.Project, error) {
	if projectID == "" {
		return models.Project{}, api.NewValidationError("project id is required")
	}

	var resp struct {
		Project models.Project `json:"project"`
	}
	if err := s.client.GetJSON(ctx, "/admin/projects/"+url.PathEscape(projectID), &resp); err != nil {
		return models.Project{}, err
	}
	return resp.Project, nil
}

// CreateProject creates a project, multipart-encoded when reference
// documents are attached and plain JSON otherwise. A server-side rejection
// of any file fails the whole request; there is no per-file retry.
func (s *AdminService) CreateProject(ctx context.Context, draft models.ProjectDraft, files []models.ProjectFile) (models.Project, error) {
	if draft.Name == "" {
		return models.Project{}, api.NewValidationError("project name is required")
	}

	var resp struct {
		Project models.Project `json:"project"`
	}

	var err error
	if len(files) > 0 {
		err = s.client.PostMultipart(ctx, "/admin/projects", draftFields(draft), files, &resp)
	} else {
		err = s.client.PostJSON(ctx, "/admin/projects", draft, &resp)
	}
	if err != nil {
		return models.Project{}, err
	}
	return resp.Project, nil
}

func (s *AdminService) UpdateProject(ctx context.Context, projectID string, draft models.ProjectDraft) (models.Project, error) {
	if projectID == "" {
		return models.Project{}, api.NewValidationError("project id is required")
	}

	var resp struct {
		Project models.Project `json:"project"`
	}
	if err := s.client.PatchJSON(ctx, "/admin/projects/"+url.PathEscape(projectID), draft, &resp); err != nil {
		return models.Project{}, err
	}
	return resp.Project, nil
}

// SetProjectStatus changes one project's status. The backend returns only
// the mutated fields; the caller merges them into its cached list.
func (s *AdminService) SetProjectStatus(ctx context.Context, projectID, status string) (models.ProjectStatusUpdate, error) {
	if projectID == "" {
		return models.ProjectStatusUpdate{}, api.NewValidationError("project id is required")
	}
	if !models.ValidStatus(status) {
		return models.ProjectStatusUpdate{}, api.NewValidationError("invalid project status %q", status)
	}

	body := map[string]string{"status": status}
	var resp models.ProjectStatusUpdate
	if err := s.client.PatchJSON(ctx, "/admin/projects/"+url.PathEscape(projectID)+"/status", body, &resp); err != nil {
		return models.ProjectStatusUpdate{}, err
	}
	if resp.ProjectID == "" {
		resp.ProjectID = projectID
	}
	return resp, nil
}

func (s *AdminService) DeleteProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		return api.NewValidationError("project id is required")
	}
	return s.client.Delete(ctx, "/admin/projects/"+url.PathEscape(projectID), nil)
}

// draftFields flattens a draft into multipart form fields, matching the
// field names the JSON encoding would use.
func draftFields(draft models.ProjectDraft) map[string]string {
	fields := map[string]string{
		"name":            draft.Name,
		"description":     draft.Description,
		"client_email":    draft.ClientEmail,
		"client_name":     draft.ClientName,
		"company":         draft.Company,
		"welcome_message": draft.WelcomeMessage,
		"theme":           draft.Theme,
		"primary_color":   draft.PrimaryColor,
	}
	if draft.MonthlyTokenLimit > 0 {
		fields["monthly_token_limit"] = strconv.Itoa(draft.MonthlyTokenLimit)
	}
	return fields
}
