package services

import (
	"context"
	"net/url"
	"strconv"

	"saas-admin-console/internal/api"
	"saas-admin-console/models"
)

func (s *AdminService) ProjectAnalytics(ctx context.Context, projectID string, timeRange models.TimeRange) (models.ProjectAnalytics, error) {
	if projectID == "" {
		return models.ProjectAnalytics{}, api.NewValidationError("project id is required")
	}
	if err := timeRange.Validate(); err != nil {
		return models.ProjectAnalytics{}, validationErr(err)
	}

	var resp models.ProjectAnalytics
	path := "/admin/projects/" + url.PathEscape(projectID) + "/analytics?range=" + string(timeRange)
	if err := s.client.GetJSON(ctx, path, &resp); err != nil {
		return models.ProjectAnalytics{}, err
	}
	return resp, nil
}

func (s *AdminService) SystemAnalytics(ctx context.Context, timeRange models.TimeRange) (models.SystemAnalytics, error) {
	if err := timeRange.Validate(); err != nil {
		return models.SystemAnalytics{}, validationErr(err)
	}

	var resp models.SystemAnalytics
	if err := s.client.GetJSON(ctx, "/admin/analytics?range="+string(timeRange), &resp); err != nil {
		return models.SystemAnalytics{}, err
	}
	return resp, nil
}

func (s *AdminService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	path := "/admin/activity"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp struct {
		Activity []models.ActivityEntry `json:"activity"`
	}
	if err := s.client.GetJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Activity, nil
}
