package services

import (
	"context"

	"saas-admin-console/models"
)

// FetchDashboardStats loads the aggregate counters for one time range.
// Unknown ranges are rejected here, not sent to the server unchecked.
func (s *AdminService) FetchDashboardStats(ctx context.Context, timeRange models.TimeRange) (models.DashboardStats, error) {
	if err := timeRange.Validate(); err != nil {
		return models.DashboardStats{}, validationErr(err)
	}

	var resp struct {
		Stats models.DashboardStats `json:"stats"`
	}
	if err := s.client.GetJSON(ctx, "/admin/stats?range="+string(timeRange), &resp); err != nil {
		return models.DashboardStats{}, err
	}
	return resp.Stats, nil
}
