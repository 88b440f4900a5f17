package services

import (
	"context"
	"net/url"

	"saas-admin-console/internal/api"
	"saas-admin-console/models"
)

func (s *AdminService) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	path := "/admin/notifications"
	if unreadOnly {
		path += "?unread=true"
	}

	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	if err := s.client.GetJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (s *AdminService) MarkNotificationRead(ctx context.Context, notificationID string) error {
	if notificationID == "" {
		return api.NewValidationError("notification id is required")
	}
	return s.client.PatchJSON(ctx, "/admin/notifications/"+url.PathEscape(notificationID)+"/read", nil, nil)
}
