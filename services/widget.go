package services

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"saas-admin-console/internal/api"
	"saas-admin-console/models"
)

// NewTestSessionID mints a widget-tester conversation id. The test_ prefix
// keeps these conversations identifiable in backend analytics.
func NewTestSessionID() string {
	return "test_" + uuid.NewString()
}

// SendTestMessage runs one widget-tester turn against the public chat
// endpoint of a project.
func (s *AdminService) SendTestMessage(ctx context.Context, projectID, message, sessionID string) (models.ChatTurn, error) {
	if projectID == "" {
		return models.ChatTurn{}, api.NewValidationError("project id is required")
	}
	if message == "" {
		return models.ChatTurn{}, api.NewValidationError("message is required")
	}
	if sessionID == "" {
		sessionID = NewTestSessionID()
	}

	body := map[string]string{
		"message":    message,
		"session_id": sessionID,
		"user_id":    "admin_test",
		"user_name":  "Admin Test",
	}

	var turn models.ChatTurn
	if err := s.client.PostJSON(ctx, "/projects/"+url.PathEscape(projectID)+"/chat", body, &turn); err != nil {
		return models.ChatTurn{}, err
	}
	return turn, nil
}
