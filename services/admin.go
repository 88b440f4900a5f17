// Package services holds the typed wrappers over the admin API: one method
// per backend operation. Methods shape responses into model types and
// propagate normalized errors unchanged; they never substitute defaults on
// failure and never raise UI-level concerns.
package services

import (
	"context"

	"saas-admin-console/internal/api"
	"saas-admin-console/internal/session"
	"saas-admin-console/models"
)

type AdminService struct {
	client *api.Client
	store  session.Store
}

func NewAdminService(client *api.Client, store session.Store) *AdminService {
	return &AdminService{client: client, store: store}
}

// Login authenticates against the public auth endpoint and persists the
// session atomically on success.
func (s *AdminService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	if email == "" || password == "" {
		return nil, api.NewValidationError("email and password are required")
	}

	var resp models.LoginResponse
	err := s.client.PostJSON(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User.Email == "" {
		return nil, &api.Error{Kind: api.KindDecode, Message: "login response missing token or user"}
	}

	sess := &session.Session{
		Token: resp.Token,
		User: session.User{
			Email: resp.User.Email,
			Role:  resp.User.Role,
			Name:  resp.User.Name,
		},
	}
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout clears the persisted session. Purely local; the backend token
// simply expires.
func (s *AdminService) Logout() error {
	return s.store.Clear()
}

func validationErr(err error) *api.Error {
	return api.NewValidationError("%s", err.Error())
}
