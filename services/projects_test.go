package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"saas-admin-console/internal/api"
	"saas-admin-console/internal/config"
	"saas-admin-console/internal/session"
	"saas-admin-console/models"
)

type nopNav struct{}

func (nopNav) Navigate(string) {}

func newTestService(t *testing.T, handler http.Handler) (*AdminService, session.Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&session.Session{
		Token: "test-token",
		User:  session.User{Email: "admin@example.com", Role: session.AdminRole},
	}))

	cfg := &config.Config{
		APIBaseURL:     srv.URL,
		RequestTimeout: 5 * time.Second,
		UploadTimeout:  5 * time.Second,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	client := api.NewClient(cfg, store, nopNav{}, nil)
	return NewAdminService(client, store), store
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestListProjectsUnwrapsEnvelope(t *testing.T) {
	var gotPath string
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		writeJSON(w, map[string]any{"projects": []models.Project{
			{ProjectID: "p1", Name: "Acme", Status: models.StatusActive},
			{ProjectID: "p2", Name: "Globex", Status: models.StatusSuspended},
		}})
	}))

	projects, err := svc.ListProjects(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "/admin/projects?limit=5", gotPath)
	require.Len(t, projects, 2)
	require.Equal(t, "p1", projects[0].ProjectID)
}

func TestListProjectsOmitsZeroLimit(t *testing.T) {
	var gotPath string
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		writeJSON(w, map[string]any{"projects": []models.Project{}})
	}))

	_, err := svc.ListProjects(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, "/admin/projects", gotPath)
}

func TestCreateProjectWithoutFilesSendsJSON(t *testing.T) {
	var gotContentType string
	var gotDraft models.ProjectDraft
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotDraft))
		writeJSON(w, map[string]any{"project": models.Project{ProjectID: "p-new", Name: gotDraft.Name}})
	}))

	draft := models.ProjectDraft{Name: "Acme Bot", ClientEmail: "ceo@acme.com", MonthlyTokenLimit: 100000}
	project, err := svc.CreateProject(context.Background(), draft, nil)
	require.NoError(t, err)
	require.Equal(t, "p-new", project.ProjectID)
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, "Acme Bot", gotDraft.Name)
	require.Equal(t, 100000, gotDraft.MonthlyTokenLimit)
}

func TestCreateProjectWithFilesSendsMultipart(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(10<<20))

		require.Equal(t, "Acme Bot", r.FormValue("name"))
		require.Equal(t, "100000", r.FormValue("monthly_token_limit"))

		files := r.MultipartForm.File["pdf_files"]
		require.Len(t, files, 2)
		require.Equal(t, "faq.pdf", files[0].Filename)
		require.Equal(t, "manual.pdf", files[1].Filename)

		writeJSON(w, map[string]any{"project": models.Project{ProjectID: "p-new", PDFFilesCount: 2}})
	}))

	draft := models.ProjectDraft{Name: "Acme Bot", MonthlyTokenLimit: 100000}
	files := []models.ProjectFile{
		{Name: "faq.pdf", Reader: strings.NewReader("%PDF-1.4 faq")},
		{Name: "manual.pdf", Reader: strings.NewReader("%PDF-1.4 manual")},
	}

	project, err := svc.CreateProject(context.Background(), draft, files)
	require.NoError(t, err)
	require.Equal(t, 2, project.PDFFilesCount)
}

func TestCreateProjectRequiresName(t *testing.T) {
	called := false
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := svc.CreateProject(context.Background(), models.ProjectDraft{}, nil)
	require.True(t, api.IsKind(err, api.KindValidation))
	require.False(t, called, "validation must reject before sending")
}

func TestSetProjectStatus(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/admin/projects/p1/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "suspended", body["status"])

		writeJSON(w, models.ProjectStatusUpdate{ProjectID: "p1", Status: "suspended"})
	}))

	resp, err := svc.SetProjectStatus(context.Background(), "p1", models.StatusSuspended)
	require.NoError(t, err)
	require.Equal(t, "p1", resp.ProjectID)
	require.Equal(t, models.StatusSuspended, resp.Status)
}

func TestSetProjectStatusRejectsUnknownStatus(t *testing.T) {
	called := false
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := svc.SetProjectStatus(context.Background(), "p1", "archived")
	require.True(t, api.IsKind(err, api.KindValidation))
	require.False(t, called)
}

func TestDeleteProject(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/admin/projects/p1", r.URL.Path)
		writeJSON(w, map[string]string{"message": "deleted"})
	}))

	require.NoError(t, svc.DeleteProject(context.Background(), "p1"))
}

func TestLoginPersistsSession(t *testing.T) {
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "admin@example.com", req.Email)

		writeJSON(w, models.LoginResponse{
			Token: "fresh-token",
			User:  models.UserInfo{Email: "admin@example.com", Role: "admin", Name: "Admin"},
		})
	}))

	sess, err := svc.Login(context.Background(), "admin@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "fresh-token", sess.Token)

	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "fresh-token", stored.Token)
	require.True(t, stored.IsAdmin())
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, time.March, 9, 23, 30, 0, 0, time.UTC)
	require.Equal(t, "projects_export_2026-03-09.csv", ExportFilename("projects", "csv", now))
	require.Equal(t, "analytics_export_2026-03-09.xlsx", ExportFilename("analytics", "xlsx", now))
}

func TestExportDataRejectsUnknownFormat(t *testing.T) {
	called := false
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := svc.ExportData(context.Background(), "projects", "pdf")
	require.True(t, api.IsKind(err, api.KindValidation))
	require.False(t, called)
}
