package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"saas-admin-console/internal/config"
	"saas-admin-console/internal/session"
)

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	n.paths = append(n.paths, path)
	n.mu.Unlock()
}

func (n *recordingNav) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func testClient(t *testing.T, baseURL string) (*Client, session.Store, *recordingNav) {
	t.Helper()

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&session.Session{
		Token: "test-token",
		User:  session.User{Email: "admin@example.com", Role: session.AdminRole},
	}))

	nav := &recordingNav{}
	cfg := &config.Config{
		APIBaseURL:     baseURL,
		RequestTimeout: 5 * time.Second,
		UploadTimeout:  5 * time.Second,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	return NewClient(cfg, store, nav, nil), store, nav
}

func TestGetJSONSendsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, _, _ := testClient(t, srv.URL)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/admin/stats", &out))
	require.True(t, out.OK)
	require.Equal(t, "Bearer test-token", gotAuth)
	require.NotEmpty(t, gotRequestID)
}

func TestErrorBodyNormalization(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"name already taken"}`, "name already taken"},
		{"message field", http.StatusConflict, `{"message":"duplicate project"}`, "duplicate project"},
		{"unparseable body", http.StatusInternalServerError, `<html>oops</html>`, "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, _, _ := testClient(t, srv.URL)

			err := client.GetJSON(context.Background(), "/admin/projects", &struct{}{})
			require.Error(t, err)
			require.True(t, IsKind(err, KindHTTP))

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tc.status, apiErr.HTTPStatus)
			require.Equal(t, tc.message, apiErr.Message)
		})
	}
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	client, store, nav := testClient(t, srv.URL)

	err := client.GetJSON(context.Background(), "/admin/stats", &struct{}{})
	require.True(t, IsKind(err, KindAuth))

	sess, loadErr := store.Load()
	require.NoError(t, loadErr)
	require.Nil(t, sess, "session must be cleared after a 401")
	require.Equal(t, []string{"/login"}, nav.visited())
}

func TestNetworkFailureIsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client, _, nav := testClient(t, srv.URL)

	err := client.GetJSON(context.Background(), "/admin/stats", &struct{}{})
	require.True(t, IsKind(err, KindNetwork))
	require.Empty(t, nav.visited())
}

func TestNonJSONSuccessBodyIsDecodeKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login page</html>"))
	}))
	defer srv.Close()

	client, _, _ := testClient(t, srv.URL)

	err := client.GetJSON(context.Background(), "/admin/stats", &struct{}{})
	require.True(t, IsKind(err, KindDecode))
}

func TestGetBinaryPassesPayloadThrough(t *testing.T) {
	payload := []byte("id,name\np1,Acme\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write(payload)
	}))
	defer srv.Close()

	client, _, _ := testClient(t, srv.URL)

	data, contentType, err := client.GetBinary(context.Background(), "/admin/export/projects?format=csv")
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.Equal(t, "text/csv", contentType)
}

func captureSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return exporter
}

func TestRequestSpanCoversResponseDecoding(t *testing.T) {
	exporter := captureSpans(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, _, _ := testClient(t, srv.URL)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/admin/stats", &out))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "the span must end once the body is consumed")
	require.Equal(t, "GET /admin/stats", spans[0].Name)
}

func TestRequestSpanRecordsDecodeFailure(t *testing.T) {
	exporter := captureSpans(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	client, _, _ := testClient(t, srv.URL)

	err := client.GetJSON(context.Background(), "/admin/stats", &struct{}{})
	require.True(t, IsKind(err, KindDecode))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status.Code)

	recorded := false
	for _, event := range spans[0].Events {
		if event.Name == "exception" {
			recorded = true
		}
	}
	require.True(t, recorded, "decode failure must be recorded on the span")
}

func TestGetBinaryErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unknown export kind"}`))
	}))
	defer srv.Close()

	client, _, _ := testClient(t, srv.URL)

	_, _, err := client.GetBinary(context.Background(), "/admin/export/nope?format=csv")
	require.True(t, IsKind(err, KindHTTP))
}
