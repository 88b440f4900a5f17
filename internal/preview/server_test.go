package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"saas-admin-console/internal/api"
	"saas-admin-console/internal/config"
	"saas-admin-console/models"
)

type fakeWidget struct {
	lastProjectID string
	lastMessage   string
	turn          models.ChatTurn
	err           error
}

func (f *fakeWidget) SendTestMessage(_ context.Context, projectID, message, _ string) (models.ChatTurn, error) {
	f.lastProjectID = projectID
	f.lastMessage = message
	return f.turn, f.err
}

func testServer(t *testing.T, svc WidgetService) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		PreviewAddr: "127.0.0.1:0",
		CORSOrigins: []string{"http://localhost:3000"},
		LogLevel:    "info",
	}
	s := NewServer(cfg, svc)
	srv := httptest.NewServer(s.srv.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestPreviewPageRenders(t *testing.T) {
	srv := testServer(t, &fakeWidget{})

	resp, err := http.Get(srv.URL + "/preview/p1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "p1")
	require.Contains(t, buf.String(), "test_")
}

func TestPreviewChatRelaysTurn(t *testing.T) {
	widget := &fakeWidget{turn: models.ChatTurn{Status: "success", Response: "Hello!", TokensUsed: 12}}
	srv := testServer(t, widget)

	body := bytes.NewBufferString(`{"message":"hi there","session_id":"test_abc"}`)
	resp, err := http.Post(srv.URL+"/preview/p1/chat", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var turn models.ChatTurn
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&turn))
	require.Equal(t, "Hello!", turn.Response)
	require.Equal(t, "p1", widget.lastProjectID)
	require.Equal(t, "hi there", widget.lastMessage)
}

func TestPreviewChatRejectsEmptyMessage(t *testing.T) {
	srv := testServer(t, &fakeWidget{})

	resp, err := http.Post(srv.URL+"/preview/p1/chat", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreviewChatMapsUpstreamFailure(t *testing.T) {
	widget := &fakeWidget{err: &api.Error{Kind: api.KindNetwork, Message: "backend unreachable"}}
	srv := testServer(t, widget)

	body := bytes.NewBufferString(`{"message":"hi"}`)
	resp, err := http.Post(srv.URL+"/preview/p1/chat", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
