// Package preview runs a small local HTTP server that renders a project's
// chat widget against the live backend, so an admin can test a bot before
// handing the embed snippet to a client.
package preview

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"saas-admin-console/internal/api"
	"saas-admin-console/internal/config"
	"saas-admin-console/internal/logger"
	"saas-admin-console/models"
	"saas-admin-console/services"
)

// WidgetService sends one widget-tester turn to the backend.
type WidgetService interface {
	SendTestMessage(ctx context.Context, projectID, message, sessionID string) (models.ChatTurn, error)
}

type Server struct {
	svc  WidgetService
	srv  *http.Server
	page *template.Template
}

var previewPage = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head><title>Widget Preview - {{.ProjectID}}</title></head>
<body>
<h1>Widget Preview</h1>
<p>Project: <code>{{.ProjectID}}</code> &middot; Session: <code>{{.SessionID}}</code></p>
<div id="chat"></div>
<form id="composer">
<input type="text" id="message" placeholder="Ask the bot..." autofocus>
<button type="submit">Send</button>
</form>
<script>
const sessionId = {{.SessionID}};
document.getElementById("composer").addEventListener("submit", async (e) => {
	e.preventDefault();
	const input = document.getElementById("message");
	const text = input.value.trim();
	if (!text) return;
	input.value = "";
	append("you", text);
	const resp = await fetch(window.location.pathname + "/chat", {
		method: "POST",
		headers: {"Content-Type": "application/json"},
		body: JSON.stringify({message: text, session_id: sessionId}),
	});
	const data = await resp.json();
	append("bot", data.response || data.error || "no response");
});
function append(who, text) {
	const div = document.createElement("div");
	div.textContent = who + ": " + text;
	document.getElementById("chat").appendChild(div);
}
</script>
</body>
</html>`))

func NewServer(cfg *config.Config, svc WidgetService) *Server {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("admin-console-preview"))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	s := &Server{
		svc:  svc,
		page: previewPage,
		srv: &http.Server{
			Addr:    cfg.PreviewAddr,
			Handler: router,
		},
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})
	router.GET("/preview/:id", s.renderPage)
	router.POST("/preview/:id/chat", s.relayChat)

	return s
}

func (s *Server) renderPage(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	err := s.page.Execute(c.Writer, gin.H{
		"ProjectID": c.Param("id"),
		"SessionID": services.NewTestSessionID(),
	})
	if err != nil {
		logger.Error("Preview page render failed", "error", err)
	}
}

func (s *Server) relayChat(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	turn, err := s.svc.SendTestMessage(c.Request.Context(), c.Param("id"), req.Message, req.SessionID)
	if err != nil {
		status := http.StatusBadGateway
		if api.IsKind(err, api.KindValidation) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, turn)
}

// Start serves in the background and returns immediately.
func (s *Server) Start() {
	go func() {
		logger.Info("Preview server starting", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Preview server failed", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
