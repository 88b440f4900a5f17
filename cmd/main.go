package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saas-admin-console/internal/api"
	"saas-admin-console/internal/bus"
	"saas-admin-console/internal/config"
	"saas-admin-console/internal/controller"
	"saas-admin-console/internal/logger"
	"saas-admin-console/internal/preview"
	"saas-admin-console/internal/session"
	"saas-admin-console/internal/telemetry"
	"saas-admin-console/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Initialize tracing (no-op when no endpoint is configured)
	shutdownTracer, err := telemetry.InitTracer("saas-admin-console", cfg.OTELEndpoint)
	if err != nil {
		log.Fatal("Failed to initialize tracer:", err)
	}
	defer shutdownTracer()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	store, err := session.NewStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize session store:", err)
	}

	nav := &controller.LogNavigator{}
	client := api.NewClient(cfg, store, nav, metrics)
	svc := services.NewAdminService(client, store)
	eventBus := bus.New(metrics)

	ctx := context.Background()

	// Reuse a persisted session when one survives validation, otherwise log
	// in with the credentials from the environment.
	sess, err := store.Load()
	if err != nil {
		logger.Warn("Session load failed", "error", err)
	}
	if !sess.IsAdmin() {
		email := os.Getenv("ADMIN_EMAIL")
		password := os.Getenv("ADMIN_PASSWORD")
		if email == "" || password == "" {
			log.Fatal("No valid session; set ADMIN_EMAIL and ADMIN_PASSWORD to log in")
		}
		sess, err = svc.Login(ctx, email, password)
		if err != nil {
			log.Fatal("Login failed:", err)
		}
		if !sess.IsAdmin() {
			log.Fatalf("Account %s is not an admin", sess.User.Email)
		}
	}
	logger.Info("Logged in", "email", sess.User.Email)

	// Background session revalidation
	watchdog := controller.NewSessionWatchdog(store, nav)
	if err := watchdog.Start(cfg.SessionCheckInterval); err != nil {
		log.Fatal("Failed to start session watchdog:", err)
	}
	defer watchdog.Stop()

	// Mount the admin views
	dashboard := controller.NewDashboardController(svc, store, eventBus, nav, metrics)
	if err := dashboard.Mount(ctx, cfg.PollInterval); err != nil {
		if errors.Is(err, controller.ErrNotAuthenticated) {
			log.Fatal("Session rejected at mount; log in again")
		}
		log.Fatal("Failed to mount dashboard:", err)
	}
	defer dashboard.Close()

	projectList := controller.NewProjectListController(svc, store, eventBus, nav, nil, metrics)
	if err := projectList.Mount(ctx, cfg.PollInterval); err != nil {
		log.Fatal("Failed to mount project list:", err)
	}
	defer projectList.Close()

	// Widget preview server
	previewSrv := preview.NewServer(cfg, svc)
	previewSrv.Start()

	logger.Info("Admin console running",
		"api", cfg.APIBaseURL,
		"preview", cfg.PreviewAddr,
		"projects", len(projectList.Projects()),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := previewSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Preview server shutdown failed", "error", err)
	}
}
