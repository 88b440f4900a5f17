package controller

import (
	"time"

	"github.com/go-co-op/gocron"

	"saas-admin-console/internal/logger"
	"saas-admin-console/internal/session"
)

// SessionWatchdog revalidates the persisted session in the background so an
// expired token is caught between user actions, not just on the next
// request. A failed check redirects to the login view.
type SessionWatchdog struct {
	scheduler *gocron.Scheduler
	store     session.Store
	nav       Navigator
}

func NewSessionWatchdog(store session.Store, nav Navigator) *SessionWatchdog {
	return &SessionWatchdog{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		nav:       nav,
	}
}

func (w *SessionWatchdog) Start(interval time.Duration) error {
	if _, err := w.scheduler.Every(interval).Do(w.check); err != nil {
		return err
	}
	w.scheduler.StartAsync()
	return nil
}

func (w *SessionWatchdog) Stop() {
	w.scheduler.Stop()
}

func (w *SessionWatchdog) check() {
	sess, err := w.store.Load()
	if err != nil {
		logger.Warn("Session check failed", "error", err)
		return
	}
	if !sess.IsAdmin() {
		logger.Info("Session missing or expired, redirecting to login")
		w.nav.Navigate("/login")
	}
}
