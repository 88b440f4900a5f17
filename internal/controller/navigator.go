package controller

import (
	"errors"
	"sync"

	"saas-admin-console/internal/logger"
)

// ErrNotAuthenticated is returned by Mount when no admin session exists;
// the redirect to the login view has already been issued.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrCancelled is returned when a destructive action is declined at the
// confirmation step; no request was sent.
var ErrCancelled = errors.New("action cancelled")

// Navigator is the injected routing capability. Controllers treat it as
// opaque; they never inspect history.
type Navigator interface {
	Navigate(path string)
}

// Confirmer gates destructive actions. A nil Confirmer means the host has
// already confirmed.
type Confirmer func(prompt string) bool

// LogNavigator records the current route and surfaces changes to the
// operator. It stands in for client-side routing in a console host.
type LogNavigator struct {
	mu      sync.Mutex
	current string
}

func (n *LogNavigator) Navigate(path string) {
	n.mu.Lock()
	n.current = path
	n.mu.Unlock()
	logger.Info("Navigating", "path", path)
}

func (n *LogNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
