package controller

import (
	"saas-admin-console/internal/api"
	"saas-admin-console/internal/logger"
	"saas-admin-console/internal/session"
)

// requireAdmin is the mount guard shared by every admin view. Anything
// short of a valid admin session redirects to login and blocks the mount.
func requireAdmin(store session.Store, nav Navigator) bool {
	sess, err := store.Load()
	if err != nil {
		logger.Error("Session load failed", "error", err)
	}
	if !sess.IsAdmin() {
		nav.Navigate("/login")
		return false
	}
	return true
}

// firstAuthErr surfaces an auth failure from a secondary fetch so the whole
// batch is dropped; for any other secondary error it returns nil.
func firstAuthErr(errs ...error) error {
	for _, err := range errs {
		if api.IsKind(err, api.KindAuth) {
			return err
		}
	}
	return nil
}
