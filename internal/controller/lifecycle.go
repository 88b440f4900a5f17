package controller

import (
	"sync"
	"time"

	"saas-admin-console/internal/api"
	"saas-admin-console/internal/logger"
	"saas-admin-console/internal/telemetry"
)

// State is the fetch lifecycle of a mounted view.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateErrored State = "errored"
)

// lifecycle is the shared mount/refresh/poll machinery embedded by every
// view controller. All state transitions are serialized on mu; batch
// results commit only when their generation is still current, so a refresh
// started later always wins over one that merely finished later.
type lifecycle struct {
	mu      sync.Mutex
	name    string
	state   State
	lastErr error
	gen     uint64
	visible bool
	closed  bool
	done    chan struct{}
	pollWG  sync.WaitGroup
	unsubs  []func()
	metrics *telemetry.Metrics
}

func (l *lifecycle) init(name string, metrics *telemetry.Metrics) {
	l.name = name
	l.state = StateIdle
	l.visible = true
	l.done = make(chan struct{})
	l.metrics = metrics
}

func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error behind StateErrored, nil otherwise.
func (l *lifecycle) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// SetVisible gates the poll ticker. Ticks that fire while the view is
// hidden are skipped; the next visible tick refreshes as usual.
func (l *lifecycle) SetVisible(v bool) {
	l.mu.Lock()
	l.visible = v
	l.mu.Unlock()
}

func (l *lifecycle) isVisible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// begin opens a new fetch batch and returns its generation. A false return
// means the controller is closed and nothing should be fetched.
func (l *lifecycle) begin() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, false
	}
	l.gen++
	l.state = StateLoading
	return l.gen, true
}

// commit settles the batch identified by gen. Results from a superseded or
// closed batch are discarded without touching state. On auth failure the
// whole batch is dropped since the client already redirected to login. On
// any other primary failure the view moves to Errored; otherwise apply runs
// under the lock and the view becomes Ready.
func (l *lifecycle) commit(gen uint64, primaryErr error, apply func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.gen {
		l.record("superseded")
		return
	}

	if primaryErr != nil {
		if api.IsKind(primaryErr, api.KindAuth) {
			l.state = StateIdle
			l.lastErr = nil
			l.record("auth")
			return
		}
		l.state = StateErrored
		l.lastErr = primaryErr
		l.record("error")
		logger.Error("View refresh failed", "view", l.name, "error", primaryErr)
		return
	}

	if apply != nil {
		apply()
	}
	l.state = StateReady
	l.lastErr = nil
	l.record("ok")
}

func (l *lifecycle) record(outcome string) {
	if l.metrics != nil {
		l.metrics.RecordRefresh(l.name, outcome)
	}
}

// startPolling refreshes on a fixed interval while the view is visible.
// A non-positive interval disables polling.
func (l *lifecycle) startPolling(interval time.Duration, refresh func()) {
	if interval <= 0 {
		return
	}
	l.pollWG.Add(1)
	go func() {
		defer l.pollWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-l.done:
				return
			case <-ticker.C:
				if l.isVisible() {
					refresh()
				}
			}
		}
	}()
}

// addUnsub registers an event-bus unsubscribe to run on Close.
func (l *lifecycle) addUnsub(f func()) {
	l.mu.Lock()
	l.unsubs = append(l.unsubs, f)
	l.mu.Unlock()
}

// Close stops polling, drops any in-flight batch, and unsubscribes from the
// bus. Safe to call more than once.
func (l *lifecycle) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.gen++
	unsubs := l.unsubs
	l.unsubs = nil
	close(l.done)
	l.mu.Unlock()

	l.pollWG.Wait()
	for _, f := range unsubs {
		f()
	}
}
