package worker

import (
	"sync"
	"time"
)

// Status is the outcome of the latest scan run.
type Status struct {
	LoggedIn  bool      `json:"loggedIn"`
	LastRunAt time.Time `json:"lastRunAt"`
	LastError string    `json:"lastError,omitempty"`
	Processed int       `json:"processed"`
	Deals     int       `json:"deals"`
}

// Succeeded reports whether at least one run finished and the latest one had no error.
func (s Status) Succeeded() bool {
	return !s.LastRunAt.IsZero() && s.LastError == ""
}

// StatusTracker is shared between the scanner loop and the ops server.
type StatusTracker struct {
	mu     sync.RWMutex
	status Status
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{}
}

func (t *StatusTracker) Snapshot() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.status
}

// Ready считает сканер готовым, пока сессия залогинена или последний прогон прошел без ошибок.
func (t *StatusTracker) Ready() (bool, any) {
	status := t.Snapshot()

	return status.LoggedIn || status.Succeeded(), status
}

func (t *StatusTracker) setLoggedIn(loggedIn bool) {
	t.mu.Lock()
	t.status.LoggedIn = loggedIn
	t.mu.Unlock()
}

func (t *StatusTracker) finish(at time.Time, report Report, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.LastRunAt = at
	t.status.Processed = report.Processed
	t.status.Deals = report.Deals
	t.status.LastError = ""

	if err != nil {
		t.status.LastError = err.Error()
	}
}
