// Package audit is the append-only record of user-triggered operations,
// kept for administrative review.
//
// The store is in-memory and session-lifetime by design: it starts empty,
// grows for the life of the process, and is discarded on restart. There is
// no deletion, redaction, or rotation. Unbounded growth over one session is
// an accepted property, not a bug.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action labels for user-triggered operations.
const (
	ActionUpload      = "upload"
	ActionReset       = "reset"
	ActionAnalyze     = "analyze"
	ActionForecast    = "forecast"
	ActionReport      = "report"
	ActionChat        = "chat"
	ActionExport      = "export"
	ActionAuditExport = "audit_export"
	ActionLogin       = "login"
	ActionLogout      = "logout"
)

// Entry is one recorded user action. Entries are never mutated or deleted
// once appended.
type Entry struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details,omitempty"`
}

// Store is an append-only action log with a single logical writer (the
// action-emitting handlers) and shared read access. Construct one per
// application context; tests get a fresh, isolated log.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Record appends one entry with a wall-clock timestamp captured at call
// time. It never fails and never blocks beyond the append itself. The
// details map is copied so later caller mutation cannot reach the log.
func (s *Store) Record(action string, details map[string]string) Entry {
	var cp map[string]string
	if len(details) > 0 {
		cp = make(map[string]string, len(details))
		for k, v := range details {
			cp[k] = v
		}
	}

	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Details:   cp,
	}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return e
}

// List returns the entries most recent first, as a read-only snapshot.
// Entries recorded after List returns are not reflected in the snapshot.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
