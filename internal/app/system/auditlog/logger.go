// Package auditlog provides the action-recording facade used by handlers.
// It appends to the in-memory audit store and mirrors each event to zap so
// the action trail also appears in structured logs.
package auditlog

import (
	"net/http"

	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"go.uber.org/zap"
)

// Destination settings for Config.Actions.
const (
	ModeAll   = "all"   // store + zap
	ModeStore = "store" // store only
	ModeLog   = "log"   // zap only
	ModeOff   = "off"   // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Actions controls where user-action events go: "all", "store",
	// "log", or "off".
	Actions string
}

// Logger records user actions. A nil *Logger is a no-op, which lets tests
// wire handlers without an audit trail.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a Logger over the given store.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// Action records one user-triggered operation. Success and failure paths
// both record exactly one entry; the outcome rides in the details under
// "success" (and "error" when failed), so the log is a complete activity
// record rather than a success record.
func (l *Logger) Action(action string, details map[string]string) {
	if l == nil {
		return
	}

	mode := l.config.Actions
	if mode == "" {
		mode = ModeAll
	}
	if mode == ModeOff {
		return
	}

	if mode == ModeAll || mode == ModeLog {
		l.logToZap(action, details)
	}
	if mode == ModeAll || mode == ModeStore {
		l.store.Record(action, details)
	}
}

// Success records a successful action with optional extra details.
func (l *Logger) Success(action string, details map[string]string) {
	l.Action(action, withOutcome(details, true, ""))
}

// Failure records a failed action with its user-visible error message.
func (l *Logger) Failure(action string, errMsg string, details map[string]string) {
	l.Action(action, withOutcome(details, false, errMsg))
}

// RequestDetails builds a base detail map from the request context (client
// address), for handlers that want it alongside their own fields.
func RequestDetails(r *http.Request) map[string]string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return map[string]string{"ip": ip}
}

func (l *Logger) logToZap(action string, details map[string]string) {
	fields := make([]zap.Field, 0, len(details)+2)
	fields = append(fields, zap.Bool("audit", true), zap.String("action", action))
	for k, v := range details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if details["success"] == "false" {
		l.zapLog.Warn("user action", fields...)
		return
	}
	l.zapLog.Info("user action", fields...)
}

func withOutcome(details map[string]string, success bool, errMsg string) map[string]string {
	out := make(map[string]string, len(details)+2)
	for k, v := range details {
		out[k] = v
	}
	if success {
		out["success"] = "true"
	} else {
		out["success"] = "false"
		if errMsg != "" {
			out["error"] = errMsg
		}
	}
	return out
}
