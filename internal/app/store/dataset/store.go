// Package dataset owns the session-scoped water-level point sets: the
// historical samples from the most recent upload and the forecast produced
// from them. Both sets are replaced wholesale, never edited in place, and
// are discarded when the process exits; persistence across reloads is out
// of scope for this app.
package dataset

import (
	"sync"
	"time"

	"github.com/deephydro/hydrodash/internal/domain/series"
	"github.com/google/uuid"
)

// Metrics are the forecast accuracy figures reported by the DeepHydro
// service alongside a forecast.
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// Store holds the point sets for one running session.
//
// Logically there is a single writer (the action-handling flow); the mutex
// exists because Go serves HTTP handlers concurrently and snapshot reads
// must stay memory-safe, not because the design admits concurrent writers.
// Two overlapping forecast requests remain a tolerated race: the last one
// to land overwrites the forecast set.
type Store struct {
	mu sync.RWMutex

	uploadID   string
	historical []series.HistoricalPoint

	forecast        []series.ForecastPoint
	forecastMetrics *Metrics

	chat []ChatMessage

	generation uint64
	uploadedAt time.Time
}

// ChatMessage is one turn of the session's assistant conversation. The
// history is session state like the point sets and is cleared with them.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// SetHistorical replaces the historical set wholesale with the result of a
// successful upload and clears any forecast and chat context derived from
// the previous dataset. Returns the upload ID assigned to the new set.
func (s *Store) SetHistorical(points []series.HistoricalPoint) string {
	cp := append([]series.HistoricalPoint(nil), points...)
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadID = id
	s.historical = cp
	s.forecast = nil
	s.forecastMetrics = nil
	s.chat = nil
	s.generation++
	s.uploadedAt = time.Now().UTC()
	return id
}

// Historical returns a snapshot of the current historical set. The snapshot
// does not reflect later replacements.
func (s *Store) Historical() []series.HistoricalPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]series.HistoricalPoint(nil), s.historical...)
}

// HasData reports whether a dataset is loaded.
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.historical) > 0
}

// UploadID returns the ID of the current historical set, or "" when empty.
func (s *Store) UploadID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploadID
}

// SetForecast replaces the forecast set and its accuracy metrics. The
// previous forecast, if any, is discarded; a failed forecast call never
// reaches this method, so prior state survives failures untouched.
func (s *Store) SetForecast(points []series.ForecastPoint, m Metrics) {
	cp := append([]series.ForecastPoint(nil), points...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forecast = cp
	s.forecastMetrics = &m
	s.generation++
}

// Forecast returns a snapshot of the forecast set and, when a forecast is
// present, its metrics.
func (s *Store) Forecast() ([]series.ForecastPoint, *Metrics) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var m *Metrics
	if s.forecastMetrics != nil {
		cp := *s.forecastMetrics
		m = &cp
	}
	return append([]series.ForecastPoint(nil), s.forecast...), m
}

// Combined merges the current historical and forecast snapshots into the
// display-ready sequence. Derived on demand, never stored.
func (s *Store) Combined() []series.CombinedEntry {
	s.mu.RLock()
	h := s.historical
	f := s.forecast
	s.mu.RUnlock()
	return series.Merge(h, f)
}

// AppendChat adds one message to the session chat history and returns a
// snapshot of the full history including it.
func (s *Store) AppendChat(m ChatMessage) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, m)
	return append([]ChatMessage(nil), s.chat...)
}

// Chat returns a snapshot of the session chat history.
func (s *Store) Chat() []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ChatMessage(nil), s.chat...)
}

// Reset clears all session data: points, metrics, and chat history.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadID = ""
	s.historical = nil
	s.forecast = nil
	s.forecastMetrics = nil
	s.chat = nil
	s.generation++
}

// Generation returns a counter that increments on every replacement. It
// makes the last-write-wins forecast race observable to callers that care.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
