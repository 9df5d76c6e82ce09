package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesFetched     int64
	SourcesFailed      int64
	ArticlesFetched    int64
	DuplicatesFiltered int64
	RelayFailures      int64
	Refreshes          int64
	ImagesBackfilled   int64
	DigestsGenerated   int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementSourcesFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementRelayFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelayFailures++
}

func (m *Metrics) IncrementRefreshes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
}

func (m *Metrics) IncrementImagesBackfilled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesBackfilled++
}

func (m *Metrics) IncrementDigestsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsGenerated++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_fetched":            m.SourcesFetched,
		"sources_failed":             m.SourcesFailed,
		"articles_fetched":           m.ArticlesFetched,
		"duplicates_filtered":        m.DuplicatesFiltered,
		"relay_failures":             m.RelayFailures,
		"refreshes":                  m.Refreshes,
		"images_backfilled":          m.ImagesBackfilled,
		"digests_generated":          m.DigestsGenerated,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
