// Package metrics keeps lightweight operational counters and gauges in
// an embedded tstorage time-series database under the application
// workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

var (
	storage  tstorage.Storage
	mu       sync.Mutex
	counters = make(map[string]int64)
)

// Well known metric names
const (
	ChatRequests      = "chat_requests"
	ChatNoTerms       = "chat_no_terms"
	ChatNoCandidates  = "chat_no_candidates"
	ChatAnswered      = "chat_answered"
	ChatFallback      = "chat_fallback"
	ChatLatencyMs     = "chat_latency_ms"
	SystemCPUUse      = "system_cpuuse"
	SystemMemUse      = "system_memuse"
	ProcessCPUUse     = "asisbot_cpuuse"
	ProcessMemUse     = "asisbot_memuse"
	ConversationSaved = "conversation_saved"
	ConversationLost  = "conversation_lost"
)

// InitMetrics opens the embedded metrics store under workdir/data/metrics
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

// Close flushes and closes the metrics store
func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}

func insert(name string, value float64) {
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{
		{Metric: name, DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value}},
	})
	if err != nil {
		zap.S().Debugf("metrics insert %s error: %s", name, err.Error())
	}
}

// SetGauge records an instantaneous gauge value
func SetGauge(name string, value int64) {
	insert(name, float64(value))
}

// IncrCounter bumps a monotonic counter and records its running total
func IncrCounter(name string, delta int64) {
	mu.Lock()
	counters[name] += delta
	total := counters[name]
	mu.Unlock()
	insert(name, float64(total))
}

// CounterValue returns the in-process running total of a counter
func CounterValue(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// QueryRange returns raw data points for a metric between start and
// end unix seconds. A missing metric yields an empty slice.
func QueryRange(name string, start, end int64) []*tstorage.DataPoint {
	if storage == nil {
		return nil
	}
	points, err := storage.Select(name, nil, start, end)
	if err != nil {
		return nil
	}
	return points
}
