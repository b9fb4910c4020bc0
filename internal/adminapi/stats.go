package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cast"

	"github.com/farmanet/asisbot/internal/webserver"
	"github.com/farmanet/asisbot/pkg/metrics"
)

func registerStatsRoutes() {
	webserver.ApiGET("/stats/chat", chatStats)
}

// chatStats reports pipeline counters plus latency aggregates over the
// requested window (default 24h).
func chatStats(c echo.Context) error {
	hours := cast.ToInt64(c.QueryParam("hours"))
	if hours <= 0 {
		hours = 24
	}
	end := time.Now().Unix()
	start := end - hours*3600

	points := metrics.QueryRange(metrics.ChatLatencyMs, start, end)
	latencies := make(stats.Float64Data, 0, len(points))
	for _, p := range points {
		latencies = append(latencies, p.Value)
	}

	var meanMs, p95Ms float64
	if len(latencies) > 0 {
		meanMs, _ = stats.Mean(latencies)
		p95Ms, _ = stats.Percentile(latencies, 95)
	}

	return c.JSON(http.StatusOK, webResult{Code: 0, Data: map[string]interface{}{
		"requests":           metrics.CounterValue(metrics.ChatRequests),
		"answered":           metrics.CounterValue(metrics.ChatAnswered),
		"no_terms":           metrics.CounterValue(metrics.ChatNoTerms),
		"no_candidates":      metrics.CounterValue(metrics.ChatNoCandidates),
		"fallback":           metrics.CounterValue(metrics.ChatFallback),
		"conversation_saved": metrics.CounterValue(metrics.ConversationSaved),
		"conversation_lost":  metrics.CounterValue(metrics.ConversationLost),
		"latency_mean_ms":    meanMs,
		"latency_p95_ms":     p95Ms,
		"window_hours":       hours,
	}})
}
