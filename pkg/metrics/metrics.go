package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/penglongli/gin-metrics/ginmetrics"
	"go.uber.org/zap"
)

const authAttemptsMetric = "employee_api_auth_attempts_total"

var (
	registerOnce sync.Once
	registered   atomic.Bool
)

// GetMonitor configures the process-wide gin-metrics monitor and registers
// the service's own metrics on it.
func GetMonitor(path string) *ginmetrics.Monitor {
	m := ginmetrics.GetMonitor()
	m.SetMetricPath(path)
	m.SetSlowTime(1)
	// request duration buckets, used for p95/p99
	m.SetDuration([]float64{0.05, 0.1, 0.2, 0.3, 0.5, 1, 2, 5})

	registerOnce.Do(func() {
		err := m.AddMetric(&ginmetrics.Metric{
			Type:        ginmetrics.Counter,
			Name:        authAttemptsMetric,
			Description: "signup and login attempts by outcome",
			Labels:      []string{"action", "outcome"},
		})
		if err != nil {
			zap.L().Warn("Failed to register auth metric", zap.Error(err))
			return
		}
		registered.Store(true)
	})

	return m
}

// ObserveAuth counts a signup or login attempt. It is a no-op until
// GetMonitor has run, so handlers can call it with metrics disabled.
func ObserveAuth(action, outcome string) {
	if !registered.Load() {
		return
	}
	if err := ginmetrics.GetMonitor().GetMetric(authAttemptsMetric).Inc([]string{action, outcome}); err != nil {
		zap.L().Debug("Failed to record auth metric", zap.Error(err))
	}
}
