// Package metrics provides Prometheus metrics for observability.
package metrics

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the metrics module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("metrics")
}
