// Package observability wires the Prometheus collectors used by yieldcast.
package observability

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the observability module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("observability")
}
