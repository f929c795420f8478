package chart

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the chart module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("chart")
}
