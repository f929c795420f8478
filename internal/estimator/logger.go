package estimator

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the estimator module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("estimator")
}
