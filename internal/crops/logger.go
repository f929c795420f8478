package crops

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the crops module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("crops")
}
