package forest

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the forest module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("forest")
}
