package predict

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the predict command logger
func GetLogger() logger.Logger {
	return logger.Global().Module("predict")
}
