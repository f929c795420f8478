package cmd

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the logger for command setup
func GetLogger() logger.Logger {
	return logger.Global().Module("cmd")
}
