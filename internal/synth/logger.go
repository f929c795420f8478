package synth

import "github.com/tphakala/yieldcast/internal/logger"

// GetLogger returns the synth module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("synth")
}
