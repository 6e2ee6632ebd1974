package utils

import (
	"io"

	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

// CloseLogged closes c and logs a warning on error. Meant for shutdown paths
// where there is nothing left to do with the error.
func CloseLogged(c io.Closer, what string, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close "+what, logger.Error(err))
	}
}
