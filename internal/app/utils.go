package app

import (
	"net/http"
	"time"

	"linkdash/internal/config"

	"go.uber.org/zap"
)

// CreateServer creates and configures an HTTP server.
func CreateServer(c *config.Config, handler http.Handler, logger *zap.SugaredLogger) *http.Server {
	logger.Infof("Dashboard at http://%s, API at %s", c.Addr, c.APIBaseURL)

	return &http.Server{
		Addr:              c.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 20 * time.Second,
	}
}
