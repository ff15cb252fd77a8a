package server

import (
	"net/http"

	"github.com/AlibekovAA/microblog/internal/common/config"
	"github.com/AlibekovAA/microblog/internal/common/constants"
)

// NewServer builds the HTTP server from the loaded configuration. The write
// timeout is raised when needed so a handler hitting its own request or
// search deadline can still write the timeout response.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	writeTimeout := cfg.WriteTimeout
	if floor := max(cfg.RequestTimeout, cfg.SearchTimeout) + constants.ServerWriteSlack; writeTimeout < floor {
		writeTimeout = floor
	}

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
