// Package httpserver builds the kiosk-facing HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server with timeouts sized for this service: scan replies
// are small JSON bodies, but certificate renders stream PDFs, so the write
// timeout leaves headroom for them. Kiosks keep connections open between
// badge scans, hence the long idle timeout.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
