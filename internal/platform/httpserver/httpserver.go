package httpserver

import (
	"net/http"
	"time"
)

// New builds the registry's HTTP server. The write timeout leaves headroom
// for the synchronous anchoring paths, which hold the request while waiting
// for ledger confirmation.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
