// Package server manages HTTP server lifecycle: non-blocking start,
// graceful shutdown, and signal handling.
//
// Manager wraps net/http.Server with a listener, an asynchronous error
// channel, and SIGINT/SIGTERM handling, so the API and metrics servers
// share one shutdown path.
package server
