package server

import "time"

const (
	readTimeout = 10 * time.Second
	// Long write timeout: /ws connections hijack out of the server's
	// deadline handling, but plain responses should still be bounded.
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
