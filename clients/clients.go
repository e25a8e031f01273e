package clients

import (
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// HTTP is a JSON client shared by the auxiliary service calls.
type HTTP struct{ c *http.Client }

// NewHTTP returns a client with the given per-request timeout; zero or
// negative means 60s.
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTP{c: &http.Client{Timeout: timeout}}
}
