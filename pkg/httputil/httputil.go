// Package httputil provides shared HTTP client construction for backend
// calls. It centralizes timeout defaults so the TTS backends, the extractor
// and the CLI agree on them.
package httputil

import (
	"net/http"
	"time"
)

// Standard timeout defaults.
const (
	// DefaultSynthesisTimeout bounds one TTS request. A full-size chunk can
	// take minutes of model time to speak.
	DefaultSynthesisTimeout = 5 * time.Minute

	// DefaultExtractionTimeout bounds one document extraction request, which
	// uploads a whole PDF and returns its full text.
	DefaultExtractionTimeout = 10 * time.Minute
)

// NewHTTPClient returns an *http.Client configured with the given timeout.
// Pass one of the Default*Timeout constants, or a custom duration.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
