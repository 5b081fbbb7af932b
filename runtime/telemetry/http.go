package telemetry

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/itai-levin/paper-to-audio/pkg/httputil"
)

// NewHTTPClient returns an HTTP client whose transport creates a client span
// per request and injects trace headers using the global propagator.
func NewHTTPClient(timeout time.Duration) *http.Client {
	client := httputil.NewHTTPClient(timeout)
	client.Transport = otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return client
}
