package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit returns middleware that allows at most requestsPerMinute requests
// per client IP in a sliding one-minute window. Rejected requests are passed
// to onLimit. A limit of zero or less disables limiting.
//
// Place it after chi's RealIP so proxied clients are keyed by their real IP.
func RateLimit(requestsPerMinute int, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	opts := []httprate.Option{httprate.WithKeyFuncs(httprate.KeyByIP)}
	if onLimit != nil {
		opts = append(opts, httprate.WithLimitHandler(onLimit))
	}
	return httprate.Limit(requestsPerMinute, time.Minute, opts...)
}
