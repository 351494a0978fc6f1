package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RequestTimeout bounds every API request
const RequestTimeout = 30 * time.Second

const timeoutBody = `{"error": "Request timeout", "message": "The request took too long to process"}`

// TimeoutMiddleware cancels the request context after timeout and answers
// 503 with a JSON body if the handler has not written a response by then
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		th := http.TimeoutHandler(next, timeout, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			th.ServeHTTP(w, r)
			if time.Since(start) >= timeout {
				zap.S().Warnw("Request timeout",
					"path", r.URL.Path,
					"method", r.Method,
					"timeout", timeout)
			}
		})
	}
}
