package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/jobrpc/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that bounds the request context. Operation
// handlers receive the bounded context, so store and queue calls stop at
// the deadline; context.Cause reports a *TimeoutError.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeoutCause(r.Context(), timeout, &TimeoutError{Duration: timeout})
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
