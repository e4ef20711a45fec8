package middleware

import (
	"net/http"

	"github.com/davidbz/howl/internal/http/resp"
	"github.com/davidbz/howl/internal/observability"
	"github.com/davidbz/howl/internal/ratelimit"
)

// RateLimit applies an admission limiter to every request passing through
// it, keyed by the identity resolved earlier in the chain. A denial is
// terminal for the request: fixed 429 response, no retry semantics.
func RateLimit(limiter *ratelimit.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if !limiter.CheckAndConsume(ctx, observability.GetIdentity(ctx)) {
				observability.FromContext(ctx).Warn("access limited",
					observability.String("path", r.URL.Path),
				)
				resp.Error(w, resp.CodeTooManyRequests, "Too many requests, retry later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
