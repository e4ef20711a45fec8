package middleware

import (
	"net/http"

	"github.com/davidbz/howl/internal/config"
	"github.com/davidbz/howl/internal/ratelimit"
)

// Middleware wraps an http.Handler with additional functionality.
// Middlewares can be composed using the Chain function.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middlewares into a single middleware.
// Middlewares are applied in the order they are provided, with the first
// middleware being the outermost wrapper (executed first on request).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		// Apply in reverse order so first middleware wraps outermost.
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// BuildMiddlewareChain composes the middleware chain for production.
// Order matters: CORS -> Trace -> Identity -> AllowList -> the global
// per-day limiter. Identity must run before anything keyed by it.
func BuildMiddlewareChain(
	corsConfig *config.CORSConfig,
	accessConfig *config.AccessConfig,
	limitConfig *config.RateLimitConfig,
	store ratelimit.Store,
) Middleware {
	daily := ratelimit.New("global", ratelimit.PerDay(limitConfig.PerDay), store)

	return Chain(
		CORS(corsConfig),
		Trace(),
		Identity(accessConfig),
		AllowList(accessConfig),
		RateLimit(daily),
	)
}
