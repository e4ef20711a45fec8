package middleware

import (
	"net"
	"net/http"

	"github.com/davidbz/howl/internal/config"
	"github.com/davidbz/howl/internal/observability"
)

// Identity resolves the string that keys rate-limit counters for this
// request. Proxied deployments carry the real client address in a header;
// otherwise the transport peer address is used.
func Identity(cfg *config.AccessConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := ""
			if cfg != nil && cfg.IdentityHeader != "" {
				identity = r.Header.Get(cfg.IdentityHeader)
			}

			if identity == "" {
				host, _, err := net.SplitHostPort(r.RemoteAddr)
				if err != nil {
					host = r.RemoteAddr
				}
				identity = host
			}

			ctx := observability.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
