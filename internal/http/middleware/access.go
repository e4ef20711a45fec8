package middleware

import (
	"net/http"
	"slices"

	"github.com/davidbz/howl/internal/config"
	"github.com/davidbz/howl/internal/http/resp"
	"github.com/davidbz/howl/internal/observability"
)

// AllowList gates all traffic behind a shared key when an allow list is
// configured. The key is read from the configured header, falling back to
// the "key" query parameter so links can carry it. An empty allow list
// disables the check.
func AllowList(cfg *config.AccessConfig) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil || len(cfg.AllowList) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(cfg.KeyHeader)
			if key == "" {
				key = r.URL.Query().Get("key")
			}

			if !slices.Contains(cfg.AllowList, key) {
				observability.FromContext(r.Context()).Warn("permission block",
					observability.String("path", r.URL.Path),
				)
				resp.Error(w, resp.CodeForbidden, "no permission")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
