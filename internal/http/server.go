package http

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/davidbz/howl/internal/config"
	"github.com/davidbz/howl/internal/http/middleware"
	"github.com/davidbz/howl/internal/http/resp"
	"github.com/davidbz/howl/internal/observability"
	"github.com/davidbz/howl/internal/ratelimit"
)

// Server represents the HTTP server.
type Server struct {
	config      config.ServerConfig
	limits      config.RateLimitConfig
	store       ratelimit.Store
	handler     *Handler
	middlewares middleware.Middleware
	srv         *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg *config.Config,
	handler *Handler,
	middlewares middleware.Middleware,
	store ratelimit.Store,
) *Server {
	return &Server{
		config:      cfg.Server,
		limits:      cfg.RateLimit,
		store:       store,
		handler:     handler,
		middlewares: middlewares,
		srv:         nil,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	// Apply middleware chain.
	handlerWithMiddleware := s.middlewares(s.routes())

	// Create server with timeouts.
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      handlerWithMiddleware,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
	}

	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.Int("port", s.config.Port))

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// routes builds the request router.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes, dispatched by method and path. Every route that needs
	// protection declares its own per-minute ceiling; the shared per-day
	// ceiling sits in the global middleware chain. A method mismatch falls
	// through to the static catch-all and its not-found envelope.
	mux.Handle("POST /message", s.protect("message", s.handler.HandleMessage))
	mux.Handle("POST /message-stream", s.protect("message-stream", s.handler.HandleMessageStream))
	mux.Handle("GET /message-stream-salt", s.route("message-stream-salt", http.HandlerFunc(s.handler.HandleStreamSalt)))
	mux.Handle("POST /translate", s.protect("translate", s.handler.HandleTranslate))
	mux.Handle("POST /draw-image", s.protect("draw-image", s.handler.HandleDrawImage))
	mux.Handle("POST /wechat-message", s.protect("wechat-message", s.handler.HandleWechatMessage))
	mux.Handle("POST /file/upload", s.protect("file-upload", s.handler.HandleUpload))
	mux.HandleFunc("GET /health", s.handler.HandleHealth)

	// Uploaded files.
	mux.Handle("GET /files/", http.StripPrefix("/files/",
		http.FileServer(http.Dir(s.handler.uploads.Dir()))))

	// Static front end, with the 404 envelope as fallback.
	mux.HandleFunc("/", s.handleStatic)

	return mux
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	if s.srv == nil {
		return nil
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// protect wraps a handler with its own per-minute admission window.
func (s *Server) protect(routeName string, fn http.HandlerFunc) http.Handler {
	limiter := ratelimit.New(routeName, ratelimit.PerMinute(s.limits.PerMinute), s.store)
	return s.route(routeName, middleware.RateLimit(limiter)(fn))
}

// route tags requests with the route name for admission and handler logging.
func (s *Server) route(routeName string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRoute(r.Context(), routeName)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleStatic serves the front end; anything that is not a file under the
// static dir gets the fixed not-found envelope.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && s.config.StaticDir != "" {
		rel := r.URL.Path
		if rel == "/" {
			rel = "/index.html"
		}

		path := filepath.Join(s.config.StaticDir, filepath.Clean(rel))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
	}

	resp.Error(w, resp.CodeNotFound, "not found")
}
