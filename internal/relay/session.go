// Package relay bridges a pull-based fragment stream from the upstream model
// to the push-based HTTP response body. A session accepts fragments while
// open, commits the response to an event stream on the first write, and is
// closed exactly once whether the upstream finishes, fails, or the client
// goes away.
package relay

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionClosed is returned by Send after the session reached its
// terminal state.
var ErrSessionClosed = errors.New("relay session is closed")

// Session binds one inbound streaming request to its outbound channel.
// Exactly one goroutine may call Send; concurrent producers are disallowed
// by construction.
type Session struct {
	w         http.ResponseWriter
	flusher   http.Flusher
	padding   string
	committed bool
	closed    bool
}

// NewSession creates a session over the response writer. It fails when the
// writer cannot flush incrementally, in which case nothing has been written
// and the caller can still respond with a structured error.
func NewSession(w http.ResponseWriter, padding *Padding) (*Session, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}

	return &Session{
		w:       w,
		flusher: flusher,
		padding: padding.Token(),
	}, nil
}

// Send writes one fragment followed by the padding token and flushes.
// Empty fragments are skipped entirely: no write, no padding. The first
// non-empty fragment commits the response headers to an event stream,
// after which a structured error body is no longer possible.
func (s *Session) Send(fragment string) error {
	if s.closed {
		return ErrSessionClosed
	}

	if fragment == "" {
		return nil
	}

	if !s.committed {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.committed = true
	}

	if _, err := fmt.Fprint(s.w, fragment, s.padding); err != nil {
		s.closed = true
		return fmt.Errorf("outbound write failed: %w", err)
	}

	s.flusher.Flush()
	return nil
}

// Committed reports whether any byte reached the client. Callers use it to
// decide between a JSON error envelope and a truncated stream on failure.
func (s *Session) Committed() bool {
	return s.committed
}

// Close moves the session to its terminal state. Idempotent; no writes are
// permitted afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.committed {
		s.flusher.Flush()
	}
}
