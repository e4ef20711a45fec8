package relay

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/howl/internal/config"
	"github.com/davidbz/howl/internal/domain"
)

const testTimeout = time.Second

func feed(chunks ...domain.StreamChunk) <-chan domain.StreamChunk {
	ch := make(chan domain.StreamChunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestPump_PreservesFragmentOrderWithPadding(t *testing.T) {
	w := httptest.NewRecorder()
	session, err := NewSession(w, &Padding{token: "~"})
	require.NoError(t, err)

	err = Pump(context.Background(), session, feed(
		domain.StreamChunk{Delta: "He"},
		domain.StreamChunk{Delta: "llo"},
		domain.StreamChunk{Delta: "!", Done: true},
	), testTimeout)
	require.NoError(t, err)

	require.Equal(t, "He~llo~!~", w.Body.String())
	require.Equal(t, "Hello!", strings.ReplaceAll(w.Body.String(), "~", ""))
	require.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
}

func TestPump_SkipsEmptyFragments(t *testing.T) {
	w := httptest.NewRecorder()
	session, err := NewSession(w, &Padding{token: "~"})
	require.NoError(t, err)

	err = Pump(context.Background(), session, feed(
		domain.StreamChunk{Delta: "a"},
		domain.StreamChunk{Delta: ""},
		domain.StreamChunk{Delta: "b", Done: true},
	), testTimeout)
	require.NoError(t, err)

	// No write and no padding for the empty fragment, and it does not end
	// the stream.
	require.Equal(t, "a~b~", w.Body.String())
}

func TestPump_NoPaddingWhenDisabled(t *testing.T) {
	w := httptest.NewRecorder()
	session, err := NewSession(w, NewPadding(&config.StreamConfig{PaddingSize: 0}))
	require.NoError(t, err)

	err = Pump(context.Background(), session, feed(
		domain.StreamChunk{Delta: "He"},
		domain.StreamChunk{Delta: "llo", Done: true},
	), testTimeout)
	require.NoError(t, err)

	require.Equal(t, "Hello", w.Body.String())
}

func TestPump_ErrorBeforeFirstFragment(t *testing.T) {
	w := httptest.NewRecorder()
	session, err := NewSession(w, &Padding{token: "~"})
	require.NoError(t, err)

	err = Pump(context.Background(), session, feed(
		domain.StreamChunk{Err: errors.New("upstream exploded")},
	), testTimeout)
	require.Error(t, err)

	// Nothing was committed, so the handler can still answer with a
	// structured error envelope.
	require.False(t, session.Committed())
	require.Empty(t, w.Body.String())
	require.Empty(t, w.Header().Get("Content-Type"))
}

func TestPump_ErrorMidStreamLeavesPartialBody(t *testing.T) {
	w := httptest.NewRecorder()
	session, err := NewSession(w, &Padding{token: "~"})
	require.NoError(t, err)

	err = Pump(context.Background(), session, feed(
		domain.StreamChunk{Delta: "partial"},
		domain.StreamChunk{Err: errors.New("upstream exploded")},
	), testTimeout)
	require.Error(t, err)

	require.True(t, session.Committed())
	require.Equal(t, "partial~", w.Body.String())
}

func TestPump_IdleTimeout(t *testing.T) {
	w := httptest.NewRecorder()
	session, err := NewSession(w, &Padding{token: "~"})
	require.NoError(t, err)

	silent := make(chan domain.StreamChunk)
	defer close(silent)

	start := time.Now()
	err = Pump(context.Background(), session, silent, 20*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no fragment")
	require.Less(t, time.Since(start), testTimeout)
}

func TestPump_ClientDisconnectStopsPulling(t *testing.T) {
	w := httptest.NewRecorder()
	session, err := NewSession(w, &Padding{token: "~"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	silent := make(chan domain.StreamChunk)
	defer close(silent)

	err = Pump(ctx, session, silent, testTimeout)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSession_SendAfterCloseFails(t *testing.T) {
	session, err := NewSession(httptest.NewRecorder(), &Padding{token: "~"})
	require.NoError(t, err)

	require.NoError(t, session.Send("x"))
	session.Close()
	session.Close() // idempotent

	require.ErrorIs(t, session.Send("y"), ErrSessionClosed)
}

func TestNewPadding_TokenProperties(t *testing.T) {
	padding := NewPadding(&config.StreamConfig{PaddingSize: 32})
	require.Len(t, padding.Token(), 32)
	// Stable for the lifetime of the value.
	require.Equal(t, padding.Token(), padding.Token())

	disabled := NewPadding(&config.StreamConfig{PaddingSize: 0})
	require.Empty(t, disabled.Token())
}
