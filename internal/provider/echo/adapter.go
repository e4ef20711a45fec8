// Package echo provides a testing completer that echoes back input messages.
// It implements the domain.Completer interface without making external API
// calls, providing deterministic responses for testing and development.
package echo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/howl/internal/domain"
	"github.com/davidbz/howl/internal/observability"
)

const (
	chunkDelay = 10 * time.Millisecond
	imageURL   = "https://example.invalid/echo.png"
)

// Provider implements the domain.Completer interface for echo testing.
type Provider struct {
	delay time.Duration
}

// NewProvider creates a new echo provider.
// No configuration is required as this provider operates entirely in-memory.
func NewProvider() *Provider {
	return &Provider{
		delay: chunkDelay,
	}
}

// Complete returns the echoed message.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echoing request")

	return buildEcho(req), nil
}

// Stream returns the echoed message as word-sized fragments.
func (p *Provider) Stream(ctx context.Context, req *domain.CompletionRequest) (<-chan domain.StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("streaming echo request")

	words := strings.SplitAfter(buildEcho(req), " ")
	chunks := make(chan domain.StreamChunk)

	go func() {
		defer close(chunks)

		for i, word := range words {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.delay):
			}

			select {
			case chunks <- domain.StreamChunk{Delta: word, Done: i == len(words)-1}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, nil
}

// Translate returns a deterministic per-language rendering of the text.
func (p *Provider) Translate(_ context.Context, text, _ string, targetLangs []string) (map[string]string, error) {
	translations := make(map[string]string, len(targetLangs))
	for _, lang := range targetLangs {
		translations[lang] = fmt.Sprintf("%s:%s", lang, text)
	}
	return translations, nil
}

// DrawImage returns a fixed URL.
func (p *Provider) DrawImage(_ context.Context, _ string) (string, error) {
	return imageURL, nil
}

func buildEcho(req *domain.CompletionRequest) string {
	return "echo: " + req.Message
}
