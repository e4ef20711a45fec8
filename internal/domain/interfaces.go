package domain

import "context"

// Completer is the upstream model client.
type Completer interface {
	// Complete sends a completion request and returns the full answer text.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// Stream sends a completion request and returns a stream of fragments.
	// The channel is closed exactly once when the upstream sequence ends.
	Stream(ctx context.Context, req *CompletionRequest) (<-chan StreamChunk, error)

	// Translate renders text into each target language and returns a
	// languageCode -> translatedText mapping.
	Translate(ctx context.Context, text, sourceLang string, targetLangs []string) (map[string]string, error)

	// DrawImage generates an image for the description and returns its URL.
	// An empty URL means the upstream explicitly returned no image.
	DrawImage(ctx context.Context, description string) (string, error)
}
