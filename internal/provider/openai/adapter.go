// Package openai provides the upstream model client using the official SDK.
// It implements the domain.Completer interface and handles conversion between
// conversation turns and SDK message types. No retries and no caching: a
// single upstream failure surfaces immediately to the caller.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/howl/internal/domain"
	"github.com/davidbz/howl/internal/observability"
)

// Provider implements the domain.Completer interface for OpenAI.
type Provider struct {
	client openai.Client
	model  string
}

// NewProvider creates a new OpenAI provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	// Always set, even at zero: the SDK retries failed calls twice on its
	// own otherwise, and a failing call must not hit the upstream more than
	// once.
	opts = append(opts, option.WithMaxRetries(config.MaxRetries))

	return &Provider{
		client: openai.NewClient(opts...),
		model:  config.Model,
	}, nil
}

// Complete sends a completion request and returns the full answer text.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI API")

	params := p.toSDKParams(req)

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI API call failed", observability.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	// A missing answer field is not a transport failure; report it as an
	// explicit empty-result condition.
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domain.ErrEmptyAnswer
	}

	logger.Debug("OpenAI API call succeeded",
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return resp.Choices[0].Message.Content, nil
}

// Stream sends a completion request and returns a stream of fragments.
func (p *Provider) Stream(ctx context.Context, req *domain.CompletionRequest) (<-chan domain.StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI streaming API")

	params := p.toSDKParams(req)
	stream := p.client.Chat.Completions.NewStreaming(ctx, params)

	chunks := make(chan domain.StreamChunk)

	go func() {
		defer close(chunks)
		defer logger.Debug("OpenAI stream completed")

		for stream.Next() {
			chunk := stream.Current()

			if len(chunk.Choices) == 0 {
				continue
			}

			delta := chunk.Choices[0].Delta.Content
			done := chunk.Choices[0].FinishReason != ""

			select {
			case chunks <- domain.StreamChunk{Delta: delta, Done: done}:
			case <-ctx.Done():
				return
			}

			if done {
				return
			}
		}

		if err := stream.Err(); err != nil && !errors.Is(err, io.EOF) {
			select {
			case chunks <- domain.StreamChunk{Err: fmt.Errorf("OpenAI stream error: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return chunks, nil
}

// Translate renders text into each target language via a JSON-mode completion
// and returns a languageCode -> translatedText mapping.
func (p *Provider) Translate(ctx context.Context, text, sourceLang string, targetLangs []string) (map[string]string, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI translate")

	prompt := fmt.Sprintf(
		"Translate the text delimited by triple quotes from %s into each of these languages: %s. "+
			"Respond with a single flat JSON object whose keys are the language codes and whose values are the translations. "+
			"\"\"\"%s\"\"\"",
		sourceLang, strings.Join(targetLangs, ", "), text,
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI translate call failed", observability.Error(err))
		return nil, fmt.Errorf("OpenAI translate call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, domain.ErrEmptyAnswer
	}

	raw := resp.Choices[0].Message.Content

	// A broken translation is worse than a visible error; never swallow a
	// parse failure.
	var translations map[string]string
	if err := json.Unmarshal([]byte(raw), &translations); err != nil {
		logger.Error("translate response failed to parse",
			observability.Error(err),
			observability.String("raw", raw),
		)
		return nil, &domain.MalformedResponseError{Raw: raw, Err: err}
	}

	return translations, nil
}

// DrawImage generates an image for the description and returns its URL.
func (p *Provider) DrawImage(ctx context.Context, description string) (string, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI image API")

	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: description,
		N:      openai.Int(1),
	})
	if err != nil {
		logger.Error("OpenAI image call failed", observability.Error(err))
		return "", fmt.Errorf("OpenAI image call failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return "", nil
	}

	return resp.Data[0].URL, nil
}

// toSDKParams converts a completion request to SDK ChatCompletionNewParams.
func (p *Provider) toSDKParams(req *domain.CompletionRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Context)+1)
	for _, turn := range req.Context {
		switch turn.Type {
		case domain.TurnAnswer:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	messages = append(messages, openai.UserMessage(req.Message))

	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: messages,
	}
}
