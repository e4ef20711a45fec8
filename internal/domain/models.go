package domain

import "errors"

// Turn types as sent by the web client.
const (
	TurnQuestion = "Q"
	TurnAnswer   = "A"
)

// Turn is one entry of the caller-supplied conversation history.
type Turn struct {
	Type    string `json:"type"` // Q or A
	Content string `json:"content"`
	ImgURL  string `json:"imgURL,omitempty"`
}

// CompletionRequest represents one chat request to the upstream model.
// It is built fresh per inbound call and owned by the handler that built it;
// history is never stored server-side.
type CompletionRequest struct {
	Message string `json:"message"`
	Context []Turn `json:"context"`
	Stream  bool   `json:"stream,omitempty"`
}

// Validate checks the inbound payload shape before any upstream work.
func (r *CompletionRequest) Validate() error {
	if r.Message == "" {
		return errors.New("message cannot be empty")
	}

	for _, turn := range r.Context {
		if turn.Content == "" {
			return errors.New("context turn content cannot be empty")
		}
		if turn.Type != TurnQuestion && turn.Type != TurnAnswer {
			return errors.New("context turn type must be Q or A")
		}
	}

	return nil
}

// StreamChunk represents a single fragment of a streaming response.
// An empty Delta is legal and means no new text yet.
type StreamChunk struct {
	Delta string `json:"delta"`
	Done  bool   `json:"done"`
	Err   error  `json:"-"`
}
