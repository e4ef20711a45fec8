package relay

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/davidbz/howl/internal/config"
)

// Padding holds the process-lifetime padding token interleaved with stream
// fragments. Small writes can sit in transport buffers until enough bytes
// accumulate; appending the token to every fragment pushes each increment
// past the flush threshold so the client sees genuine incremental output.
// The token is a transport artifact, not content: clients fetch it once and
// strip it from everything they accumulate.
type Padding struct {
	token string
}

// NewPadding generates the token. A size of zero disables padding entirely
// and clients must treat stripping as a no-op.
func NewPadding(cfg *config.StreamConfig) *Padding {
	if cfg == nil || cfg.PaddingSize <= 0 {
		return &Padding{}
	}

	// Random hex cannot collide with model output the way a printable
	// constant could.
	bytes := make([]byte, (cfg.PaddingSize+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}

	return &Padding{
		token: hex.EncodeToString(bytes)[:cfg.PaddingSize],
	}
}

// Token returns the padding token, empty when padding is disabled.
func (p *Padding) Token() string {
	return p.token
}
