package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/davidbz/howl/internal/domain"
)

// Pump drives the session: it consumes fragments from chunks in production
// order and republishes each one through the session until the sequence is
// exhausted, the upstream fails, the client disconnects, or the upstream
// stays silent past idleTimeout. The session is closed exactly once on every
// path. A nil return means the stream completed normally.
func Pump(ctx context.Context, session *Session, chunks <-chan domain.StreamChunk, idleTimeout time.Duration) error {
	defer session.Close()

	idle := time.NewTimer(idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client gone; stop pulling so the producer can unwind.
			return fmt.Errorf("client disconnected: %w", ctx.Err())

		case <-idle.C:
			return fmt.Errorf("upstream produced no fragment for %s", idleTimeout)

		case chunk, ok := <-chunks:
			if !ok {
				return nil
			}

			if chunk.Err != nil {
				return fmt.Errorf("upstream stream failed: %w", chunk.Err)
			}

			if err := session.Send(chunk.Delta); err != nil {
				return err
			}

			if chunk.Done {
				return nil
			}

			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(idleTimeout)
		}
	}
}
