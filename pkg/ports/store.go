package ports

import (
	"context"

	"github.com/identropy/accord/pkg/codec"
)

// HistoryStore persists the opaque payloads recorded for each flow run:
// inputs at start, results (or failure details) at the end. The engine wraps
// the store with the encryption codec so everything it holds is ciphertext.
type HistoryStore interface {
	// Save persists the payload for a run ID, overwriting any previous entry.
	Save(ctx context.Context, runID string, payload codec.Payload) error

	// Load retrieves the payload for a run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (codec.Payload, error)

	// Delete removes the payload for a run ID.
	Delete(ctx context.Context, runID string) error

	// List returns the known run IDs.
	List(ctx context.Context) ([]string, error)
}
