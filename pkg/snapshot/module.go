package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/cfoust/craftbot/pkg/game"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is a game state frozen at a point in time.
type Snapshot struct {
	Bot     string     `cbor:"bot"`
	Version string     `cbor:"version"`
	Taken   time.Time  `cbor:"taken"`
	State   game.State `cbor:"state"`
}

func Save(ctx context.Context, store Store, key string, snapshot Snapshot) error {
	data, err := cbor.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}

	return store.Set(ctx, key, data)
}

func Load(ctx context.Context, store Store, key string) (*Snapshot, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	err = cbor.Unmarshal(data, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("could not decode snapshot %s: %w", key, err)
	}

	return &snapshot, nil
}
