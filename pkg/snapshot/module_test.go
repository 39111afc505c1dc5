package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cfoust/craftbot/pkg/game"
	"github.com/cfoust/craftbot/pkg/protocol/difficulty"
	"github.com/cfoust/craftbot/pkg/protocol/gamemode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore(t *testing.T) {
	ctx := context.Background()
	store := FSStore(filepath.Join(t.TempDir(), "snapshots"))

	_, err := Load(ctx, store, "steve")
	assert.ErrorIs(t, err, Missing)

	want := Snapshot{
		Bot:     "steve",
		Version: "1.20.4",
		Taken:   time.Unix(1700000000, 0).UTC(),
		State: game.State{
			Difficulty: difficulty.Hard,
			GameMode:   gamemode.Creative,
			Dimension:  "overworld",
			MinY:       -64,
			Height:     384,
		},
	}
	require.NoError(t, Save(ctx, store, "steve", want))

	got, err := Load(ctx, store, "steve")
	require.NoError(t, err)
	assert.Equal(t, want.State, got.State)
	assert.True(t, want.Taken.Equal(got.Taken))
}

func TestCorrupt(t *testing.T) {
	ctx := context.Background()
	store := FSStore(t.TempDir())
	require.NoError(t, store.Set(ctx, "bad", []byte{0xff, 0x00}))

	_, err := Load(ctx, store, "bad")
	assert.Error(t, err)
}
