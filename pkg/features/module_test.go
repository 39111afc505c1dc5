package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForVersion(t *testing.T) {
	legacy, err := ForVersion("1.8.9")
	require.NoError(t, err)
	assert.True(t, legacy.Supports(CustomChannelMCPrefixed))
	assert.True(t, legacy.Supports(DimensionIsAnInt))
	assert.False(t, legacy.Supports(CustomChannelIdentifier))
	assert.False(t, legacy.Supports(NoAckOnCreateSetSlotPacket))

	nether, err := ForVersion("1.16.1")
	require.NoError(t, err)
	assert.True(t, nether.Supports(DimensionIsAString))
	assert.False(t, nether.Supports(DimensionIsAWorld))

	caves, err := ForVersion("1.18.2")
	require.NoError(t, err)
	assert.True(t, caves.Supports(DimensionIsAWorld))
	assert.True(t, caves.Supports(DimensionDataIsAvailable))
	assert.True(t, caves.Supports(NoAckOnCreateSetSlotPacket))
	assert.False(t, caves.Supports(DimensionDataInCodec))

	modern, err := ForVersion("1.21.1")
	require.NoError(t, err)
	assert.True(t, modern.Supports(SegmentedRegistryCodecData))
	assert.True(t, modern.Supports(SpawnRespawnWorldDataField))
	assert.True(t, modern.Supports(DimensionDataInCodec))
	assert.False(t, modern.Supports(DimensionIsAWorld))
	assert.Equal(t, "1.21.1", modern.Version)
}

func TestBoundaries(t *testing.T) {
	before, err := ForVersion("1.12.2")
	require.NoError(t, err)
	assert.True(t, before.Supports(CustomChannelMCPrefixed))

	after, err := ForVersion("1.13")
	require.NoError(t, err)
	assert.False(t, after.Supports(CustomChannelMCPrefixed))
	assert.True(t, after.Supports(CustomChannelIdentifier))
}

func TestInvalidVersion(t *testing.T) {
	_, err := ForVersion("banana")
	assert.ErrorIs(t, err, ErrUnknownVersion)

	_, err = ForVersion("1.20-rc1")
	assert.ErrorIs(t, err, ErrUnknownVersion)

	_, err = ForVersion("1.7.10")
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestNew(t *testing.T) {
	profile := New(DimensionIsAnInt, CustomChannelIdentifier)
	assert.Equal(t, []string{CustomChannelIdentifier, DimensionIsAnInt}, profile.Names())
	assert.False(t, profile.Supports(DimensionIsAString))
}
