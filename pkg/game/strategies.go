package game

import (
	"fmt"

	"github.com/cfoust/craftbot/pkg/features"
	"github.com/cfoust/craftbot/pkg/protocol"
	"github.com/cfoust/craftbot/pkg/protocol/gamemode"
	"github.com/cfoust/craftbot/pkg/registry"

	"github.com/repeale/fp-go/option"
)

// Height of the world when the protocol does not describe it.
const (
	defaultMinY   = 0
	defaultHeight = 256
)

var legacyDimensions = map[int32]string{
	-1: "the_nether",
	0:  "overworld",
	1:  "the_end",
}

var knownDimensions = map[string]registry.Dimension{
	"overworld":       {Name: "overworld", MinY: -64, Height: 384},
	"overworld_caves": {Name: "overworld_caves", MinY: -64, Height: 384},
	"the_end":         {Name: "the_end", MinY: 0, Height: 256},
	"the_nether":      {Name: "the_nether", MinY: 0, Height: 256},
}

type dimensionFunc func(r Registry, world *protocol.World) (string, error)

// extentFunc resolves the vertical extent of a world. It may also rename
// the dimension, so it returns the final name.
type extentFunc func(r Registry, world *protocol.World, login bool, dimension string) (registry.Dimension, error)

type modeFunc func(raw int32) gamemode.ID

var channelStrategies = []struct {
	feature string
	channel string
}{
	{features.CustomChannelMCPrefixed, "MC|Brand"},
	{features.CustomChannelIdentifier, "minecraft:brand"},
}

var dimensionStrategies = []struct {
	feature string
	resolve dimensionFunc
}{
	{features.SegmentedRegistryCodecData, dimensionFromRegistry},
	{features.DimensionIsAnInt, dimensionFromInt},
	{features.DimensionIsAString, dimensionFromString},
	{features.DimensionIsAWorld, dimensionFromWorldName},
}

var extentStrategies = []struct {
	feature string
	resolve extentFunc
}{
	{features.DimensionDataInCodec, extentFromCodec},
	{features.DimensionDataIsAvailable, extentFromData},
}

var modeStrategies = []struct {
	feature string
	decode  modeFunc
}{
	{features.SpawnRespawnWorldDataField, func(raw int32) gamemode.ID { return gamemode.ID(raw) }},
}

func missing(field string) error {
	return fmt.Errorf("%w: packet has no %s", ErrUnknownDimension, field)
}

func dimensionFromRegistry(r Registry, world *protocol.World) (string, error) {
	dimension := world.Dimension
	if dimension.Index != nil {
		name := r.DimensionName(*dimension.Index)
		if opt.IsNone(name) {
			return "", fmt.Errorf("%w: no registry entry at index %d", ErrUnknownDimension, *dimension.Index)
		}
		return name.Value, nil
	}

	if dimension.Name != nil {
		return registry.StripNamespace(*dimension.Name), nil
	}

	return "", missing("dimension index or name")
}

func dimensionFromInt(r Registry, world *protocol.World) (string, error) {
	if world.Dimension.Index == nil {
		return "", missing("dimension id")
	}

	name, ok := legacyDimensions[*world.Dimension.Index]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnknownDimension, *world.Dimension.Index)
	}
	return name, nil
}

func dimensionFromString(r Registry, world *protocol.World) (string, error) {
	if world.Dimension.Name == nil {
		return "", missing("dimension name")
	}
	return registry.StripNamespace(*world.Dimension.Name), nil
}

func dimensionFromWorldName(r Registry, world *protocol.World) (string, error) {
	if world.WorldName == nil {
		return "", missing("world name")
	}
	return registry.StripNamespace(*world.WorldName), nil
}

func extentFromCodec(r Registry, world *protocol.World, login bool, dimension string) (registry.Dimension, error) {
	name := dimension
	if login && world.WorldType != nil {
		name = registry.StripNamespace(*world.WorldType)
	} else if !login && world.Dimension.Name != nil {
		name = registry.StripNamespace(*world.Dimension.Name)
	}

	if known, ok := knownDimensions[name]; ok {
		return known, nil
	}

	loaded := r.Dimension(name)
	if opt.IsSome(loaded) {
		result := loaded.Value
		result.Name = name
		return result, nil
	}

	return registry.Dimension{}, fmt.Errorf("%w: no height data for %q", ErrUnknownDimension, name)
}

func extentFromData(r Registry, world *protocol.World, login bool, dimension string) (registry.Dimension, error) {
	data := world.Dimension.Data.Simplify()

	minY, hasMinY := data.Int("min_y")
	height, hasHeight := data.Int("height")
	if !hasMinY || !hasHeight {
		return registry.Dimension{}, missing("dimension min_y and height")
	}

	return registry.Dimension{
		Name:   dimension,
		MinY:   int32(minY),
		Height: int32(height),
	}, nil
}

func extentDefault(r Registry, world *protocol.World, login bool, dimension string) (registry.Dimension, error) {
	return registry.Dimension{
		Name:   dimension,
		MinY:   defaultMinY,
		Height: defaultHeight,
	}, nil
}
