package registry

import (
	"strings"

	"github.com/cfoust/craftbot/pkg/protocol"

	"github.com/repeale/fp-go/option"
	"github.com/sasha-s/go-deadlock"
)

const Namespace = "minecraft:"

const dimensionTypeKey = "minecraft:dimension_type"

// StripNamespace removes the vanilla namespace from an identifier.
func StripNamespace(name string) string {
	return strings.TrimPrefix(name, Namespace)
}

type Dimension struct {
	Name   string
	MinY   int32
	Height int32
}

// Registry maps protocol identifiers to the names and data they stand
// for. It is filled by the connection as registry data arrives.
type Registry struct {
	mutex      deadlock.RWMutex
	dimensions []Dimension
	byName     map[string]Dimension
	items      map[int32]string
}

func New() *Registry {
	return &Registry{
		byName: make(map[string]Dimension),
		items:  make(map[int32]string),
	}
}

// SetItems replaces the item id to name table.
func (r *Registry) SetItems(items map[int32]string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.items = make(map[int32]string, len(items))
	for id, name := range items {
		r.items[id] = StripNamespace(name)
	}
}

// ItemName returns the name of an item id, or "" when it is unknown.
func (r *Registry) ItemName(id int32) string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.items[id]
}

// SetDimensions replaces the indexed dimension list, as sent by servers
// that reference dimensions by their position in the registry.
func (r *Registry) SetDimensions(dimensions []Dimension) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.dimensions = append([]Dimension(nil), dimensions...)
	for _, dimension := range dimensions {
		r.byName[StripNamespace(dimension.Name)] = dimension
	}
}

// DimensionName looks up the name of the dimension at index, without its
// namespace.
func (r *Registry) DimensionName(index int32) opt.Option[string] {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if index < 0 || int(index) >= len(r.dimensions) {
		return opt.None[string]()
	}

	return opt.Some(StripNamespace(r.dimensions[index].Name))
}

func (r *Registry) Dimension(name string) opt.Option[Dimension] {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	dimension, ok := r.byName[StripNamespace(name)]
	if !ok {
		return opt.None[Dimension]()
	}

	return opt.Some(dimension)
}

// LoadDimensionCodec reads the dimension types out of a registry codec
// compound. Entries without a name are skipped. It returns the number of
// dimensions loaded.
func (r *Registry) LoadDimensionCodec(codec protocol.Compound) int {
	codec = codec.Simplify()

	types, ok := codec.Compound(dimensionTypeKey)
	if !ok {
		return 0
	}

	entries := types.Simplify().Compounds("value")

	dimensions := make([]Dimension, 0, len(entries))
	for _, entry := range entries {
		name, ok := entry.String("name")
		if !ok {
			continue
		}

		element, _ := entry.Compound("element")
		element = element.Simplify()

		minY, _ := element.Int("min_y")
		height, hasHeight := element.Int("height")
		if !hasHeight {
			height = 256
		}

		dimensions = append(dimensions, Dimension{
			Name:   name,
			MinY:   int32(minY),
			Height: int32(height),
		})
	}

	r.SetDimensions(dimensions)
	return len(dimensions)
}
