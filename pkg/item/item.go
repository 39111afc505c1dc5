package item

import (
	"github.com/cfoust/craftbot/pkg/protocol"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
)

// Item is a stack of one item type. A nil *Item is an empty slot.
type Item struct {
	Type     int32
	Name     string
	Count    int8
	Metadata int16
	NBT      protocol.Compound
}

func New(typ int32, name string, count int8) *Item {
	return &Item{
		Type:  typ,
		Name:  name,
		Count: count,
	}
}

// Empty is the type reported for an empty slot.
const Empty int32 = -1

// TypeOf returns the item type of a possibly empty stack.
func TypeOf(item *Item) int32 {
	if item == nil {
		return Empty
	}
	return item.Type
}

var encMode cbor.EncMode

func init() {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = mode
}

// Fingerprint hashes the item's NBT so stacks can be compared without
// walking the tree. Stacks without NBT have a zero fingerprint.
func (i *Item) Fingerprint() uint64 {
	if i == nil || len(i.NBT) == 0 {
		return 0
	}

	data, err := encMode.Marshal(i.NBT)
	if err != nil {
		return 0
	}

	return xxhash.Sum64(data)
}

// Equal reports whether two stacks are the same item type with the same
// metadata and NBT. When matchStackSize is set the counts must match too.
func Equal(a, b *Item, matchStackSize bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Type != b.Type || a.Metadata != b.Metadata {
		return false
	}

	if matchStackSize && a.Count != b.Count {
		return false
	}

	return a.Fingerprint() == b.Fingerprint()
}

// Matches reports whether a slot holds exactly the requested stack, by
// name, count and metadata. Stacks without a resolved name are compared
// by type instead.
func Matches(want, got *Item) bool {
	if want == nil || got == nil {
		return want == nil && got == nil
	}

	sameItem := want.Type == got.Type
	if want.Name != "" && got.Name != "" {
		sameItem = want.Name == got.Name
	}

	return sameItem &&
		want.Count == got.Count &&
		want.Metadata == got.Metadata
}

// ToSlot encodes a stack for the wire.
func ToSlot(item *Item) protocol.Slot {
	if item == nil {
		return protocol.EmptySlot()
	}

	return protocol.Slot{
		Present: true,
		ItemID:  item.Type,
		Count:   item.Count,
		Damage:  item.Metadata,
		NBT:     item.NBT,
	}
}

// Names resolves item ids to names.
type Names interface {
	ItemName(id int32) string
}

// FromSlot decodes a wire slot. names may be nil, in which case the item
// has no name.
func FromSlot(slot protocol.Slot, names Names) *Item {
	if slot.IsEmpty() {
		return nil
	}

	item := &Item{
		Type:     slot.ItemID,
		Count:    slot.Count,
		Metadata: slot.Damage,
		NBT:      slot.NBT,
	}
	if names != nil {
		item.Name = names.ItemName(slot.ItemID)
	}
	return item
}
