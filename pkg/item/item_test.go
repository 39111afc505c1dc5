package item

import (
	"testing"

	"github.com/cfoust/craftbot/pkg/protocol"

	"github.com/stretchr/testify/assert"
)

type names map[int32]string

func (n names) ItemName(id int32) string {
	return n[id]
}

func TestEqual(t *testing.T) {
	stone := New(1, "stone", 64)

	assert.True(t, Equal(nil, nil, true))
	assert.False(t, Equal(stone, nil, true))
	assert.False(t, Equal(nil, stone, true))
	assert.True(t, Equal(stone, New(1, "stone", 64), true))

	assert.False(t, Equal(stone, New(1, "stone", 32), true))
	assert.True(t, Equal(stone, New(1, "stone", 32), false))

	assert.False(t, Equal(stone, New(2, "granite", 64), true))

	damaged := New(1, "stone", 64)
	damaged.Metadata = 3
	assert.False(t, Equal(stone, damaged, true))
}

func TestEqualNBT(t *testing.T) {
	a := New(276, "diamond_sword", 1)
	a.NBT = protocol.Compound{"Damage": 3, "display": map[string]any{"Name": "Sting"}}

	b := New(276, "diamond_sword", 1)
	b.NBT = protocol.Compound{"display": map[string]any{"Name": "Sting"}, "Damage": 3}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.True(t, Equal(a, b, true))

	b.NBT = protocol.Compound{"Damage": 4}
	assert.False(t, Equal(a, b, true))

	assert.Zero(t, New(1, "stone", 1).Fingerprint())
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches(nil, nil))
	assert.False(t, Matches(New(1, "stone", 1), nil))
	assert.True(t, Matches(New(1, "stone", 1), New(5, "stone", 1)))
	assert.False(t, Matches(New(1, "stone", 1), New(1, "stone", 2)))
	assert.True(t, Matches(New(1, "", 1), New(1, "stone", 1)))
	assert.False(t, Matches(New(1, "", 1), New(2, "", 1)))
}

func TestSlot(t *testing.T) {
	assert.True(t, ToSlot(nil).IsEmpty())
	assert.Nil(t, FromSlot(protocol.EmptySlot(), nil))

	stone := New(1, "stone", 12)
	slot := ToSlot(stone)
	assert.Equal(t, int32(1), slot.ItemID)
	assert.Equal(t, int8(12), slot.Count)

	back := FromSlot(slot, names{1: "stone"})
	assert.True(t, Equal(stone, back, true))
	assert.Equal(t, "stone", back.Name)
	assert.Equal(t, Empty, TypeOf(nil))
}
