package protocol

// Slot is an inventory slot as it travels on the wire.
type Slot struct {
	Present bool     `cbor:"present"`
	ItemID  int32    `cbor:"itemId,omitempty"`
	Count   int8     `cbor:"count,omitempty"`
	Damage  int16    `cbor:"damage,omitempty"`
	NBT     Compound `cbor:"nbt,omitempty"`
}

func EmptySlot() Slot {
	return Slot{}
}

func (s Slot) IsEmpty() bool {
	return !s.Present || s.Count <= 0
}
