package gamemode

import "strconv"

type ID int32

const (
	Survival ID = iota
	Creative
	Adventure
	Spectator
)

// Bits that carry the mode in the legacy encoding. The bit above them
// (0b100) is the hardcore flag.
const (
	modeMask     = 0b11
	HardcoreMask = 0b100
)

func Valid(mode ID) bool {
	return mode >= Survival && mode <= Spectator
}

// FromBits decodes a mode from the legacy bitfield, where the two low bits
// carry the mode and the higher bits carry flags.
func FromBits(raw int32) ID {
	if raw < 0 {
		return Survival
	}

	mode := ID(raw & modeMask)
	if !Valid(mode) {
		return Survival
	}

	return mode
}

func (m ID) String() string {
	switch m {
	case Survival:
		return "survival"
	case Creative:
		return "creative"
	case Adventure:
		return "adventure"
	case Spectator:
		return "spectator"
	default:
		return strconv.Itoa(int(m))
	}
}

func (m ID) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
