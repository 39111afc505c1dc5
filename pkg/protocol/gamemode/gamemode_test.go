package gamemode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBits(t *testing.T) {
	assert.Equal(t, Survival, FromBits(0))
	assert.Equal(t, Creative, FromBits(1))
	assert.Equal(t, Adventure, FromBits(2))
	assert.Equal(t, Spectator, FromBits(3))

	// hardcore bit set
	assert.Equal(t, Creative, FromBits(0b101))
	assert.Equal(t, Spectator, FromBits(0b111))

	assert.Equal(t, Survival, FromBits(-1))
}

func TestString(t *testing.T) {
	assert.Equal(t, "creative", Creative.String())
	assert.Equal(t, "9", ID(9).String())
	assert.False(t, Valid(ID(9)))
}
