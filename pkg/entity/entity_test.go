package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	e := New(mgl64.Vec3{1, 64, -3})
	assert.Equal(t, mgl64.Vec3{1, 64, -3}, e.Position())

	e.SetPosition(mgl64.Vec3{0, 100, 0})
	assert.Equal(t, 100.0, e.Position().Y())
}

func TestGravity(t *testing.T) {
	p := NewPhysics()
	assert.Equal(t, DefaultGravity, p.Gravity())

	p.SetGravity(0)
	assert.Equal(t, 0.0, p.Gravity())
}
