package entity

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sasha-s/go-deadlock"
)

// DefaultGravity is the vanilla downward acceleration in blocks per tick².
const DefaultGravity = 0.08

// Entity is the bot's own player entity.
type Entity struct {
	mutex    deadlock.RWMutex
	position mgl64.Vec3
}

func New(position mgl64.Vec3) *Entity {
	return &Entity{position: position}
}

func (e *Entity) Position() mgl64.Vec3 {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.position
}

func (e *Entity) SetPosition(position mgl64.Vec3) {
	e.mutex.Lock()
	e.position = position
	e.mutex.Unlock()
}

// Physics holds the parameters of the movement simulation that other
// components are allowed to adjust.
type Physics struct {
	mutex   deadlock.RWMutex
	gravity float64
}

func NewPhysics() *Physics {
	return &Physics{gravity: DefaultGravity}
}

func (p *Physics) Gravity() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.gravity
}

func (p *Physics) SetGravity(gravity float64) {
	p.mutex.Lock()
	p.gravity = gravity
	p.mutex.Unlock()
}
