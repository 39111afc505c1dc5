package creative

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/cfoust/craftbot/pkg/protocol"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
)

const (
	// Closer than this the bot is teleported instead of flown.
	snapDistance = 3.0
	// Flying stops once the bot is this close.
	arrivalDistance = 4.0

	DefaultSpeed = 2.0

	StallTimeout = 30 * time.Second
	SettleDelay  = 3 * time.Second

	RecoveryCommand = "/homes start"
)

var ErrInvalidSpeed = errors.New("flight speed must be positive")

type Outcome int

const (
	Arrived Outcome = iota
	// The flight stalled and was cut short; the bot was still put at the
	// destination.
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Arrived:
		return "arrived"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

type Body interface {
	Position() mgl64.Vec3
	SetPosition(position mgl64.Vec3)
}

type Physics interface {
	Gravity() float64
	SetGravity(gravity float64)
}

type Ticker interface {
	WaitForTicks(ctx context.Context, ticks int) error
}

// Flight moves the bot in straight lines with gravity switched off. It
// does not check for obstacles.
type Flight struct {
	mutex         deadlock.Mutex
	normalGravity opt.Option[float64]
	speed         float64

	body    Body
	physics Physics
	ticker  Ticker
	writer  protocol.Writer
	clock   clock.Clock
	logger  zerolog.Logger
}

func NewFlight(body Body, physics Physics, ticker Ticker, writer protocol.Writer, clk clock.Clock, logger zerolog.Logger) *Flight {
	return &Flight{
		normalGravity: opt.None[float64](),
		speed:         DefaultSpeed,
		body:          body,
		physics:       physics,
		ticker:        ticker,
		writer:        writer,
		clock:         clk,
		logger:        logger,
	}
}

// SetSpeed changes the speed Fly uses, in blocks per tick.
func (f *Flight) SetSpeed(speed float64) error {
	if speed <= 0 || math.IsNaN(speed) {
		return ErrInvalidSpeed
	}

	f.mutex.Lock()
	f.speed = speed
	f.mutex.Unlock()
	return nil
}

func (f *Flight) Speed() float64 {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.speed
}

// Fly is FlyTo at the configured speed.
func (f *Flight) Fly(ctx context.Context, destination mgl64.Vec3) (Outcome, error) {
	return f.FlyTo(ctx, destination, f.Speed())
}

func (f *Flight) EnableFlight() error {
	f.mutex.Lock()
	if opt.IsNone(f.normalGravity) {
		f.normalGravity = opt.Some(f.physics.Gravity())
	}
	f.physics.SetGravity(0)
	f.mutex.Unlock()

	return f.writer.Write(protocol.Abilities{Flags: protocol.AbilityFlying})
}

func (f *Flight) DisableFlight() error {
	f.mutex.Lock()
	if opt.IsSome(f.normalGravity) {
		f.physics.SetGravity(f.normalGravity.Value)
	}
	f.mutex.Unlock()

	return f.writer.Write(protocol.Abilities{Flags: protocol.AbilityNone})
}

func (f *Flight) moveTo(position mgl64.Vec3) error {
	f.body.SetPosition(position)
	return f.writer.Write(protocol.Position{
		X: position.X(),
		Y: position.Y(),
		Z: position.Z(),
	})
}

// FlyTo flies toward destination at speed blocks per tick and always ends
// with the bot at destination. A tick that takes longer than StallTimeout
// triggers the recovery command and ends the flight early with Aborted.
func (f *Flight) FlyTo(ctx context.Context, destination mgl64.Vec3, speed float64) (Outcome, error) {
	position := f.body.Position()

	// Only the height differs, or the destination is close enough to
	// teleport to. Speed does not matter for either.
	snap := (destination.X() == position.X() && destination.Z() == position.Z()) ||
		destination.Sub(position).Len() < snapDistance

	if !snap && (speed <= 0 || math.IsNaN(speed)) {
		return Arrived, ErrInvalidSpeed
	}

	err := f.EnableFlight()
	if err != nil {
		return Arrived, err
	}

	if snap {
		return Arrived, f.moveTo(destination)
	}

	logger := f.logger.With().
		Float64("x", destination.X()).
		Float64("y", destination.Y()).
		Float64("z", destination.Z()).
		Logger()

	outcome := Arrived
	for {
		position = f.body.Position()
		remaining := destination.Sub(position)
		distance := remaining.Len()
		if distance <= arrivalDistance {
			break
		}

		start := f.clock.Now()

		step := math.Min(speed, distance)
		err := f.moveTo(position.Add(remaining.Normalize().Mul(step)))
		if err != nil {
			return outcome, err
		}

		err = f.ticker.WaitForTicks(ctx, 1)
		if err != nil {
			return outcome, err
		}

		if f.clock.Since(start) > StallTimeout {
			logger.Warn().Msg("flight stalled, running recovery")
			outcome = Aborted
			f.recover(ctx, logger)
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			break
		}
	}

	return outcome, f.moveTo(destination)
}

func (f *Flight) recover(ctx context.Context, logger zerolog.Logger) {
	settle := f.clock.Timer(SettleDelay)
	defer settle.Stop()

	err := f.writer.Write(protocol.Chat{Message: RecoveryCommand})
	if err != nil {
		logger.Error().Err(err).Msg("failed to send recovery command")
	}

	select {
	case <-settle.C:
	case <-ctx.Done():
	}
}
