package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/cfoust/craftbot/pkg/capture"
	"github.com/cfoust/craftbot/pkg/creative"
	"github.com/cfoust/craftbot/pkg/entity"
	"github.com/cfoust/craftbot/pkg/features"
	"github.com/cfoust/craftbot/pkg/game"
	"github.com/cfoust/craftbot/pkg/inventory"
	"github.com/cfoust/craftbot/pkg/item"
	"github.com/cfoust/craftbot/pkg/protocol"
	"github.com/cfoust/craftbot/pkg/registry"
	"github.com/cfoust/craftbot/pkg/utils"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
)

const DefaultBrand = "vanilla"

// Recorder receives every packet that crosses the connection.
type Recorder interface {
	Record(direction capture.Direction, packet protocol.Packet) error
}

type Options struct {
	Name     string
	Version  string
	Brand    string
	Position mgl64.Vec3
	Items    map[int32]string

	// Window ClearSlot watches for the server undoing a change. None keeps
	// the mutator's default.
	WaitTimeout opt.Option[time.Duration]
	// Zero keeps the default flight speed.
	FlightSpeed float64

	Clock    clock.Clock
	Logger   *zerolog.Logger
	Recorder Recorder
}

type Bot struct {
	utils.Session

	Name      string
	Profile   features.Profile
	Registry  *registry.Registry
	Inventory *inventory.Inventory
	Entity    *entity.Entity
	Physics   *entity.Physics
	Game      *game.Normalizer
	Creative  *creative.Mutator
	Flight    *creative.Flight

	ticks     *utils.Topic[uint64]
	tickMutex deadlock.Mutex
	tick      uint64

	conn     protocol.Writer
	recorder Recorder
	logger   zerolog.Logger
}

func New(ctx context.Context, conn protocol.Writer, opts Options) (*Bot, error) {
	profile, err := features.ForVersion(opts.Version)
	if err != nil {
		return nil, err
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().
		Str("bot", opts.Name).
		Str("version", profile.Version).
		Logger()

	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	brand := opts.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	bot := &Bot{
		Session:   utils.NewSession(ctx),
		Name:      opts.Name,
		Profile:   profile,
		Registry:  registry.New(),
		Inventory: inventory.New(),
		Entity:    entity.New(opts.Position),
		Physics:   entity.NewPhysics(),
		ticks:     utils.NewTopic[uint64](),
		conn:      conn,
		recorder:  opts.Recorder,
		logger:    logger,
	}

	if opts.Items != nil {
		bot.Registry.SetItems(opts.Items)
	}

	normalizer, err := game.New(profile, bot.Registry, bot, brand, logger)
	if err != nil {
		return nil, err
	}
	bot.Game = normalizer

	bot.Creative = creative.NewMutator(profile, bot.Inventory, bot, clk, logger)
	if opt.IsSome(opts.WaitTimeout) {
		bot.Creative.SetWaitTimeout(opts.WaitTimeout.Value)
	}

	bot.Flight = creative.NewFlight(bot.Entity, bot.Physics, bot, bot, clk, logger)
	if opts.FlightSpeed != 0 {
		err := bot.Flight.SetSpeed(opts.FlightSpeed)
		if err != nil {
			return nil, err
		}
	}

	return bot, nil
}

func (b *Bot) Logger() zerolog.Logger {
	return b.logger
}

func (b *Bot) record(direction capture.Direction, packet protocol.Packet) {
	if b.recorder == nil {
		return
	}

	err := b.recorder.Record(direction, packet)
	if err != nil {
		b.logger.Warn().Err(err).Str("kind", string(packet.Kind())).Msg("failed to record packet")
	}
}

// Write sends a packet to the server.
func (b *Bot) Write(packet protocol.Packet) error {
	if b.IsDone() {
		return fmt.Errorf("could not write %s: %w", packet.Kind(), context.Canceled)
	}

	b.logger.Debug().Str("kind", string(packet.Kind())).Msg("->")
	b.record(capture.Outbound, packet)
	return b.conn.Write(packet)
}

// HandlePacket applies one packet from the server. An error means the
// connection can no longer be trusted and should be closed.
func (b *Bot) HandlePacket(packet protocol.Packet) error {
	b.logger.Debug().Str("kind", string(packet.Kind())).Msg("<-")
	b.record(capture.Inbound, packet)

	if b.Game.Handles(packet) {
		err := b.Game.Apply(packet)
		if err != nil {
			b.logger.Error().Err(err).Str("kind", string(packet.Kind())).Msg("failed to apply packet")
			return err
		}
		return nil
	}

	switch packet := packet.(type) {
	case protocol.SetSlot:
		if packet.WindowID != protocol.PlayerWindow {
			return nil
		}

		slot := int(packet.Slot)
		if !inventory.Valid(slot) {
			b.logger.Warn().Int("slot", slot).Msg("server set a slot outside the inventory")
			return nil
		}

		b.Inventory.SetSlot(slot, item.FromSlot(packet.Item, b.Registry))
	}

	return nil
}

// Tick is called by the host once per game tick.
func (b *Bot) Tick() {
	b.tickMutex.Lock()
	b.tick++
	tick := b.tick
	b.tickMutex.Unlock()

	b.ticks.Publish(tick)
}

func (b *Bot) Ticks() uint64 {
	b.tickMutex.Lock()
	defer b.tickMutex.Unlock()
	return b.tick
}

// WaitForTicks blocks until the host has called Tick n more times.
func (b *Bot) WaitForTicks(ctx context.Context, ticks int) error {
	if ticks <= 0 {
		return nil
	}

	watcher := b.ticks.SubscribeBuffered(1)
	defer watcher.Done()

	for remaining := ticks; remaining > 0; {
		select {
		case <-watcher.Recv():
			remaining--
		case <-b.Done():
			return b.Ctx().Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
