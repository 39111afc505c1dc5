package game

import (
	"errors"
	"fmt"

	"github.com/cfoust/craftbot/pkg/features"
	"github.com/cfoust/craftbot/pkg/protocol"
	"github.com/cfoust/craftbot/pkg/protocol/difficulty"
	"github.com/cfoust/craftbot/pkg/protocol/gamemode"
	"github.com/cfoust/craftbot/pkg/registry"
	"github.com/cfoust/craftbot/pkg/utils"

	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
)

var (
	ErrUnsupportedProfile = errors.New("unsupported protocol profile")
	ErrUnknownDimension   = errors.New("could not resolve dimension")
)

// Registry is what the normalizer needs to know about dimensions.
type Registry interface {
	DimensionName(index int32) opt.Option[string]
	Dimension(name string) opt.Option[registry.Dimension]
	LoadDimensionCodec(codec protocol.Compound) int
}

// Normalizer turns version specific world packets into one State. It is
// the only writer of that state.
type Normalizer struct {
	Events *utils.Topic[Event]

	mutex    deadlock.RWMutex
	state    State
	loggedIn bool

	registry Registry
	writer   protocol.Writer
	brand    string
	logger   zerolog.Logger

	channel          string
	resolveDimension dimensionFunc
	resolveExtent    extentFunc
	decodeMode       modeFunc
}

// New picks the decoding strategy for every version dependent field once.
// It fails when the profile describes a protocol this package does not
// understand; that is not something a retry can fix.
func New(profile features.Profile, registry Registry, writer protocol.Writer, brand string, logger zerolog.Logger) (*Normalizer, error) {
	n := &Normalizer{
		Events:        utils.NewTopic[Event](),
		registry:      registry,
		writer:        writer,
		brand:         brand,
		logger:        logger,
		resolveExtent: extentDefault,
		decodeMode:    gamemode.FromBits,
	}

	for _, strategy := range channelStrategies {
		if profile.Supports(strategy.feature) {
			n.channel = strategy.channel
			break
		}
	}
	if n.channel == "" {
		return nil, fmt.Errorf("%w: no brand channel naming scheme", ErrUnsupportedProfile)
	}

	for _, strategy := range dimensionStrategies {
		if profile.Supports(strategy.feature) {
			n.resolveDimension = strategy.resolve
			break
		}
	}
	if n.resolveDimension == nil {
		return nil, fmt.Errorf("%w: no dimension encoding", ErrUnsupportedProfile)
	}

	for _, strategy := range extentStrategies {
		if profile.Supports(strategy.feature) {
			n.resolveExtent = strategy.resolve
			break
		}
	}

	for _, strategy := range modeStrategies {
		if profile.Supports(strategy.feature) {
			n.decodeMode = strategy.decode
			break
		}
	}

	return n, nil
}

// Channel is the negotiated name of the brand channel.
func (n *Normalizer) Channel() string {
	return n.channel
}

// State returns a copy of the current game state.
func (n *Normalizer) State() State {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.state
}

// LoggedIn reports whether a login packet has been applied.
func (n *Normalizer) LoggedIn() bool {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.loggedIn
}

// Handles reports whether Apply does anything with this kind of packet.
func (n *Normalizer) Handles(packet protocol.Packet) bool {
	switch p := packet.(type) {
	case protocol.Login, protocol.Respawn, protocol.GameStateChange,
		protocol.Difficulty, protocol.Ping:
		return true
	case protocol.CustomPayload:
		return p.Channel == n.channel
	}
	return false
}

// Apply folds one inbound packet into the state. An error means the
// packet could not be understood under the negotiated protocol and the
// state was left untouched.
func (n *Normalizer) Apply(packet protocol.Packet) error {
	switch p := packet.(type) {
	case protocol.Login:
		return n.handleLogin(p)
	case protocol.Respawn:
		return n.handleRespawn(p)
	case protocol.GameStateChange:
		return n.handleGameStateChange(p)
	case protocol.Difficulty:
		n.mutex.Lock()
		n.state.Difficulty = difficulty.ID(p.Difficulty)
		n.mutex.Unlock()
		n.Events.Publish(EventGame)
	case protocol.CustomPayload:
		if p.Channel != n.channel {
			return nil
		}
		brand, err := protocol.DecodeString(p.Data)
		if err != nil {
			n.logger.Warn().Err(err).Msg("ignoring malformed server brand")
			return nil
		}
		n.mutex.Lock()
		n.state.ServerBrand = brand
		n.mutex.Unlock()
	case protocol.Ping:
		// Some anticheats kick clients that do not answer every ping
		// with the same id.
		return n.writer.Write(protocol.Pong{ID: p.ID})
	}

	return nil
}

func (n *Normalizer) applyWorld(state *State, world *protocol.World, login bool) error {
	if world.IsHardcore != nil {
		state.Hardcore = *world.IsHardcore
	} else {
		state.Hardcore = world.GameMode&gamemode.HardcoreMask != 0
	}

	switch {
	case world.LevelType != nil:
		state.LevelType = *world.LevelType
	case world.IsFlat != nil && *world.IsFlat:
		state.LevelType = "flat"
	default:
		state.LevelType = "default"
	}

	state.GameMode = n.decodeMode(world.GameMode)

	name, err := n.resolveDimension(n.registry, world)
	if err != nil {
		return err
	}

	if len(world.DimensionCodec) > 0 {
		count := n.registry.LoadDimensionCodec(world.DimensionCodec)
		n.logger.Debug().Int("dimensions", count).Msg("loaded dimension codec")
	}

	dimension, err := n.resolveExtent(n.registry, world, login, name)
	if err != nil {
		return err
	}

	state.Dimension = dimension.Name
	state.MinY = dimension.MinY
	state.Height = dimension.Height

	if world.Difficulty != nil {
		state.Difficulty = difficulty.ID(*world.Difficulty)
	}

	return nil
}

func (n *Normalizer) handleLogin(packet protocol.Login) error {
	n.mutex.Lock()
	state := n.state
	err := n.applyWorld(&state, &packet.World, true)
	if err != nil {
		n.mutex.Unlock()
		return fmt.Errorf("login: %w", err)
	}

	state.MaxPlayers = packet.MaxPlayers
	if packet.EnableRespawnScreen != nil {
		state.EnableRespawnScreen = *packet.EnableRespawnScreen
	}
	if packet.ViewDistance != nil {
		state.ServerViewDistance = *packet.ViewDistance
	}

	n.state = state
	n.loggedIn = true
	n.mutex.Unlock()

	n.logger.Info().
		Str("dimension", state.Dimension).
		Str("gameMode", state.GameMode.String()).
		Msg("logged in")

	n.Events.Publish(EventLogin)
	n.Events.Publish(EventGame)

	return n.writer.Write(protocol.CustomPayload{
		Channel: n.channel,
		Data:    protocol.EncodeString(n.brand),
	})
}

func (n *Normalizer) handleRespawn(packet protocol.Respawn) error {
	n.mutex.Lock()
	state := n.state
	err := n.applyWorld(&state, &packet.World, false)
	if err != nil {
		n.mutex.Unlock()
		return fmt.Errorf("respawn: %w", err)
	}
	n.state = state
	n.mutex.Unlock()

	n.logger.Debug().Str("dimension", state.Dimension).Msg("respawned")
	n.Events.Publish(EventGame)
	return nil
}

func (n *Normalizer) handleGameStateChange(packet protocol.GameStateChange) error {
	if packet.Reason == protocol.ReasonWinGame && packet.GameMode == 1 {
		// The end credits are over, ask to be put back in the world.
		return n.writer.Write(protocol.ClientCommand{
			Action: protocol.ActionPerformRespawn,
		})
	}

	if packet.Reason != protocol.ReasonChangeGameMode {
		return nil
	}

	n.mutex.Lock()
	n.state.GameMode = gamemode.FromBits(int32(packet.GameMode))
	n.mutex.Unlock()

	n.Events.Publish(EventGame)
	return nil
}
