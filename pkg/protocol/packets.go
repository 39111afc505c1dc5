package protocol

type Kind string

// Inbound
const (
	KindLogin           Kind = "login"
	KindRespawn         Kind = "respawn"
	KindGameStateChange Kind = "game_state_change"
	KindDifficulty      Kind = "difficulty"
	KindCustomPayload   Kind = "custom_payload"
	KindPing            Kind = "ping"
	KindSetSlot         Kind = "set_slot"
)

// Outbound
const (
	KindPong            Kind = "pong"
	KindClientCommand   Kind = "client_command"
	KindAbilities       Kind = "abilities"
	KindSetCreativeSlot Kind = "set_creative_slot"
	KindChat            Kind = "chat"
	KindPosition        Kind = "position"
)

type Packet interface {
	Kind() Kind
}

// Writer sends packets to the server. Encoding them for the wire is the
// job of the implementation.
type Writer interface {
	Write(packet Packet) error
}

// Dimension holds whichever form of the dimension field the server sent.
// Depending on the protocol version it is a numeric id, a namespaced
// name, or a compound describing the dimension.
type Dimension struct {
	Index *int32   `cbor:"index,omitempty"`
	Name  *string  `cbor:"name,omitempty"`
	Data  Compound `cbor:"data,omitempty"`
}

// World is the data shared by the login and respawn packets.
type World struct {
	Dimension      Dimension `cbor:"dimension"`
	WorldName      *string   `cbor:"worldName,omitempty"`
	WorldType      *string   `cbor:"worldType,omitempty"`
	DimensionCodec Compound  `cbor:"dimensionCodec,omitempty"`
	GameMode       int32     `cbor:"gameMode"`
	IsHardcore     *bool     `cbor:"isHardcore,omitempty"`
	IsFlat         *bool     `cbor:"isFlat,omitempty"`
	LevelType      *string   `cbor:"levelType,omitempty"`
	Difficulty     *int32    `cbor:"difficulty,omitempty"`
}

type Login struct {
	World
	EntityID            int32  `cbor:"entityId"`
	MaxPlayers          int32  `cbor:"maxPlayers"`
	ViewDistance        *int32 `cbor:"viewDistance,omitempty"`
	EnableRespawnScreen *bool  `cbor:"enableRespawnScreen,omitempty"`
}

type Respawn struct {
	World
}

// Reasons for a game state change.
const (
	ReasonChangeGameMode uint8 = 3
	ReasonWinGame        uint8 = 4
)

type GameStateChange struct {
	Reason   uint8   `cbor:"reason"`
	GameMode float32 `cbor:"gameMode"`
}

type Difficulty struct {
	Difficulty int32 `cbor:"difficulty"`
	Locked     bool  `cbor:"locked"`
}

type CustomPayload struct {
	Channel string `cbor:"channel"`
	Data    []byte `cbor:"data"`
}

type Ping struct {
	ID int32 `cbor:"id"`
}

type Pong struct {
	ID int32 `cbor:"id"`
}

// PlayerWindow is the window id of the player's own inventory.
const PlayerWindow int32 = 0

type SetSlot struct {
	WindowID int32 `cbor:"windowId"`
	StateID  int32 `cbor:"stateId"`
	Slot     int16 `cbor:"slot"`
	Item     Slot  `cbor:"item"`
}

// Actions for the client command packet.
const (
	ActionPerformRespawn int32 = 0
)

type ClientCommand struct {
	Action int32 `cbor:"action"`
}

// Ability flags sent by the client.
const (
	AbilityNone   int8 = 0
	AbilityFlying int8 = 2
)

type Abilities struct {
	Flags int8 `cbor:"flags"`
}

type SetCreativeSlot struct {
	Slot int16 `cbor:"slot"`
	Item Slot  `cbor:"item"`
}

type Chat struct {
	Message string `cbor:"message"`
}

type Position struct {
	X        float64 `cbor:"x"`
	Y        float64 `cbor:"y"`
	Z        float64 `cbor:"z"`
	OnGround bool    `cbor:"onGround"`
}

func (Login) Kind() Kind           { return KindLogin }
func (Respawn) Kind() Kind         { return KindRespawn }
func (GameStateChange) Kind() Kind { return KindGameStateChange }
func (Difficulty) Kind() Kind      { return KindDifficulty }
func (CustomPayload) Kind() Kind   { return KindCustomPayload }
func (Ping) Kind() Kind            { return KindPing }
func (SetSlot) Kind() Kind         { return KindSetSlot }
func (Pong) Kind() Kind            { return KindPong }
func (ClientCommand) Kind() Kind   { return KindClientCommand }
func (Abilities) Kind() Kind       { return KindAbilities }
func (SetCreativeSlot) Kind() Kind { return KindSetCreativeSlot }
func (Chat) Kind() Kind            { return KindChat }
func (Position) Kind() Kind        { return KindPosition }
