package game

import (
	"github.com/cfoust/craftbot/pkg/protocol/difficulty"
	"github.com/cfoust/craftbot/pkg/protocol/gamemode"
)

// State is the canonical view of the world the server has put us in,
// independent of the protocol version that described it.
type State struct {
	Difficulty          difficulty.ID `cbor:"difficulty" json:"difficulty" yaml:"difficulty"`
	Hardcore            bool          `cbor:"hardcore" json:"hardcore" yaml:"hardcore"`
	GameMode            gamemode.ID   `cbor:"gameMode" json:"gameMode" yaml:"gameMode"`
	Dimension           string        `cbor:"dimension" json:"dimension" yaml:"dimension"`
	MinY                int32         `cbor:"minY" json:"minY" yaml:"minY"`
	Height              int32         `cbor:"height" json:"height" yaml:"height"`
	LevelType           string        `cbor:"levelType" json:"levelType" yaml:"levelType"`
	MaxPlayers          int32         `cbor:"maxPlayers" json:"maxPlayers" yaml:"maxPlayers"`
	ServerViewDistance  int32         `cbor:"serverViewDistance" json:"serverViewDistance" yaml:"serverViewDistance"`
	EnableRespawnScreen bool          `cbor:"enableRespawnScreen" json:"enableRespawnScreen" yaml:"enableRespawnScreen"`
	ServerBrand         string        `cbor:"serverBrand" json:"serverBrand" yaml:"serverBrand"`
}

type Event string

const (
	EventLogin Event = "login"
	EventGame  Event = "game"
)
