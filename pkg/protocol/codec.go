package protocol

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	ns "github.com/go-mclib/protocol/java_protocol/net_structures"
)

var ErrUnknownKind = errors.New("unknown packet kind")

var decMode cbor.DecMode

func init() {
	mode, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = mode
}

func decodeAs[T Packet](data []byte) (Packet, error) {
	var packet T
	if err := decMode.Unmarshal(data, &packet); err != nil {
		return nil, err
	}
	return packet, nil
}

var decoders = map[Kind]func([]byte) (Packet, error){
	KindLogin:           decodeAs[Login],
	KindRespawn:         decodeAs[Respawn],
	KindGameStateChange: decodeAs[GameStateChange],
	KindDifficulty:      decodeAs[Difficulty],
	KindCustomPayload:   decodeAs[CustomPayload],
	KindPing:            decodeAs[Ping],
	KindSetSlot:         decodeAs[SetSlot],
	KindPong:            decodeAs[Pong],
	KindClientCommand:   decodeAs[ClientCommand],
	KindAbilities:       decodeAs[Abilities],
	KindSetCreativeSlot: decodeAs[SetCreativeSlot],
	KindChat:            decodeAs[Chat],
	KindPosition:        decodeAs[Position],
}

// Encode serializes a packet for storage. It is not the wire format.
func Encode(packet Packet) ([]byte, error) {
	return cbor.Marshal(packet)
}

// Decode restores a packet produced by Encode.
func Decode(kind Kind, data []byte) (Packet, error) {
	decode, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	packet, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", kind, err)
	}

	return packet, nil
}

// MaxStringLength is the longest string the protocol allows, in characters.
const MaxStringLength = 32767

// EncodeString writes a VarInt length-prefixed string, which is how
// custom channel payloads such as the brand carry text.
func EncodeString(value string) []byte {
	buf := ns.NewWriter()
	// Writes to the in-memory buffer cannot fail
	_ = buf.WriteString(ns.String(value))
	return buf.Bytes()
}

func DecodeString(data []byte) (string, error) {
	value, err := ns.NewReader(data).ReadString(MaxStringLength)
	if err != nil {
		return "", err
	}
	return string(value), nil
}
