package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cfoust/craftbot/pkg/capture"
	"github.com/cfoust/craftbot/pkg/features"
	"github.com/cfoust/craftbot/pkg/protocol"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conn struct {
	mutex   sync.Mutex
	packets []protocol.Packet
}

func (c *conn) Write(packet protocol.Packet) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.packets = append(c.packets, packet)
	return nil
}

func (c *conn) Packets() []protocol.Packet {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]protocol.Packet(nil), c.packets...)
}

type tape struct {
	directions []capture.Direction
	kinds      []protocol.Kind
}

func (t *tape) Record(direction capture.Direction, packet protocol.Packet) error {
	t.directions = append(t.directions, direction)
	t.kinds = append(t.kinds, packet.Kind())
	return nil
}

func newBot(t *testing.T, version string, recorder Recorder) (*Bot, *conn) {
	out := &conn{}
	logger := zerolog.Nop()
	b, err := New(context.Background(), out, Options{
		Name:     "steve",
		Version:  version,
		Brand:    "craftbot",
		Items:    map[int32]string{1: "minecraft:stone"},
		Logger:   &logger,
		Recorder: recorder,
	})
	require.NoError(t, err)
	t.Cleanup(b.Cancel)
	return b, out
}

func ptr[T any](value T) *T {
	return &value
}

func TestUnknownVersion(t *testing.T) {
	_, err := New(context.Background(), &conn{}, Options{Version: "1.7.10"})
	assert.ErrorIs(t, err, features.ErrUnknownVersion)

	_, err = New(context.Background(), &conn{}, Options{Version: "potato"})
	assert.ErrorIs(t, err, features.ErrUnknownVersion)
}

func TestLogin(t *testing.T) {
	rec := &tape{}
	b, out := newBot(t, "1.12.2", rec)

	require.NoError(t, b.HandlePacket(protocol.Login{
		World: protocol.World{
			Dimension:  protocol.Dimension{Index: ptr(int32(-1))},
			GameMode:   1,
			Difficulty: ptr(int32(2)),
			LevelType:  ptr("default"),
		},
		MaxPlayers: 20,
	}))

	assert.True(t, b.Game.LoggedIn())
	state := b.Game.State()
	assert.Equal(t, "the_nether", state.Dimension)
	assert.Equal(t, int32(20), state.MaxPlayers)

	packets := out.Packets()
	require.Len(t, packets, 1)
	assert.Equal(t, protocol.CustomPayload{
		Channel: "MC|Brand",
		Data:    protocol.EncodeString("craftbot"),
	}, packets[0])

	assert.Equal(t, []capture.Direction{capture.Inbound, capture.Outbound}, rec.directions)
	assert.Equal(t, []protocol.Kind{protocol.KindLogin, protocol.KindCustomPayload}, rec.kinds)
}

func TestFatalPacket(t *testing.T) {
	b, _ := newBot(t, "1.16.1", nil)

	err := b.HandlePacket(protocol.Respawn{World: protocol.World{
		Dimension: protocol.Dimension{Name: ptr("minecraft:moon")},
	}})
	assert.NoError(t, err, "string dimensions are taken as given")

	b, _ = newBot(t, "1.12.2", nil)
	err = b.HandlePacket(protocol.Respawn{World: protocol.World{
		Dimension: protocol.Dimension{Index: ptr(int32(7))},
	}})
	assert.Error(t, err)
}

func TestSetSlot(t *testing.T) {
	b, _ := newBot(t, "1.20.4", nil)

	require.NoError(t, b.HandlePacket(protocol.SetSlot{
		WindowID: protocol.PlayerWindow,
		Slot:     36,
		Item:     protocol.Slot{Present: true, ItemID: 1, Count: 64},
	}))

	stored := b.Inventory.Slot(36)
	require.NotNil(t, stored)
	assert.Equal(t, "stone", stored.Name)
	assert.Equal(t, int8(64), stored.Count)

	// Other windows are not the player inventory
	require.NoError(t, b.HandlePacket(protocol.SetSlot{
		WindowID: 3,
		Slot:     37,
		Item:     protocol.Slot{Present: true, ItemID: 1, Count: 1},
	}))
	assert.Nil(t, b.Inventory.Slot(37))

	require.NoError(t, b.HandlePacket(protocol.SetSlot{
		WindowID: protocol.PlayerWindow,
		Slot:     36,
		Item:     protocol.EmptySlot(),
	}))
	assert.Nil(t, b.Inventory.Slot(36))
}

func TestPing(t *testing.T) {
	b, out := newBot(t, "1.20.4", nil)
	require.NoError(t, b.HandlePacket(protocol.Ping{ID: 9}))
	assert.Equal(t, []protocol.Packet{protocol.Pong{ID: 9}}, out.Packets())
}

func TestWaitForTicks(t *testing.T) {
	b, _ := newBot(t, "1.20.4", nil)

	assert.NoError(t, b.WaitForTicks(context.Background(), 0))

	result := make(chan error, 1)
	go func() {
		result <- b.WaitForTicks(context.Background(), 3)
	}()

	require.Eventually(t, func() bool {
		return b.ticks.NumSubscribers() == 1
	}, time.Second, time.Millisecond)

	b.Tick()
	b.Tick()
	select {
	case <-result:
		t.Fatal("returned before the third tick")
	default:
	}
	b.Tick()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not finish")
	}

	assert.Equal(t, uint64(3), b.Ticks())
	assert.Equal(t, 0, b.ticks.NumSubscribers())
}

func TestCancel(t *testing.T) {
	b, out := newBot(t, "1.20.4", nil)
	b.Cancel()

	err := b.WaitForTicks(context.Background(), 1)
	assert.True(t, errors.Is(err, context.Canceled))

	err = b.Write(protocol.Chat{Message: "hello"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.Packets())
}

func TestClearSlot(t *testing.T) {
	b, out := newBot(t, "1.20.4", nil)

	require.NoError(t, b.HandlePacket(protocol.SetSlot{
		WindowID: protocol.PlayerWindow,
		Slot:     40,
		Item:     protocol.Slot{Present: true, ItemID: 1, Count: 1},
	}))

	require.NoError(t, b.Creative.MutateSlot(context.Background(), 40, nil, 0))
	assert.Nil(t, b.Inventory.Slot(40))
	assert.Equal(t, []protocol.Packet{protocol.SetCreativeSlot{
		Slot: 40,
		Item: protocol.EmptySlot(),
	}}, out.Packets())
}

func TestConfiguredWaitTimeout(t *testing.T) {
	out := &conn{}
	logger := zerolog.Nop()
	mock := clock.NewMock()
	b, err := New(context.Background(), out, Options{
		Name:        "steve",
		Version:     "1.20.4",
		Clock:       mock,
		Logger:      &logger,
		WaitTimeout: opt.Some(time.Second),
	})
	require.NoError(t, err)
	defer b.Cancel()

	assert.Equal(t, time.Second, b.Creative.WaitTimeout())

	require.NoError(t, b.HandlePacket(protocol.SetSlot{
		WindowID: protocol.PlayerWindow,
		Slot:     9,
		Item:     protocol.Slot{Present: true, ItemID: 1, Count: 1},
	}))

	result := make(chan error, 1)
	go func() {
		result <- b.Creative.ClearSlot(context.Background(), 9)
	}()

	require.Eventually(t, func() bool {
		return len(out.Packets()) == 1
	}, time.Second, time.Millisecond)

	// The default window has passed but the configured one has not
	mock.Add(500 * time.Millisecond)
	assert.True(t, b.Creative.Pending(9))

	mock.Add(500 * time.Millisecond)
	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("clear did not finish")
	}
	assert.False(t, b.Creative.Pending(9))
}

func TestConfiguredFlightSpeed(t *testing.T) {
	out := &conn{}
	logger := zerolog.Nop()
	b, err := New(context.Background(), out, Options{
		Version:     "1.20.4",
		Logger:      &logger,
		FlightSpeed: 6,
	})
	require.NoError(t, err)
	defer b.Cancel()
	assert.Equal(t, 6.0, b.Flight.Speed())

	_, err = New(context.Background(), out, Options{
		Version:     "1.20.4",
		Logger:      &logger,
		FlightSpeed: -1,
	})
	assert.Error(t, err)

	// A destination within reach is snapped to without ticking
	outcome, err := b.Flight.Fly(context.Background(), mgl64.Vec3{1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, "arrived", outcome.String())
	assert.Equal(t, mgl64.Vec3{1, 0, 1}, b.Entity.Position())
}
