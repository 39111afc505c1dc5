package creative

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cfoust/craftbot/pkg/features"
	"github.com/cfoust/craftbot/pkg/inventory"
	"github.com/cfoust/craftbot/pkg/item"
	"github.com/cfoust/craftbot/pkg/protocol"
	"github.com/cfoust/craftbot/pkg/utils"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/errgroup"
)

// NumSlots is the number of slots the creative packet can address.
const NumSlots = 45

const (
	DefaultWaitTimeout = 400 * time.Millisecond
	ConfirmTimeout     = 5 * time.Second
)

var (
	ErrOutOfRange         = errors.New("slot out of range")
	ErrConcurrentMutation = errors.New("slot already has a pending change")
	ErrServerRejected     = errors.New("server rejected the slot change")
	ErrTimeout            = errors.New("timed out waiting for the server to update the slot")
)

type Inventory interface {
	Slot(slot int) *item.Item
	SetSlot(slot int, contents *item.Item) bool
	Occupied() []int
	Watch(slot int) *utils.Subscriber[inventory.Update]
}

type slotState uint8

const (
	idle slotState = iota
	pending
)

// Mutator changes inventory slots in creative mode. Each slot has at most
// one change in flight; a second request for a busy slot fails instead of
// queueing.
type Mutator struct {
	mutex       deadlock.Mutex
	slots       [NumSlots]slotState
	waitTimeout time.Duration

	inventory Inventory
	writer    protocol.Writer
	clock     clock.Clock
	logger    zerolog.Logger

	// The server applies the change without echoing the slot back.
	noAck bool
}

func NewMutator(profile features.Profile, inventory Inventory, writer protocol.Writer, clk clock.Clock, logger zerolog.Logger) *Mutator {
	return &Mutator{
		waitTimeout: DefaultWaitTimeout,
		inventory:   inventory,
		writer:      writer,
		clock:       clk,
		logger:      logger,
		noAck:       profile.Supports(features.NoAckOnCreateSetSlotPacket),
	}
}

// SetWaitTimeout changes the window ClearSlot and ClearInventory use.
func (m *Mutator) SetWaitTimeout(waitTimeout time.Duration) {
	m.mutex.Lock()
	m.waitTimeout = waitTimeout
	m.mutex.Unlock()
}

func (m *Mutator) WaitTimeout() time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.waitTimeout
}

// Pending reports whether a change to the slot is waiting to resolve.
func (m *Mutator) Pending(slot int) bool {
	if slot < 0 || slot >= NumSlots {
		return false
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.slots[slot] == pending
}

func (m *Mutator) acquire(slot int) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.slots[slot] == pending {
		return false
	}
	m.slots[slot] = pending
	return true
}

func (m *Mutator) release(slot int) {
	m.mutex.Lock()
	m.slots[slot] = idle
	m.mutex.Unlock()
}

// MutateSlot puts contents (nil for empty) into a slot. Without server
// acknowledgements the change is applied locally right away and
// waitTimeout bounds how long to watch for the server contradicting it;
// zero does not wait at all. With acknowledgements the call waits up to
// ConfirmTimeout for the server to report the new contents.
func (m *Mutator) MutateSlot(ctx context.Context, slot int, contents *item.Item, waitTimeout time.Duration) error {
	if slot < 0 || slot >= NumSlots {
		return fmt.Errorf("slot %d: %w", slot, ErrOutOfRange)
	}

	if item.Equal(m.inventory.Slot(slot), contents, true) {
		return nil
	}

	if !m.acquire(slot) {
		return fmt.Errorf("slot %d: %w", slot, ErrConcurrentMutation)
	}
	defer m.release(slot)

	packet := protocol.SetCreativeSlot{
		Slot: int16(slot),
		Item: item.ToSlot(contents),
	}

	var err error
	if m.noAck {
		err = m.mutateOptimistic(ctx, slot, contents, packet, waitTimeout)
	} else {
		err = m.mutateConfirmed(ctx, slot, contents, packet)
	}

	if err != nil {
		m.logger.Debug().Err(err).Int("slot", slot).Msg("slot change failed")
	}
	return err
}

func (m *Mutator) mutateOptimistic(ctx context.Context, slot int, contents *item.Item, packet protocol.SetCreativeSlot, waitTimeout time.Duration) error {
	previous := m.inventory.Slot(slot)

	// Applied before watching so our own change is not mistaken for the
	// server's answer.
	m.inventory.SetSlot(slot, contents)

	if waitTimeout <= 0 {
		err := m.writer.Write(packet)
		if err != nil {
			m.inventory.SetSlot(slot, previous)
			return fmt.Errorf("slot %d: %w", slot, err)
		}
		return nil
	}

	watcher := m.inventory.Watch(slot)
	defer watcher.Done()

	window := m.clock.Timer(waitTimeout)
	defer window.Stop()

	err := m.writer.Write(packet)
	if err != nil {
		m.inventory.SetSlot(slot, previous)
		return fmt.Errorf("slot %d: %w", slot, err)
	}

	want := item.TypeOf(contents)
	for {
		select {
		case update := <-watcher.Recv():
			if item.TypeOf(update.New) != want {
				return fmt.Errorf("slot %d: %w", slot, ErrServerRejected)
			}
		case <-window.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Mutator) mutateConfirmed(ctx context.Context, slot int, contents *item.Item, packet protocol.SetCreativeSlot) error {
	watcher := m.inventory.Watch(slot)
	defer watcher.Done()

	deadline := m.clock.Timer(ConfirmTimeout)
	defer deadline.Stop()

	err := m.writer.Write(packet)
	if err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}

	for {
		select {
		case update := <-watcher.Recv():
			if item.Matches(contents, update.New) {
				return nil
			}
		case <-deadline.C:
			return fmt.Errorf("slot %d: %w", slot, ErrTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Mutator) ClearSlot(ctx context.Context, slot int) error {
	return m.MutateSlot(ctx, slot, nil, m.WaitTimeout())
}

// ClearInventory empties every occupied slot at once. It waits for all of
// them and returns the first failure.
func (m *Mutator) ClearInventory(ctx context.Context) error {
	var group errgroup.Group

	for _, slot := range m.inventory.Occupied() {
		if slot >= NumSlots {
			continue
		}

		slot := slot
		group.Go(func() error {
			return m.ClearSlot(ctx, slot)
		})
	}

	return group.Wait()
}
