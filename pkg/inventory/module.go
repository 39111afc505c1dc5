package inventory

import (
	"github.com/cfoust/craftbot/pkg/item"
	"github.com/cfoust/craftbot/pkg/utils"

	"github.com/sasha-s/go-deadlock"
)

// NumSlots is the size of the player inventory window, offhand included.
const NumSlots = 46

const watchBuffer = 8

type Update struct {
	Slot int
	Old  *item.Item
	New  *item.Item
}

// Inventory is the local view of the player window. Every change is
// announced on the slot's topic.
type Inventory struct {
	mutex   deadlock.RWMutex
	slots   [NumSlots]*item.Item
	updates [NumSlots]*utils.Topic[Update]
}

func New() *Inventory {
	inventory := &Inventory{}
	for i := range inventory.updates {
		inventory.updates[i] = utils.NewTopic[Update]()
	}
	return inventory
}

func Valid(slot int) bool {
	return slot >= 0 && slot < NumSlots
}

func (i *Inventory) Slot(slot int) *item.Item {
	if !Valid(slot) {
		return nil
	}

	i.mutex.RLock()
	defer i.mutex.RUnlock()
	return i.slots[slot]
}

// SetSlot replaces a slot's contents and notifies its watchers. It
// reports false for slots outside the window.
func (i *Inventory) SetSlot(slot int, contents *item.Item) bool {
	if !Valid(slot) {
		return false
	}

	i.mutex.Lock()
	old := i.slots[slot]
	i.slots[slot] = contents
	i.mutex.Unlock()

	i.updates[slot].Publish(Update{
		Slot: slot,
		Old:  old,
		New:  contents,
	})
	return true
}

// Occupied lists the slots that are not empty, in ascending order.
func (i *Inventory) Occupied() []int {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	result := make([]int, 0)
	for slot, contents := range i.slots {
		if contents != nil {
			result = append(result, slot)
		}
	}
	return result
}

// Watch subscribes to changes of one slot. Callers must call Done on the
// subscriber once they stop reading.
func (i *Inventory) Watch(slot int) *utils.Subscriber[Update] {
	return i.updates[slot].SubscribeBuffered(watchBuffer)
}

// Watchers reports how many subscriptions are open on a slot.
func (i *Inventory) Watchers(slot int) int {
	return i.updates[slot].NumSubscribers()
}
