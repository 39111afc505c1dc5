package creative

import (
	"sync"
	"testing"
	"time"

	"github.com/cfoust/craftbot/pkg/protocol"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mutex   sync.Mutex
	packets []protocol.Packet
	written chan protocol.Packet
	hook    func(protocol.Packet)
}

func newRecorder() *recorder {
	return &recorder{
		written: make(chan protocol.Packet, 256),
	}
}

func (r *recorder) Write(packet protocol.Packet) error {
	r.mutex.Lock()
	r.packets = append(r.packets, packet)
	hook := r.hook
	r.mutex.Unlock()

	if hook != nil {
		hook(packet)
	}
	r.written <- packet
	return nil
}

func (r *recorder) Packets() []protocol.Packet {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]protocol.Packet(nil), r.packets...)
}

// next waits for the next written packet.
func (r *recorder) next(t *testing.T) protocol.Packet {
	t.Helper()
	select {
	case packet := <-r.written:
		return packet
	case <-time.After(time.Second):
		require.FailNow(t, "no packet was written")
		return nil
	}
}

func waitResult(t *testing.T, result <-chan error) error {
	t.Helper()
	select {
	case err := <-result:
		return err
	case <-time.After(time.Second):
		require.FailNow(t, "call did not resolve")
		return nil
	}
}
