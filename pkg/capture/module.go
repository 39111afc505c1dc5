package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cfoust/craftbot/pkg/protocol"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/sasha-s/go-deadlock"
)

type Direction uint8

const (
	Inbound Direction = iota
	Outbound
)

func (d Direction) String() string {
	switch d {
	case Inbound:
		return "in"
	case Outbound:
		return "out"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Record is one packet as it crossed the connection.
type Record struct {
	Session   uuid.UUID       `cbor:"session"`
	Time      time.Time       `cbor:"time"`
	Direction Direction       `cbor:"direction"`
	Kind      protocol.Kind   `cbor:"kind"`
	Data      cbor.RawMessage `cbor:"data"`
}

func (r Record) Packet() (protocol.Packet, error) {
	return protocol.Decode(r.Kind, r.Data)
}

var encMode cbor.EncMode

func init() {
	mode, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	encMode = mode
}

// Writer appends records to a zstd compressed cbor stream. It is safe for
// concurrent use.
type Writer struct {
	mutex   deadlock.Mutex
	session uuid.UUID
	zstd    *zstd.Encoder
	enc     *cbor.Encoder
	file    io.Closer
	now     func() time.Time
}

func NewWriter(w io.Writer, session uuid.UUID) (*Writer, error) {
	compressor, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}

	return &Writer{
		session: session,
		zstd:    compressor,
		enc:     encMode.NewEncoder(compressor),
		now:     time.Now,
	}, nil
}

// Create starts a new capture file at path with a fresh session id.
func Create(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writer, err := NewWriter(file, uuid.New())
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	writer.file = file
	return writer, nil
}

func (w *Writer) Session() uuid.UUID {
	return w.session
}

func (w *Writer) Record(direction Direction, packet protocol.Packet) error {
	data, err := protocol.Encode(packet)
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", packet.Kind(), err)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.enc.Encode(Record{
		Session:   w.session,
		Time:      w.now(),
		Direction: direction,
		Kind:      packet.Kind(),
		Data:      data,
	})
}

func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	err := w.zstd.Close()
	if w.file != nil {
		err = errors.Join(err, w.file.Close())
	}
	return err
}

type Reader struct {
	zstd *zstd.Decoder
	dec  *cbor.Decoder
	file io.Closer
}

func NewReader(r io.Reader) (*Reader, error) {
	decompressor, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &Reader{
		zstd: decompressor,
		dec:  cbor.NewDecoder(decompressor),
	}, nil
}

func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader, err := NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	reader.file = file
	return reader, nil
}

// Next returns the next record, or io.EOF once the capture is exhausted.
func (r *Reader) Next() (Record, error) {
	var record Record
	err := r.dec.Decode(&record)
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

func (r *Reader) Close() error {
	r.zstd.Close()
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
