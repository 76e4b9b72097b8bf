// Package wyoming implements the Wyoming voice-satellite wire protocol:
// one JSON header line per event, optionally followed by a JSON data block
// and a raw binary payload.
package wyoming

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

const protocolVersion = "1.5.4"

// Bounds on header-declared block sizes. Data blocks are small JSON
// objects and audio chunks are a few KB of PCM; anything near these
// limits is a malformed or hostile client.
const (
	maxDataLength    = 1 << 20
	maxPayloadLength = 1 << 22
)

// Event is a single decoded protocol event.
type Event struct {
	Type    string
	Data    json.RawMessage
	Payload []byte
}

type header struct {
	Type          string          `json:"type"`
	Version       string          `json:"version,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
	DataLength    *int            `json:"data_length,omitempty"`
	PayloadLength *int            `json:"payload_length,omitempty"`
}

// NewEvent marshals v as the event's data block.
func NewEvent(eventType string, v any) (Event, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s data: %w", eventType, err)
	}
	return Event{Type: eventType, Data: data}, nil
}

// WriteEvent frames ev onto w: the header line, then the data block, then
// the payload. Data and payload are always written out-of-line with their
// lengths declared in the header.
func WriteEvent(w io.Writer, ev Event) error {
	if ev.Type == "" {
		return fmt.Errorf("event has no type")
	}
	hdr := header{Type: ev.Type, Version: protocolVersion}
	if len(ev.Data) > 0 {
		n := len(ev.Data)
		hdr.DataLength = &n
	}
	if len(ev.Payload) > 0 {
		n := len(ev.Payload)
		hdr.PayloadLength = &n
	}
	line, err := json.Marshal(hdr)
	if err != nil {
		return fmt.Errorf("marshal event header: %w", err)
	}
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("write event header: %w", err)
	}
	if len(ev.Data) > 0 {
		if _, err := w.Write(ev.Data); err != nil {
			return fmt.Errorf("write event data: %w", err)
		}
	}
	if len(ev.Payload) > 0 {
		if _, err := w.Write(ev.Payload); err != nil {
			return fmt.Errorf("write event payload: %w", err)
		}
	}
	return nil
}

// ReadEvent decodes the next event from r. Inline header data (older
// clients) and out-of-line data blocks are both accepted.
func ReadEvent(r *bufio.Reader) (Event, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return Event{}, err
	}
	var hdr header
	if err := json.Unmarshal(line, &hdr); err != nil {
		return Event{}, fmt.Errorf("decode event header: %w", err)
	}
	if hdr.Type == "" {
		return Event{}, fmt.Errorf("event header has no type")
	}
	ev := Event{Type: hdr.Type, Data: hdr.Data}
	if hdr.DataLength != nil && *hdr.DataLength > 0 {
		if *hdr.DataLength > maxDataLength {
			return Event{}, fmt.Errorf("event data length %d exceeds limit %d", *hdr.DataLength, maxDataLength)
		}
		data := make([]byte, *hdr.DataLength)
		if _, err := io.ReadFull(r, data); err != nil {
			return Event{}, fmt.Errorf("read event data: %w", err)
		}
		ev.Data = data
	}
	if hdr.PayloadLength != nil && *hdr.PayloadLength > 0 {
		if *hdr.PayloadLength > maxPayloadLength {
			return Event{}, fmt.Errorf("event payload length %d exceeds limit %d", *hdr.PayloadLength, maxPayloadLength)
		}
		payload := make([]byte, *hdr.PayloadLength)
		if _, err := io.ReadFull(r, payload); err != nil {
			return Event{}, fmt.Errorf("read event payload: %w", err)
		}
		ev.Payload = payload
	}
	return ev, nil
}

// EventWriter is the outbound half of a session's event channel.
type EventWriter interface {
	WriteEvent(Event) error
}

// Conn wraps a byte stream with event framing. Reads are expected from a
// single goroutine; writes are serialized so the background streaming task
// and the event loop can both emit events.
type Conn struct {
	r *bufio.Reader

	mu sync.Mutex
	w  io.Writer
}

func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{r: bufio.NewReader(rw), w: rw}
}

func (c *Conn) ReadEvent() (Event, error) {
	return ReadEvent(c.r)
}

func (c *Conn) WriteEvent(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteEvent(c.w, ev)
}
