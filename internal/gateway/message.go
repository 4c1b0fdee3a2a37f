// Package gateway delivers zone events to websocket clients and turns
// client commands into player operations.
package gateway

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/udisondev/zonecell/internal/event"
)

// Envelope is the wire form of an event.
type Envelope struct {
	Kind      uint16 `msgpack:"k"`
	Subject   uint8  `msgpack:"s"`
	SubjectID uint32 `msgpack:"id"`
	Payload   any    `msgpack:"p,omitempty"`
}

// Client command ops.
const (
	OpMove   = "move"
	OpAction = "action"
	OpTarget = "target"
)

// Command is a message sent by a client.
type Command struct {
	Op      string  `msgpack:"op"`
	X       float32 `msgpack:"x,omitempty"`
	Y       float32 `msgpack:"y,omitempty"`
	Z       float32 `msgpack:"z,omitempty"`
	Heading uint16  `msgpack:"h,omitempty"`
	Motion  uint8   `msgpack:"m,omitempty"`
	Action  int32   `msgpack:"a,omitempty"`
	Target  uint32  `msgpack:"t,omitempty"`
}

// EncodeEvent serializes ev for the wire.
func EncodeEvent(ev event.Event) ([]byte, error) {
	data, err := msgpack.Marshal(&Envelope{
		Kind:      uint16(ev.Kind),
		Subject:   uint8(ev.Subject),
		SubjectID: ev.SubjectID,
		Payload:   ev.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", ev.Kind, err)
	}
	return data, nil
}

// DecodeEnvelope parses an encoded event. Payload comes back as a generic
// msgpack map.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	return env, nil
}

// EncodeCommand serializes a client command.
func EncodeCommand(cmd Command) ([]byte, error) {
	data, err := msgpack.Marshal(&cmd)
	if err != nil {
		return nil, fmt.Errorf("encoding %q command: %w", cmd.Op, err)
	}
	return data, nil
}

// DecodeCommand parses a client command.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := msgpack.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decoding command: %w", err)
	}
	return cmd, nil
}
