package network

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MessageType identifies the semantic meaning of a message
type MessageType uint8

const (
	// Control
	MsgHeartbeat MessageType = 0x01

	// Entry point calls; replies carry the call's Seq in Ack
	MsgCall    MessageType = 0x10
	MsgResult  MessageType = 0x11
	MsgFailure MessageType = 0x12
)

func (t MessageType) String() string {
	switch t {
	case MsgHeartbeat:
		return "heartbeat"
	case MsgCall:
		return "call"
	case MsgResult:
		return "result"
	case MsgFailure:
		return "failure"
	}
	return fmt.Sprintf("MessageType(0x%02x)", uint8(t))
}

// Header precedes every message on the wire
// Fixed 14 bytes: [Type:1][Flags:1][Seq:4][Ack:4][Len:4]
const HeaderSize = 14

// Header flags
const (
	FlagNone uint8 = 0x00
)

// ErrPayloadTooLarge is returned for frames above the configured limit
var ErrPayloadTooLarge = errors.New("payload exceeds maximum size")

// Message represents a framed network message
type Message struct {
	Type    MessageType
	Flags   uint8
	Seq     uint32 // Sender's sequence number
	Ack     uint32 // Sequence being answered, or last received
	Payload []byte
}

// Encode writes the header and payload to w
func (m *Message) Encode(w io.Writer) error {
	payloadLen := len(m.Payload)
	if uint64(payloadLen) > 0xFFFFFFFF {
		return ErrPayloadTooLarge
	}

	var header [HeaderSize]byte
	header[0] = byte(m.Type)
	header[1] = m.Flags
	binary.BigEndian.PutUint32(header[2:6], m.Seq)
	binary.BigEndian.PutUint32(header[6:10], m.Ack)
	binary.BigEndian.PutUint32(header[10:14], uint32(payloadLen))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	if payloadLen > 0 {
		if _, err := w.Write(m.Payload); err != nil {
			return err
		}
	}

	return nil
}

// Decode reads a message from r, rejecting payloads above maxPayload
func Decode(r io.Reader, maxPayload int) (*Message, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	payloadLen := binary.BigEndian.Uint32(header[10:14])
	if maxPayload > 0 && uint64(payloadLen) > uint64(maxPayload) {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, payloadLen)
	}

	m := &Message{
		Type:  MessageType(header[0]),
		Flags: header[1],
		Seq:   binary.BigEndian.Uint32(header[2:6]),
		Ack:   binary.BigEndian.Uint32(header[6:10]),
	}

	if payloadLen > 0 {
		m.Payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// NewMessage creates a message with the given type and payload
func NewMessage(t MessageType, payload []byte) *Message {
	return &Message{
		Type:    t,
		Flags:   FlagNone,
		Payload: payload,
	}
}

// NewReply creates a message answering the call with sequence callSeq
func NewReply(t MessageType, callSeq uint32, payload []byte) *Message {
	return &Message{
		Type:    t,
		Ack:     callSeq,
		Payload: payload,
	}
}

// CallRequest invokes an entry point by name with tree-encoded arguments
type CallRequest struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// CallResult carries the tree-encoded return value; nil for void entry points
type CallResult struct {
	Result any `json:"result"`
}

// CallFailure is a foreign exception raised by the entry point
type CallFailure struct {
	Class   string `json:"class"`
	Message string `json:"message"`
}

func (f *CallFailure) Error() string {
	return f.Class + ": " + f.Message
}

// unmarshal decodes JSON keeping numbers exact for the tree decoder
func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
