// Package wire implements the peer protocol of the translator: a
// length-prefixed binary framing over a single TCP connection, plus
// the transport loops that pump it. Every message is a one-byte tag,
// an eight-byte big-endian payload length, and the payload itself.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MsgType is the tag byte leading every message.
type MsgType byte

const (
	// TypeVideo carries an encoded frame, see pic.Marshal.
	TypeVideo MsgType = 0
	// TypeText carries a UTF-8 transcript line.
	TypeText MsgType = 1
)

func (t MsgType) Known() bool {
	return t == TypeVideo || t == TypeText
}

func (t MsgType) String() string {
	switch t {
	case TypeVideo:
		return "video"
	case TypeText:
		return "text"
	}
	return fmt.Sprintf("type(%d)", byte(t))
}

// HeaderSize is the fixed message prefix: tag plus payload length.
const HeaderSize = 1 + 8

// MaxPayload bounds the payload length a receiver will accept. A
// header promising more marks the stream as corrupt, since a peer
// must never be able to pick our allocation sizes.
const MaxPayload = 64 << 20

var (
	// ErrShortHeader reports a header buffer below HeaderSize.
	ErrShortHeader = errors.New("wire: short header")
	// ErrPayloadSize reports a header whose length field exceeds MaxPayload.
	ErrPayloadSize = errors.New("wire: payload length exceeds limit")
)

// Message is one framed unit on the wire.
type Message struct {
	Type    MsgType
	Payload []byte
}

// Video wraps an encoded frame payload.
func Video(payload []byte) Message {
	return Message{Type: TypeVideo, Payload: payload}
}

// Text wraps a transcript line.
func Text(s string) Message {
	return Message{Type: TypeText, Payload: []byte(s)}
}

// Encode serializes the message into a single buffer, header first.
func Encode(m Message) []byte {
	b := make([]byte, HeaderSize+len(m.Payload))
	b[0] = byte(m.Type)
	binary.BigEndian.PutUint64(b[1:HeaderSize], uint64(len(m.Payload)))
	copy(b[HeaderSize:], m.Payload)
	return b
}

// DecodeHeader reads the tag and payload length from a message prefix.
func DecodeHeader(b []byte) (MsgType, uint64, error) {
	if len(b) < HeaderSize {
		return 0, 0, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}
	t := MsgType(b[0])
	n := binary.BigEndian.Uint64(b[1:HeaderSize])
	if n > MaxPayload {
		return 0, 0, fmt.Errorf("%w: %d bytes promised", ErrPayloadSize, n)
	}
	return t, n, nil
}
