// Package ipc carries fixed-size messages between the session and its enemy
// agents. Every link is one-directional and never blocks.
package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MsgType identifies a message.
type MsgType int32

const (
	MsgPositionUpdate MsgType = 1
	MsgEnemyMove      MsgType = 2
	MsgPlayerHit      MsgType = 3
	MsgGameOver       MsgType = 4
	MsgKeyCollected   MsgType = 5
)

func (t MsgType) String() string {
	switch t {
	case MsgPositionUpdate:
		return "position-update"
	case MsgEnemyMove:
		return "enemy-move"
	case MsgPlayerHit:
		return "player-hit"
	case MsgGameOver:
		return "game-over"
	case MsgKeyCollected:
		return "key-collected"
	}
	return fmt.Sprintf("msg(%d)", int32(t))
}

// Broadcast is the To value addressed to every agent.
const Broadcast = -1

// MainID is the sender id the session uses.
const MainID = -1

// Message is copied by value. On the wire it is six little-endian int32s.
type Message struct {
	From int
	To   int
	X    int
	Y    int
	Type MsgType
	Data int
}

// RecordSize is the encoded size of a Message.
const RecordSize = 24

var (
	// ErrDropped means the link had no room and the message was discarded.
	ErrDropped = errors.New("ipc: message dropped")
	// ErrShortWrite means only part of a record reached the pipe.
	ErrShortWrite = errors.New("ipc: short write")
	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("ipc: link closed")
)

// Encode writes m into a record in field order from, to, x, y, type, data.
func (m Message) Encode() [RecordSize]byte {
	var b [RecordSize]byte
	le := binary.LittleEndian
	le.PutUint32(b[0:], uint32(int32(m.From)))
	le.PutUint32(b[4:], uint32(int32(m.To)))
	le.PutUint32(b[8:], uint32(int32(m.X)))
	le.PutUint32(b[12:], uint32(int32(m.Y)))
	le.PutUint32(b[16:], uint32(int32(m.Type)))
	le.PutUint32(b[20:], uint32(int32(m.Data)))
	return b
}

// Decode parses a record produced by Encode.
func Decode(b []byte) (Message, error) {
	if len(b) < RecordSize {
		return Message{}, fmt.Errorf("ipc: record is %d bytes, need %d", len(b), RecordSize)
	}
	le := binary.LittleEndian
	field := func(off int) int { return int(int32(le.Uint32(b[off:]))) }
	return Message{
		From: field(0),
		To:   field(4),
		X:    field(8),
		Y:    field(12),
		Type: MsgType(field(16)),
		Data: field(20),
	}, nil
}
