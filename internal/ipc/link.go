package ipc

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Sender is the write side of a link.
type Sender interface {
	// Send never blocks. A full link returns ErrDropped.
	Send(Message) error
}

// Receiver is the read side of a link.
type Receiver interface {
	// TryRecv never blocks. ok is false when no complete message is ready.
	TryRecv() (msg Message, ok bool)
}

// Link is one direction of a channel pair.
type Link interface {
	Sender
	Receiver
	Close() error
}

// Transport names a Link implementation.
type Transport string

const (
	TransportChan Transport = "chan"
	TransportPipe Transport = "pipe"
)

// DefaultBuffer is the chan transport capacity.
const DefaultBuffer = 64

// NewLink builds a link for the transport.
func NewLink(t Transport, buffer int) (Link, error) {
	switch t {
	case TransportChan, "":
		return NewChanLink(buffer), nil
	case TransportPipe:
		l, err := NewPipeLink()
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, fmt.Errorf("ipc: unknown transport %q", t)
}

// ChanLink is an in-memory bounded link.
type ChanLink struct {
	ch     chan Message
	closed atomic.Bool
}

// NewChanLink creates a link holding up to buffer undelivered messages.
func NewChanLink(buffer int) *ChanLink {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &ChanLink{ch: make(chan Message, buffer)}
}

func (l *ChanLink) Send(m Message) error {
	if l.closed.Load() {
		return ErrClosed
	}
	select {
	case l.ch <- m:
		return nil
	default:
		return ErrDropped
	}
}

func (l *ChanLink) TryRecv() (Message, bool) {
	select {
	case m := <-l.ch:
		return m, true
	default:
		return Message{}, false
	}
}

// Close stops further sends. Messages already queued can still be received.
func (l *ChanLink) Close() error {
	l.closed.Store(true)
	return nil
}

// Pair is the two links serving one agent.
type Pair struct {
	ToAgent Link // session -> agent
	ToMain  Link // agent -> session
}

// NewPair creates both directions on the same transport.
func NewPair(t Transport, buffer int) (Pair, error) {
	down, err := NewLink(t, buffer)
	if err != nil {
		return Pair{}, err
	}
	up, err := NewLink(t, buffer)
	if err != nil {
		down.Close()
		return Pair{}, err
	}
	return Pair{ToAgent: down, ToMain: up}, nil
}

// Close closes both links.
func (p Pair) Close() error {
	return errors.Join(p.ToAgent.Close(), p.ToMain.Close())
}
