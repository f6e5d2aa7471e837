package ipc

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Hub is the session's side of every agent's pair.
type Hub struct {
	pairs []Pair
	log   *log.Logger
}

// NewHub opens n pairs on the given transport.
func NewHub(n int, t Transport, buffer int, logger *log.Logger) (*Hub, error) {
	if logger == nil {
		logger = log.Default()
	}
	h := &Hub{log: logger}
	for i := 0; i < n; i++ {
		p, err := NewPair(t, buffer)
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("ipc: pair %d: %w", i, err)
		}
		h.pairs = append(h.pairs, p)
	}
	return h, nil
}

// Len returns the number of pairs.
func (h *Hub) Len() int { return len(h.pairs) }

// Pair returns the pair for agent id.
func (h *Hub) Pair(id int) Pair { return h.pairs[id] }

// Send delivers m to one agent. Failures are logged and dropped.
func (h *Hub) Send(id int, m Message) bool {
	if err := h.pairs[id].ToAgent.Send(m); err != nil {
		h.log.Warn("send to agent dropped", "enemy", id, "type", m.Type, "error", err)
		return false
	}
	return true
}

// Broadcast sends m down every session->agent link individually and returns
// how many were delivered.
func (h *Hub) Broadcast(m Message) int {
	m.To = Broadcast
	n := 0
	for id := range h.pairs {
		if h.Send(id, m) {
			n++
		}
	}
	return n
}

// Drain reads every pending agent->session message and hands it to fn along
// with the agent id. It returns the number of messages read.
func (h *Hub) Drain(fn func(id int, m Message)) int {
	n := 0
	for id, p := range h.pairs {
		for {
			m, ok := p.ToMain.TryRecv()
			if !ok {
				break
			}
			n++
			if fn != nil {
				fn(id, m)
			}
		}
	}
	return n
}

// Close closes every link.
func (h *Hub) Close() error {
	var errs []error
	for _, p := range h.pairs {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}
