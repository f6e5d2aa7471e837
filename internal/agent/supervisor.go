package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dungeon-conquerors/internal/ipc"
)

// ShutdownPoll is how often Shutdown checks for stopped agents.
const ShutdownPoll = 100 * time.Millisecond

// Supervisor owns the agent goroutines.
type Supervisor struct {
	hub    *ipc.Hub
	log    *log.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running int
}

// NewSupervisor creates a supervisor that signals agents through hub.
func NewSupervisor(hub *ipc.Hub, logger *log.Logger) *Supervisor {
	if logger == nil {
		logger = log.Default()
	}
	return &Supervisor{hub: hub, log: logger}
}

// Start launches every agent on its own goroutine.
func (s *Supervisor) Start(ctx context.Context, agents []*Agent) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, a := range agents {
		s.mu.Lock()
		s.running++
		s.mu.Unlock()
		s.wg.Add(1)
		go func(a *Agent) {
			defer s.wg.Done()
			err := a.Run(ctx)
			s.mu.Lock()
			s.running--
			s.mu.Unlock()
			if errors.Is(err, context.Canceled) {
				s.log.Info("agent force-terminated", "enemy", a.ID)
			} else if err != nil {
				s.log.Error("agent failed", "enemy", a.ID, "error", err)
			}
		}(a)
	}
}

// Running returns the number of agents still looping.
func (s *Supervisor) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Shutdown asks agents to stop with a GameOver broadcast, waits up to grace
// for them, then cancels the stragglers and waits for them to exit. It
// returns how many had to be force-terminated.
func (s *Supervisor) Shutdown(grace time.Duration) int {
	if s.cancel == nil {
		return 0
	}
	s.hub.Broadcast(ipc.Message{From: ipc.MainID, Type: ipc.MsgGameOver})

	deadline := time.Now().Add(grace)
	for s.Running() > 0 && time.Now().Before(deadline) {
		time.Sleep(ShutdownPoll)
	}

	forced := s.Running()
	if forced > 0 {
		s.log.Info("grace period elapsed, terminating agents", "remaining", forced)
	}
	s.cancel()
	s.wg.Wait()
	return forced
}
