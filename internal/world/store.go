package world

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrSemaphoreClosed is reported (as a warning) when the Store is used after Destroy.
var ErrSemaphoreClosed = errors.New("world: semaphore closed")

// Config sizes a new world.
type Config struct {
	Width   int
	Height  int
	Players int
	Enemies int
}

// DefaultWorldConfig returns the standard 80×80 dungeon with one player and five enemies.
func DefaultWorldConfig() Config {
	return Config{Width: 80, Height: 80, Players: 1, Enemies: len(DefaultBehaviors)}
}

// Validate rejects sizes the rest of the game cannot handle.
func (c Config) Validate() error {
	if c.Width < MinMapSize || c.Height < MinMapSize {
		return fmt.Errorf("world: map %dx%d is smaller than %dx%d", c.Width, c.Height, MinMapSize, MinMapSize)
	}
	if c.Players < 1 || c.Players > MaxPlayers {
		return fmt.Errorf("world: players must be 1..%d, got %d", MaxPlayers, c.Players)
	}
	if c.Enemies < 0 || c.Enemies > MaxEnemies {
		return fmt.Errorf("world: enemies must be 0..%d, got %d", MaxEnemies, c.Enemies)
	}
	return nil
}

// Store is the handle every task uses to reach the shared state.
//
// Access is serialized by a binary semaphore: a one-slot channel holding a
// token while the state is free. Acquire takes the token, Release puts it back.
// The semaphore is not reentrant.
type Store struct {
	sem   chan struct{}
	state *State
	log   *log.Logger

	// life guards closing sem against concurrent Release sends.
	life   sync.RWMutex
	closed bool
}

// New creates the state and its semaphore. Players start at Spawn with full
// health; enemies get their roster behavior and are positioned by the level
// generator.
func New(cfg Config, logger *log.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	now := time.Now()
	st := &State{
		Map:         NewMap(cfg.Width, cfg.Height),
		Players:     make([]Player, cfg.Players),
		Enemies:     make([]Enemy, cfg.Enemies),
		WinnerID:    WinnerNone,
		StartTime:   now,
		CurrentTime: now,
		Level:       1,
	}
	for i := range st.Players {
		st.Players[i] = Player{ID: i, X: Spawn.X, Y: Spawn.Y, Health: MaxHealth, Active: true}
	}
	for i := range st.Enemies {
		st.Enemies[i] = Enemy{
			ID:       i,
			Health:   MaxHealth,
			Active:   true,
			Behavior: DefaultBehaviors[i%len(DefaultBehaviors)],
		}
	}

	s := &Store{
		sem:   make(chan struct{}, 1),
		state: st,
		log:   logger,
	}
	s.sem <- struct{}{}
	return s, nil
}

// Acquire blocks until the caller has exclusive access. If the semaphore has
// been destroyed the failure is logged and access proceeds unguarded.
func (s *Store) Acquire() {
	if _, ok := <-s.sem; !ok {
		s.log.Warn("acquire on destroyed store, proceeding unguarded", "error", ErrSemaphoreClosed)
	}
}

// Release hands access to the next waiter. A release without a matching
// acquire, or after Destroy, is logged and ignored.
func (s *Store) Release() {
	s.life.RLock()
	defer s.life.RUnlock()
	if s.closed {
		s.log.Warn("release on destroyed store", "error", ErrSemaphoreClosed)
		return
	}
	select {
	case s.sem <- struct{}{}:
	default:
		s.log.Warn("release without matching acquire")
	}
}

// State returns the guarded state. Only valid between Acquire and Release.
func (s *Store) State() *State {
	return s.state
}

// With runs fn while holding the semaphore.
func (s *Store) With(fn func(st *State)) {
	s.Acquire()
	defer s.Release()
	fn(s.state)
}

// Snapshot returns a deep copy of the state taken under the lock.
func (s *Store) Snapshot() Snapshot {
	s.Acquire()
	c := s.state.Clone()
	s.Release()
	return NewSnapshot(c)
}

// Destroy closes the semaphore. Tasks blocked in Acquire wake up degraded.
// Calling Destroy twice is harmless.
func (s *Store) Destroy() {
	s.life.Lock()
	defer s.life.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.sem)
}
