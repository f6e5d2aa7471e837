// Package game wires the world store, level generator, rules engine, enemy
// agents and timekeeper into one playable session.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dungeon-conquerors/internal/agent"
	"github.com/vovakirdan/dungeon-conquerors/internal/config"
	"github.com/vovakirdan/dungeon-conquerors/internal/ipc"
	"github.com/vovakirdan/dungeon-conquerors/internal/level"
	"github.com/vovakirdan/dungeon-conquerors/internal/rules"
	"github.com/vovakirdan/dungeon-conquerors/internal/timekeeper"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// PlayerID is the human player's index.
const PlayerID = 0

// Publisher receives a snapshot after every frame. The spectator hub
// implements it.
type Publisher interface {
	Publish(world.Snapshot)
}

// Options configures a session.
type Options struct {
	Config    config.DungeonConfig
	Seed      int64 // 0 picks a time-based seed
	Logger    *log.Logger
	Publisher Publisher
}

// Frame is the result of one Pump.
type Frame struct {
	Snapshot world.Snapshot
	Messages int
	Hit      rules.HitOutcome
}

// Result summarizes a finished session.
type Result struct {
	Score    int
	Level    int
	Outcome  world.Outcome
	Duration time.Duration
	Seed     int64
	Forced   int // agents that had to be force-terminated
}

// Session is one player's dungeon run.
type Session struct {
	cfg    config.DungeonConfig
	seed   int64
	log    *log.Logger
	pub    Publisher
	store  *world.Store
	levels *level.Generator
	engine *rules.Engine
	hub    *ipc.Hub
	sup    *agent.Supervisor
	keeper *timekeeper.Keeper
	agents []*agent.Agent

	mu      sync.Mutex // guards rng; moves may come from several goroutines
	rng     *rand.Rand
	started time.Time

	stopOnce sync.Once
	result   Result
}

// New builds the world, generates level 1 and prepares one agent per enemy.
// Agents and the timekeeper do not run until Start.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store, err := world.New(cfg.WorldSize(), logger)
	if err != nil {
		return nil, fmt.Errorf("game: create world: %w", err)
	}

	s := &Session{
		cfg:    cfg,
		seed:   seed,
		log:    logger,
		pub:    opts.Publisher,
		store:  store,
		levels: &level.Generator{KeysRequired: cfg.KeysRequired(), Logger: logger},
		rng:    rand.New(rand.NewSource(seed)),
	}
	s.engine = rules.NewEngine(cfg.RulesParams(), s.levels, logger)

	var genErr error
	store.With(func(st *world.State) {
		genErr = s.levels.Generate(st, 1, s.rng)
	})
	if genErr != nil {
		store.Destroy()
		return nil, fmt.Errorf("game: generate level: %w", genErr)
	}

	var behaviors []world.Behavior
	store.With(func(st *world.State) {
		for _, e := range st.Enemies {
			behaviors = append(behaviors, e.Behavior)
		}
	})

	s.hub, err = ipc.NewHub(len(behaviors), cfg.Transport(), cfg.Agents.Buffer, logger)
	if err != nil {
		store.Destroy()
		return nil, fmt.Errorf("game: open links: %w", err)
	}

	acfg := cfg.AgentConfig()
	for id, b := range behaviors {
		rng := rand.New(rand.NewSource(seed + int64(id) + 1))
		s.agents = append(s.agents, agent.New(id, b, store, s.hub.Pair(id), acfg, rng, logger))
	}
	s.sup = agent.NewSupervisor(s.hub, logger)
	s.keeper = timekeeper.New(store, cfg.TimekeeperSettings(), rand.New(rand.NewSource(seed-1)), logger)

	logger.Info("session created", "seed", seed, "enemies", len(behaviors), "transport", cfg.Transport())
	return s, nil
}

// Seed returns the level seed.
func (s *Session) Seed() int64 { return s.seed }

// Store exposes the world handle.
func (s *Session) Store() *world.Store { return s.store }

// Start resets the clock and launches the agents and the timekeeper.
func (s *Session) Start(ctx context.Context) {
	now := time.Now()
	s.started = now
	s.store.With(func(st *world.State) {
		st.StartTime = now
		st.CurrentTime = now
	})
	s.sup.Start(ctx, s.agents)
	s.keeper.Start()
	s.broadcastPosition()
}

// Move applies a player step and tells the agents where the player is.
func (s *Session) Move(dx, dy int) rules.Outcome {
	s.mu.Lock()
	out := s.engine.ApplyMove(s.store, PlayerID, dx, dy, s.rng)
	s.mu.Unlock()

	switch out {
	case rules.OutcomeRejected, rules.OutcomeExitLocked:
		return out
	case rules.OutcomeKeyCollected, rules.OutcomeDoorKey:
		s.hub.Broadcast(ipc.Message{From: ipc.MainID, Type: ipc.MsgKeyCollected})
	}
	s.broadcastPosition()
	return out
}

// Escape ends the round as exited.
func (s *Session) Escape() {
	s.store.With(func(st *world.State) {
		if !st.GameOver {
			rules.Quit(st, PlayerID)
			st.Notices.Push("You left the dungeon", time.Now())
		}
	})
}

func (s *Session) broadcastPosition() {
	var pos world.Player
	s.store.With(func(st *world.State) { pos = st.Players[PlayerID] })
	if !pos.Active {
		return
	}
	s.hub.Broadcast(ipc.Message{From: ipc.MainID, X: pos.X, Y: pos.Y, Type: ipc.MsgPositionUpdate})
}

// Pump runs one front-end frame: broadcast the player position, drain agent
// reports, resolve a pending hit and take a snapshot.
func (s *Session) Pump() Frame {
	s.broadcastPosition()

	var f Frame
	f.Messages = s.hub.Drain(func(id int, m ipc.Message) {
		if m.Type == ipc.MsgPlayerHit {
			s.log.Debug("player hit", "enemy", id, "damage", m.Data, "x", m.X, "y", m.Y)
		}
	})

	now := time.Now()
	s.store.With(func(st *world.State) {
		f.Hit = s.engine.ResolveHit(st, now)
	})
	if f.Hit == rules.HitFatal {
		s.log.Info("player defeated")
	}

	f.Snapshot = s.store.Snapshot()
	if s.pub != nil {
		s.pub.Publish(f.Snapshot)
	}
	return f
}

// Snapshot returns a copy of the world.
func (s *Session) Snapshot() world.Snapshot {
	return s.store.Snapshot()
}

// Over reports whether the round has ended.
func (s *Session) Over() bool {
	over := false
	s.store.With(func(st *world.State) { over = st.GameOver })
	return over
}

// Stop shuts every task down and destroys the world. It is safe to call more
// than once; later calls return the first result.
func (s *Session) Stop() Result {
	s.stopOnce.Do(func() {
		forced := s.sup.Shutdown(s.cfg.Agents.ShutdownGrace)
		s.keeper.Stop()

		snap := s.store.Snapshot()
		if s.pub != nil {
			s.pub.Publish(snap)
		}
		s.result = Result{
			Level:   snap.Level,
			Outcome: snap.Outcome(PlayerID),
			Seed:    s.seed,
			Forced:  forced,
		}
		if p := snap.Player(PlayerID); p != nil {
			s.result.Score = p.Score
		}
		if !s.started.IsZero() {
			s.result.Duration = time.Since(s.started)
		}

		if err := s.hub.Close(); err != nil {
			s.log.Warn("closing agent links", "error", err)
		}
		s.store.Destroy()
		s.log.Info("session stopped", "outcome", s.result.Outcome, "score", s.result.Score, "forced", forced)
	})
	return s.result
}
