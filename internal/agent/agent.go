// Package agent runs the enemy AI. Each enemy is an Agent goroutine that
// sees the world only through the Store and talks to the session only
// through its ipc.Pair.
package agent

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/ipc"
	"github.com/vovakirdan/dungeon-conquerors/internal/rules"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// Config tunes agent pacing.
type Config struct {
	Tick        time.Duration
	Damage      int
	GracePeriod time.Duration

	// MoveEvery is the number of ticks between moves per behavior.
	MoveEvery map[world.Behavior]int
}

// DefaultConfig returns the standard pacing: a 50ms tick and per-behavior
// move intervals of 5/10/12/10 ticks.
func DefaultConfig() Config {
	return Config{
		Tick:        50 * time.Millisecond,
		Damage:      5,
		GracePeriod: 20 * time.Second,
		MoveEvery: map[world.Behavior]int{
			world.BehaviorChase:  5,
			world.BehaviorRandom: 10,
			world.BehaviorGuard:  12,
			world.BehaviorSmart:  10,
		},
	}
}

// Agent drives one enemy.
type Agent struct {
	ID       int
	Behavior world.Behavior

	store *world.Store
	in    ipc.Receiver
	out   ipc.Sender
	cfg   Config
	rng   *rand.Rand
	log   *log.Logger
	now   func() time.Time

	start     time.Time
	counter   int
	decisions int
	terminate bool

	target    core.Point
	hasTarget bool
	prev      core.Point
	hasPrev   bool
}

// New creates an agent for enemy id. The agent reads pair.ToAgent and
// writes pair.ToMain.
func New(id int, b world.Behavior, store *world.Store, pair ipc.Pair, cfg Config, rng *rand.Rand, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.Default()
	}
	return &Agent{
		ID:       id,
		Behavior: b,
		store:    store,
		in:       pair.ToAgent,
		out:      pair.ToMain,
		cfg:      cfg,
		rng:      rng,
		log:      logger.With("enemy", id, "behavior", b),
		now:      time.Now,
	}
}

// Run loops until a GameOver message arrives, the enemy becomes inactive or
// ctx is cancelled. Cancellation is the force-kill path and returns ctx.Err().
func (a *Agent) Run(ctx context.Context) error {
	a.store.With(func(st *world.State) { a.start = st.StartTime })

	ticker := time.NewTicker(a.cfg.Tick)
	defer ticker.Stop()

	for {
		a.drain()
		if a.terminate {
			a.log.Debug("agent stopping on game over")
			return nil
		}

		a.counter++
		if a.counter >= a.moveEvery() {
			a.counter = 0
			if !a.step() {
				a.log.Debug("agent stopping, enemy inactive")
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *Agent) inGrace() bool {
	return a.now().Sub(a.start) < a.cfg.GracePeriod
}

func (a *Agent) moveEvery() int {
	n := a.cfg.MoveEvery[a.Behavior]
	if n <= 0 {
		n = 10
	}
	if a.inGrace() {
		n *= 2
	}
	return n
}

// drain consumes every pending inbound message.
func (a *Agent) drain() {
	for {
		m, ok := a.in.TryRecv()
		if !ok {
			return
		}
		switch m.Type {
		case ipc.MsgPositionUpdate:
			if a.inGrace() {
				continue
			}
			a.target = core.Pt(m.X, m.Y)
			a.hasTarget = true
		case ipc.MsgGameOver:
			a.terminate = true
		}
	}
}

// decide picks a step and updates the Smart memory.
func (a *Agent) decide(self core.Point) (int, int) {
	in := Input{
		Self:      self,
		Tick:      a.decisions,
		Target:    a.target,
		HasTarget: a.hasTarget,
		Prev:      a.prev,
		HasPrev:   a.hasPrev,
	}
	a.decisions++
	dx, dy := Decide(a.Behavior, in, a.rng)
	if a.hasTarget {
		a.prev, a.hasPrev = a.target, true
	}
	return dx, dy
}

// step moves the enemy once. It returns false when the enemy is inactive.
func (a *Agent) step() bool {
	var hits []ipc.Message
	var pos core.Point

	a.store.Acquire()
	st := a.store.State()
	e := st.Enemy(a.ID)
	if e == nil || !e.Active {
		a.store.Release()
		return false
	}
	if st.GameOver {
		a.store.Release()
		return true
	}

	dx, dy := a.decide(e.Pos())
	nx, ny := e.X+dx, e.Y+dy
	if rules.EnemyCanEnter(st, nx, ny) {
		e.X, e.Y = nx, ny
		for i := range st.Players {
			p := &st.Players[i]
			if p.Active && p.X == nx && p.Y == ny {
				st.PlayerHit = true
				hits = append(hits, ipc.Message{
					From: a.ID, To: i, X: nx, Y: ny,
					Type: ipc.MsgPlayerHit, Data: a.cfg.Damage,
				})
			}
		}
	}
	pos = e.Pos()
	a.store.Release()

	for _, m := range hits {
		a.send(m)
	}
	a.send(ipc.Message{From: a.ID, To: ipc.MainID, X: pos.X, Y: pos.Y, Type: ipc.MsgEnemyMove})
	return true
}

func (a *Agent) send(m ipc.Message) {
	if err := a.out.Send(m); err != nil {
		a.log.Warn("message to session dropped", "type", m.Type, "error", err)
	}
}
