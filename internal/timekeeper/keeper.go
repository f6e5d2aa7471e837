// Package timekeeper runs the background clock: it refreshes the game time,
// keeps the exit flag in sync, drops bonus treasure and ends abandoned rounds.
package timekeeper

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// Config tunes the timekeeper.
type Config struct {
	Interval        time.Duration
	TreasurePercent int
}

// DefaultConfig ticks every 500ms with a 3% treasure chance.
func DefaultConfig() Config {
	return Config{Interval: 500 * time.Millisecond, TreasurePercent: 3}
}

// Keeper is the background task.
type Keeper struct {
	store *world.Store
	cfg   Config
	rng   *rand.Rand
	log   *log.Logger
	now   func() time.Time

	stop    chan struct{}
	done    chan struct{}
	started atomic.Bool
	once    sync.Once
}

// New creates a keeper. Call Start to begin ticking.
func New(store *world.Store, cfg Config, rng *rand.Rand, logger *log.Logger) *Keeper {
	if logger == nil {
		logger = log.Default()
	}
	return &Keeper{
		store: store,
		cfg:   cfg,
		rng:   rng,
		log:   logger,
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the ticking goroutine.
func (k *Keeper) Start() {
	if k.started.CompareAndSwap(false, true) {
		go k.loop()
	}
}

func (k *Keeper) loop() {
	defer close(k.done)
	ticker := time.NewTicker(k.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
			k.Tick()
		}
	}
}

// Tick runs one update under the store lock.
func (k *Keeper) Tick() {
	k.store.Acquire()
	defer k.store.Release()

	st := k.store.State()
	if st.GameOver {
		return
	}
	st.CurrentTime = k.now()
	st.SyncExit()

	if k.rng.Intn(100) < k.cfg.TreasurePercent {
		x := k.rng.Intn(st.Map.Width-2) + 1
		y := k.rng.Intn(st.Map.Height-2) + 1
		if st.Map.At(x, y) == world.TileEmpty {
			st.Map.Set(x, y, world.TileTreasure)
			k.log.Debug("treasure spawned", "x", x, "y", y)
		}
	}

	if st.ActivePlayers() == 0 {
		winner, best := world.WinnerNone, -1
		for i := range st.Players {
			if st.Players[i].Score > best {
				best = st.Players[i].Score
				winner = i
			}
		}
		st.EndRound(winner)
		k.log.Info("all players inactive, round over", "winner", winner)
	}
}

// Stop signals the loop and waits for it to exit. Safe to call more than
// once, and before Start.
func (k *Keeper) Stop() {
	k.once.Do(func() { close(k.stop) })
	if k.started.Load() {
		<-k.done
	}
}
