package rules

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dungeon-conquerors/internal/level"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

var quiet = log.New(io.Discard)

// openStore returns a store with an empty walled arena, the player at (2,2)
// and every enemy parked in the far corner.
func openStore(t *testing.T) *world.Store {
	t.Helper()
	s, err := world.New(world.DefaultWorldConfig(), quiet)
	if err != nil {
		t.Fatalf("world.New() error: %v", err)
	}
	t.Cleanup(s.Destroy)

	s.With(func(st *world.State) {
		m := &st.Map
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				if m.Interior(x, y) {
					m.Set(x, y, world.TileEmpty)
				} else {
					m.Set(x, y, world.TileWall)
				}
			}
		}
		for i := range st.Enemies {
			st.Enemies[i].X, st.Enemies[i].Y = 70, 70
		}
		st.KeysRequired = 5
	})
	return s
}

func newEngine() *Engine {
	return NewEngine(DefaultParams(), level.NewGenerator(quiet), quiet)
}

func rng() *rand.Rand { return rand.New(rand.NewSource(1)) }

func TestIsValidMove(t *testing.T) {
	s := openStore(t)
	st := s.State()
	st.Map.Set(3, 2, world.TileWall)
	st.Enemies[0].X, st.Enemies[0].Y = 2, 3
	st.Players[0].X, st.Players[0].Y = 2, 2

	tests := []struct {
		name     string
		dx, dy   int
		expected bool
	}{
		{"into wall", 1, 0, false},
		{"onto enemy", 0, 1, false},
		{"open floor", -1, 0, true},
		{"border wall", 0, -2, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidMove(st, 0, tc.dx, tc.dy); got != tc.expected {
				t.Errorf("IsValidMove(%d, %d) = %v, expected %v", tc.dx, tc.dy, got, tc.expected)
			}
		})
	}

	st.Enemies[0].Active = false
	if !IsValidMove(st, 0, 0, 1) {
		t.Error("inactive enemies should not block")
	}
	if IsValidMove(st, 5, 1, 0) {
		t.Error("unknown player id should be rejected")
	}
}

func TestEnemyCanEnter(t *testing.T) {
	s := openStore(t)
	st := s.State()
	st.Map.Set(10, 10, world.TileWall)

	if EnemyCanEnter(st, 10, 10) {
		t.Error("enemies cannot enter walls")
	}
	if EnemyCanEnter(st, 0, 5) {
		t.Error("enemies cannot enter the border")
	}
	if !EnemyCanEnter(st, st.Players[0].X, st.Players[0].Y) {
		t.Error("players should not block enemies")
	}
}

func TestRejectedMoveMutatesNothing(t *testing.T) {
	s := openStore(t)
	s.With(func(st *world.State) {
		st.Map.Set(3, 2, world.TileWall)
	})
	before := s.Snapshot()

	e := newEngine()
	if got := e.ApplyMove(s, 0, 1, 0, rng()); got != OutcomeRejected {
		t.Errorf("move into wall = %v, expected rejected", got)
	}
	if got := e.ApplyMove(s, 0, 0, -5, rng()); got != OutcomeRejected {
		t.Errorf("move out of bounds = %v, expected rejected", got)
	}

	after := s.Snapshot()
	if after.Players[0] != before.Players[0] {
		t.Errorf("player changed: %+v -> %+v", before.Players[0], after.Players[0])
	}
	if after.Map.String() != before.Map.String() {
		t.Error("map changed after rejected moves")
	}
	if len(after.Notices) != len(before.Notices) {
		t.Error("rejected move should not add notices")
	}
}

func TestTreasurePickup(t *testing.T) {
	s := openStore(t)
	s.With(func(st *world.State) { st.Map.Set(3, 2, world.TileTreasure) })

	if got := newEngine().ApplyMove(s, 0, 1, 0, rng()); got != OutcomeTreasure {
		t.Fatalf("ApplyMove() = %v, expected treasure", got)
	}
	s.With(func(st *world.State) {
		if st.Players[0].Score != 10 {
			t.Errorf("Score = %d, expected 10", st.Players[0].Score)
		}
		if st.Map.At(3, 2) != world.TileEmpty {
			t.Error("treasure should be consumed")
		}
		if st.Players[0].X != 3 {
			t.Error("player should move onto the treasure")
		}
	})
}

func TestLockedExit(t *testing.T) {
	s := openStore(t)
	s.With(func(st *world.State) { st.Map.Set(3, 2, world.TileExit) })

	if got := newEngine().ApplyMove(s, 0, 1, 0, rng()); got != OutcomeExitLocked {
		t.Fatalf("ApplyMove() = %v, expected exit-locked", got)
	}
	snap := s.Snapshot()
	if snap.Players[0].X != 2 || snap.Players[0].Y != 2 {
		t.Error("player should not move onto a locked exit")
	}
	if snap.GameOver {
		t.Error("locked exit must not end the round")
	}
	if len(snap.Notices) == 0 {
		t.Error("locked exit should leave a notice")
	}
}

func TestLastKeyEnablesExit(t *testing.T) {
	s := openStore(t)
	s.With(func(st *world.State) {
		st.KeysCollected = 4
		st.Players[0].Keys = 4
		st.Map.Set(3, 2, world.TileKey)
		st.Map.Set(5, 2, world.TileKey)
	})

	e := newEngine()
	if got := e.ApplyMove(s, 0, 1, 0, rng()); got != OutcomeKeyCollected {
		t.Fatalf("ApplyMove() = %v, expected key", got)
	}
	s.With(func(st *world.State) {
		if !st.ExitEnabled {
			t.Error("exit should be enabled after the last key")
		}
		if st.KeysCollected != st.KeysRequired {
			t.Errorf("collected = %d, expected %d", st.KeysCollected, st.KeysRequired)
		}
	})

	// Extra keys keep the exit enabled.
	e.ApplyMove(s, 0, 1, 0, rng())
	e.ApplyMove(s, 0, 1, 0, rng())
	s.With(func(st *world.State) {
		if !st.ExitEnabled || st.KeysCollected != 6 {
			t.Errorf("exit enabled = %v, collected = %d", st.ExitEnabled, st.KeysCollected)
		}
	})
}

func TestDoorBonuses(t *testing.T) {
	seen := map[Outcome]bool{}
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 60; i++ {
		s := openStore(t)
		s.With(func(st *world.State) {
			st.Players[0].Health = 95
			st.Map.Set(3, 2, world.TileDoor)
		})
		out := newEngine().ApplyMove(s, 0, 1, 0, r)
		seen[out] = true

		snap := s.Snapshot()
		p := snap.Players[0]
		switch out {
		case OutcomeDoorHealth:
			if p.Health != world.MaxHealth {
				t.Errorf("health bonus should cap at %d, got %d", world.MaxHealth, p.Health)
			}
		case OutcomeDoorScore:
			if p.Score != 20 {
				t.Errorf("score bonus = %d, expected 20", p.Score)
			}
		case OutcomeDoorKey:
			if p.Keys != 1 || snap.KeysCollected != 1 {
				t.Errorf("key bonus gave keys=%d collected=%d", p.Keys, snap.KeysCollected)
			}
		default:
			t.Fatalf("unexpected door outcome %v", out)
		}
		if snap.Map.At(3, 2) != world.TileEmpty {
			t.Error("door should be consumed")
		}
	}

	for _, o := range []Outcome{OutcomeDoorHealth, OutcomeDoorScore, OutcomeDoorKey} {
		if !seen[o] {
			t.Errorf("door bonus %v never rolled", o)
		}
	}
}

func TestExitAdvancesLevel(t *testing.T) {
	s := openStore(t)
	s.With(func(st *world.State) {
		st.ExitEnabled = true
		st.KeysCollected = 5
		st.Players[0].Score = 50
		st.Players[0].Health = 30
		st.Players[0].Keys = 5
		st.Players[0].X, st.Players[0].Y = 10, 10
		st.Map.Set(11, 10, world.TileExit)
	})

	if got := newEngine().ApplyMove(s, 0, 1, 0, rng()); got != OutcomeLevelUp {
		t.Fatalf("ApplyMove() = %v, expected level-up", got)
	}
	snap := s.Snapshot()
	p := snap.Players[0]
	if snap.Level != 2 || snap.KeysRequired != 7 || snap.KeysCollected != 0 || snap.ExitEnabled {
		t.Errorf("level state not reset: level=%d req=%d got=%d exit=%v",
			snap.Level, snap.KeysRequired, snap.KeysCollected, snap.ExitEnabled)
	}
	if p.Pos() != world.Spawn || p.Health != world.MaxHealth || p.Keys != 0 {
		t.Errorf("player not respawned: %+v", p)
	}
	if p.Score != 50 {
		t.Errorf("score should carry over, got %d", p.Score)
	}
	if snap.GameOver {
		t.Error("advancing should not end the round")
	}
}

func TestExitOnFinalLevelWins(t *testing.T) {
	s := openStore(t)
	s.With(func(st *world.State) {
		st.Level = world.MaxLevel
		st.ExitEnabled = true
		st.Map.Set(3, 2, world.TileExit)
	})

	if got := newEngine().ApplyMove(s, 0, 1, 0, rng()); got != OutcomeVictory {
		t.Fatalf("ApplyMove() = %v, expected victory", got)
	}
	snap := s.Snapshot()
	if !snap.GameOver || snap.WinnerID != 0 {
		t.Errorf("GameOver=%v WinnerID=%d, expected true/0", snap.GameOver, snap.WinnerID)
	}
	if snap.Outcome(0) != world.OutcomeVictory {
		t.Errorf("Outcome = %v", snap.Outcome(0))
	}

	if got := newEngine().ApplyMove(s, 0, -1, 0, rng()); got != OutcomeRejected {
		t.Error("moves after game over should be rejected")
	}
}

func TestQuit(t *testing.T) {
	s := openStore(t)
	s.With(func(st *world.State) { Quit(st, 0) })

	snap := s.Snapshot()
	if snap.Players[0].Active || !snap.GameOver || snap.WinnerID != world.WinnerExited {
		t.Errorf("Quit left active=%v over=%v winner=%d", snap.Players[0].Active, snap.GameOver, snap.WinnerID)
	}
}
