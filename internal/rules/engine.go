package rules

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// Outcome reports what a move did.
type Outcome int

const (
	OutcomeRejected Outcome = iota // blocked, nothing changed
	OutcomeMoved
	OutcomeTreasure
	OutcomeKeyCollected
	OutcomeDoorHealth
	OutcomeDoorScore
	OutcomeDoorKey
	OutcomeExitLocked
	OutcomeLevelUp
	OutcomeVictory
)

var outcomeNames = [...]string{
	"rejected", "moved", "treasure", "key", "door-health", "door-score",
	"door-key", "exit-locked", "level-up", "victory",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", o)
}

// Generator rebuilds the map for a new level. *level.Generator satisfies it.
type Generator interface {
	Generate(st *world.State, lvl int, rng *rand.Rand) error
}

// Engine applies moves and hits.
type Engine struct {
	Params Params
	Levels Generator
	Logger *log.Logger
	Now    func() time.Time
}

// NewEngine creates an engine.
func NewEngine(p Params, levels Generator, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Params: p, Levels: levels, Logger: logger, Now: time.Now}
}

// IsValidMove reports whether player id may step by (dx, dy): the target must
// be on the map, not a Wall and not occupied by an active enemy.
func IsValidMove(st *world.State, id, dx, dy int) bool {
	p := st.Player(id)
	if p == nil {
		return false
	}
	x, y := p.X+dx, p.Y+dy
	if !st.Map.InBounds(x, y) || st.Map.At(x, y) == world.TileWall {
		return false
	}
	return !st.EnemyAt(x, y)
}

// EnemyCanEnter reports whether an enemy may stand on (x, y). Players never
// block enemies.
func EnemyCanEnter(st *world.State, x, y int) bool {
	return st.Map.Interior(x, y) && st.Map.At(x, y) != world.TileWall
}

// ApplyMove moves player id by (dx, dy) and resolves the tile it lands on.
// The store lock is held for the whole call.
func (e *Engine) ApplyMove(store *world.Store, id, dx, dy int, rng *rand.Rand) Outcome {
	store.Acquire()
	defer store.Release()
	return e.applyLocked(store.State(), id, dx, dy, rng)
}

func (e *Engine) applyLocked(st *world.State, id, dx, dy int, rng *rand.Rand) Outcome {
	if st.GameOver {
		return OutcomeRejected
	}
	p := st.Player(id)
	if p == nil || !p.Active || !IsValidMove(st, id, dx, dy) {
		return OutcomeRejected
	}

	x, y := p.X+dx, p.Y+dy
	now := e.Now()
	out := OutcomeMoved

	switch st.Map.At(x, y) {
	case world.TileTreasure:
		p.Score += e.Params.TreasureScore
		st.Map.Set(x, y, world.TileEmpty)
		out = OutcomeTreasure

	case world.TileKey:
		st.Map.Set(x, y, world.TileEmpty)
		e.collectKey(st, p, now)
		out = OutcomeKeyCollected

	case world.TileDoor:
		st.Map.Set(x, y, world.TileEmpty)
		out = e.doorBonus(st, p, rng, now)

	case world.TileExit:
		if !st.ExitEnabled {
			st.Notices.Push(fmt.Sprintf("Exit is locked: %d/%d keys", st.KeysCollected, st.KeysRequired), now)
			return OutcomeExitLocked
		}
		if st.Level < world.MaxLevel {
			return e.advance(st, p, rng, now)
		}
		st.LevelComplete = true
		st.EndRound(id)
		st.Notices.Push("You escaped the dungeon!", now)
		e.Logger.Info("exit reached", "player", id, "score", p.Score)
		out = OutcomeVictory
	}

	p.X, p.Y = x, y
	return out
}

func (e *Engine) collectKey(st *world.State, p *world.Player, now time.Time) {
	p.Keys++
	st.KeysCollected++
	wasEnabled := st.ExitEnabled
	st.SyncExit()
	if st.ExitEnabled && !wasEnabled {
		st.Notices.Push("All keys collected! Find the exit!", now)
		e.Logger.Info("exit enabled", "level", st.Level, "keys", st.KeysCollected)
		return
	}
	st.Notices.Push(fmt.Sprintf("Key collected (%d/%d)", st.KeysCollected, st.KeysRequired), now)
}

func (e *Engine) doorBonus(st *world.State, p *world.Player, rng *rand.Rand, now time.Time) Outcome {
	switch rng.Intn(3) {
	case 0:
		p.Health = min(p.Health+e.Params.DoorHealth, world.MaxHealth)
		st.Notices.Push("Door opened: health bonus", now)
		return OutcomeDoorHealth
	case 1:
		p.Score += e.Params.DoorScore
		st.Notices.Push("Door opened: score bonus", now)
		return OutcomeDoorScore
	default:
		e.collectKey(st, p, now)
		return OutcomeDoorKey
	}
}

// advance moves to the next level. The player respawns and does not take the
// step onto the exit.
func (e *Engine) advance(st *world.State, p *world.Player, rng *rand.Rand, now time.Time) Outcome {
	next := st.Level + 1
	if err := e.Levels.Generate(st, next, rng); err != nil {
		e.Logger.Error("level advance failed", "level", next, "error", err)
		return OutcomeRejected
	}
	for i := range st.Players {
		pl := &st.Players[i]
		pl.Health = world.MaxHealth
		pl.Keys = 0
		pl.X, pl.Y = world.Spawn.X, world.Spawn.Y
	}
	st.Notices.Push(fmt.Sprintf("Level %d! Collect %d keys", next, st.KeysRequired), now)
	e.Logger.Info("level advanced", "level", next, "score", p.Score)
	return OutcomeLevelUp
}

// Quit ends the round because player id chose to leave.
func Quit(st *world.State, id int) {
	if p := st.Player(id); p != nil {
		p.Active = false
	}
	st.EndRound(world.WinnerExited)
}
