package world

import (
	"time"

	"github.com/vovakirdan/dungeon-conquerors/internal/core"
)

const (
	MaxPlayers = 4
	MaxEnemies = 8
	MaxLevel   = 2

	// MaxHealth is the health cap for players and the starting health for enemies.
	MaxHealth = 100

	// MinMapSize is the smallest width/height the level generator can lay out.
	MinMapSize = 32
)

// Winner sentinels stored in State.WinnerID.
const (
	WinnerNone   = -1 // defeat: nobody won
	WinnerExited = -2 // the player left the dungeon voluntarily
)

// Spawn is the player's spawn cell.
var Spawn = core.Pt(2, 2)

// Player is a human-controlled entity.
type Player struct {
	ID     int  `json:"id"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Health int  `json:"health"`
	Score  int  `json:"score"`
	Active bool `json:"active"`
	Keys   int  `json:"keys"`
}

// Pos returns the player's cell.
func (p *Player) Pos() core.Point { return core.Pt(p.X, p.Y) }

// Enemy is an agent-driven entity.
type Enemy struct {
	ID       int      `json:"id"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Health   int      `json:"health"`
	Active   bool     `json:"active"`
	Behavior Behavior `json:"behavior"`
}

// Pos returns the enemy's cell.
func (e *Enemy) Pos() core.Point { return core.Pt(e.X, e.Y) }

// State is the whole mutable world. It must only be touched while the owning
// Store is acquired.
type State struct {
	Map     Map
	Players []Player
	Enemies []Enemy

	GameOver  bool
	WinnerID  int
	PlayerHit bool

	StartTime   time.Time
	CurrentTime time.Time
	LastHitAt   time.Time // zero until the first applied hit

	ExitEnabled   bool
	KeysRequired  int
	KeysCollected int

	Level         int
	LevelComplete bool

	Notices Notices
}

// Elapsed returns current_time - start_time.
func (s *State) Elapsed() time.Duration {
	return s.CurrentTime.Sub(s.StartTime)
}

// InGrace reports whether now is still inside the opening grace period.
func (s *State) InGrace(now time.Time, grace time.Duration) bool {
	return now.Sub(s.StartTime) < grace
}

// SyncExit re-derives ExitEnabled from the key counters.
func (s *State) SyncExit() {
	s.ExitEnabled = s.KeysCollected >= s.KeysRequired
}

// EnemyAt reports whether an active enemy stands on (x, y).
func (s *State) EnemyAt(x, y int) bool {
	for i := range s.Enemies {
		e := &s.Enemies[i]
		if e.Active && e.X == x && e.Y == y {
			return true
		}
	}
	return false
}

// ActivePlayers returns the number of players still in play.
func (s *State) ActivePlayers() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].Active {
			n++
		}
	}
	return n
}

// Player returns a pointer to the player with the given index, or nil.
func (s *State) Player(id int) *Player {
	if id < 0 || id >= len(s.Players) {
		return nil
	}
	return &s.Players[id]
}

// Enemy returns a pointer to the enemy with the given index, or nil.
func (s *State) Enemy(id int) *Enemy {
	if id < 0 || id >= len(s.Enemies) {
		return nil
	}
	return &s.Enemies[id]
}

// EndRound marks the game over with the given winner.
func (s *State) EndRound(winner int) {
	s.GameOver = true
	s.WinnerID = winner
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.Map = s.Map.Clone()
	c.Players = append([]Player(nil), s.Players...)
	c.Enemies = append([]Enemy(nil), s.Enemies...)
	c.Notices = s.Notices.clone()
	return &c
}
