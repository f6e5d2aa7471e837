package world

import "time"

// Snapshot is an immutable copy of the state for renderers and spectators.
type Snapshot struct {
	Level         int           `json:"level"`
	Map           Map           `json:"map"`
	Players       []Player      `json:"players"`
	Enemies       []Enemy       `json:"enemies"`
	GameOver      bool          `json:"game_over"`
	WinnerID      int           `json:"winner_id"`
	ExitEnabled   bool          `json:"exit_enabled"`
	KeysRequired  int           `json:"keys_required"`
	KeysCollected int           `json:"keys_collected"`
	Elapsed       time.Duration `json:"elapsed"`
	Notices       []Notice      `json:"notices"`
}

// NewSnapshot wraps a cloned state. The caller must not share st afterwards.
func NewSnapshot(st *State) Snapshot {
	return Snapshot{
		Level:         st.Level,
		Map:           st.Map,
		Players:       st.Players,
		Enemies:       st.Enemies,
		GameOver:      st.GameOver,
		WinnerID:      st.WinnerID,
		ExitEnabled:   st.ExitEnabled,
		KeysRequired:  st.KeysRequired,
		KeysCollected: st.KeysCollected,
		Elapsed:       st.Elapsed(),
		Notices:       st.Notices.Items(),
	}
}

// Player returns the snapshot's player by index, or nil.
func (s *Snapshot) Player(id int) *Player {
	if id < 0 || id >= len(s.Players) {
		return nil
	}
	return &s.Players[id]
}

// Outcome describes how the round ended from the point of view of player id.
type Outcome string

const (
	OutcomePlaying Outcome = "playing"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeExited  Outcome = "exited"
)

// Outcome classifies the round for the given player.
func (s *Snapshot) Outcome(id int) Outcome {
	switch {
	case !s.GameOver:
		return OutcomePlaying
	case s.WinnerID == WinnerExited:
		return OutcomeExited
	case s.WinnerID == id:
		return OutcomeVictory
	default:
		return OutcomeDefeat
	}
}
