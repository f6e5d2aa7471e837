package rules

import (
	"time"

	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// HitOutcome reports how a pending hit was resolved.
type HitOutcome int

const (
	HitNone     HitOutcome = iota // no hit was pending
	HitIgnored                    // grace period or invulnerability window
	HitApplied                    // damage taken
	HitFatal                      // damage taken and the player died
)

// ResolveHit consumes the player_hit flag for the human player (index 0).
// The caller must hold the store lock.
func (e *Engine) ResolveHit(st *world.State, now time.Time) HitOutcome {
	return ResolveHit(st, now, e.Params)
}

// ResolveHit applies p.Damage if a hit is pending and the player is not
// protected by the grace period or the post-hit invulnerability window.
func ResolveHit(st *world.State, now time.Time, p Params) HitOutcome {
	if !st.PlayerHit {
		return HitNone
	}
	st.PlayerHit = false

	if st.GameOver || st.InGrace(now, p.GracePeriod) {
		return HitIgnored
	}
	if !st.LastHitAt.IsZero() && now.Sub(st.LastHitAt) < p.Invulnerability {
		return HitIgnored
	}

	pl := st.Player(0)
	if pl == nil || !pl.Active {
		return HitIgnored
	}
	pl.Health -= p.Damage
	st.LastHitAt = now
	if pl.Health <= 0 {
		pl.Health = 0
		pl.Active = false
		st.EndRound(world.WinnerNone)
		st.Notices.Push("You were defeated", now)
		return HitFatal
	}
	return HitApplied
}
