package engine

import "faceoff/internal/domain"

// IsCardPlayable reports whether the player can afford card. Face may be paid
// through poise but never down to zero.
func IsCardPlayable(s domain.MatchState, card domain.Card) bool {
	if s.IsGameOver {
		return false
	}
	cost := CalculateCost(s, card)
	if s.Patience < cost.Patience {
		return false
	}
	if cost.Face > 0 && s.Player.Face+s.Player.Poise <= cost.Face {
		return false
	}
	return true
}

// PreviewCost is CalculateCost for the UI.
func PreviewCost(s domain.MatchState, card domain.Card) CostBreakdown {
	return CalculateCost(s, card)
}

// CombatResult evaluates the terminal conditions of s.
func CombatResult(s domain.MatchState) domain.CombatResult {
	return domain.EvaluateVictory(s)
}

// TierProgress describes owner's standing on the judge's ladder.
func (e *Engine) TierProgress(s domain.MatchState, owner domain.Owner) domain.TierProgress {
	r := resolution{e: e, s: s}
	st := r.standingOf(owner)
	if st == nil {
		return domain.Standing{}.Progress(s.Judge.Tiers)
	}
	return st.Progress(s.Judge.Tiers)
}

// InFlow reports whether the harmony streak has reached the threshold.
func (e *Engine) InFlow(s domain.MatchState) bool {
	return e.rules.HarmonyStreakThreshold > 0 && s.HarmonyStreak >= e.rules.HarmonyStreakThreshold
}
