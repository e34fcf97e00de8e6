package domain

// CombatResult is the terminal evaluation of a match.
type CombatResult struct {
	IsOver bool
	Winner Winner
	Reason EndReason
}

// EvaluateVictory checks the terminal conditions. Player face depletion takes
// priority; exhausted patience is decided by tier, and ties go to the opponents.
func EvaluateVictory(s MatchState) CombatResult {
	if s.IsGameOver {
		return CombatResult{IsOver: true, Winner: s.Winner, Reason: s.EndReason}
	}
	if s.Player.Face <= 0 {
		return CombatResult{IsOver: true, Winner: WinnerOpponent, Reason: EndFaceDepleted}
	}
	if s.Patience <= 0 {
		winner := WinnerOpponent
		if s.Player.Standing.CurrentTier > s.MaxOpponentTier() {
			winner = WinnerPlayer
		}
		return CombatResult{IsOver: true, Winner: winner, Reason: EndPatienceExhausted}
	}
	return CombatResult{}
}
