package bot

import (
	"faceoff/internal/domain"
)

// Move represents the decision made by the AI for the player's side.
type Move struct {
	Pass             bool
	CardID           string
	TargetOpponentID string
	Selected         []string
}

// Brain is the interface that all autopilot strategies must implement.
type Brain interface {
	CalculateMove(s domain.MatchState) (Move, error)
}
