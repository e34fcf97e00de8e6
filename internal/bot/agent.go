package bot

import (
	"faceoff/internal/domain"
)

// Agent plays the player's side of a battle autonomously.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent to calculate its move based on the current state.
func (a *Agent) Play(s domain.MatchState) (Move, error) {
	if s.IsGameOver || len(s.Player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	move, err := a.Strategy.CalculateMove(s)
	if err != nil {
		return Move{Pass: true}, err
	}
	return move, nil
}
