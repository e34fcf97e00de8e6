package bot

import (
	"cmp"
	"slices"

	"faceoff/internal/domain"
)

// GoodBot plays the cheapest affordable card, keeping the elements flowing
// when costs tie.
type GoodBot struct{}

func (b *GoodBot) CalculateMove(s domain.MatchState) (Move, error) {
	moves := PlayableMoves(s)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	slices.SortStableFunc(moves, func(a, b Candidate) int {
		if c := cmp.Compare(a.Cost.Patience, b.Cost.Patience); c != 0 {
			return c
		}
		return cmp.Compare(harmonyRank(a.Cost.Harmony), harmonyRank(b.Cost.Harmony))
	})

	return moves[0].Move, nil
}
