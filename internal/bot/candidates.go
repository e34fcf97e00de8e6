package bot

import (
	"cmp"
	"slices"

	"faceoff/internal/domain"
	"faceoff/internal/engine"
)

// Candidate is a playable card together with the choices needed to play it.
type Candidate struct {
	Card  domain.Card
	Cost  engine.CostBreakdown
	Move  Move
	Score float64
	// Lethal is set when the card's shame alone defeats its target.
	Lethal bool
}

// PlayableMoves lists every card in hand the player can afford, with a target
// and hand selection filled in. Hand order is preserved.
func PlayableMoves(s domain.MatchState) []Candidate {
	var out []Candidate
	for _, card := range s.Player.Hand {
		if !engine.IsCardPlayable(s, card) {
			continue
		}
		move, ok := buildMove(s, card)
		if !ok {
			continue
		}
		out = append(out, Candidate{Card: card, Cost: engine.CalculateCost(s, card), Move: move})
	}
	return out
}

func buildMove(s domain.MatchState, card domain.Card) (Move, bool) {
	m := Move{CardID: card.ID}
	switch card.TargetRequirement {
	case domain.TargetsOpponent:
		target, ok := weakestOpponent(s)
		if !ok {
			return Move{}, false
		}
		m.TargetOpponentID = target.ID
	case domain.TargetsHand:
		var others []domain.Card
		for _, c := range s.Player.Hand {
			if c.ID != card.ID {
				others = append(others, c)
			}
		}
		if len(others) == 0 {
			return Move{}, false
		}
		// Most expensive first: it is the best fuel for computed effects.
		slices.SortStableFunc(others, func(a, b domain.Card) int {
			return cmp.Compare(b.PatienceCost, a.PatienceCost)
		})
		for _, c := range others[:min(card.SelectCount, len(others))] {
			m.Selected = append(m.Selected, c.ID)
		}
	}
	return m, true
}

// weakestOpponent returns the standing opponent closest to losing face.
func weakestOpponent(s domain.MatchState) (domain.Opponent, bool) {
	best := -1
	for i, o := range s.Opponents {
		if o.Face <= 0 {
			continue
		}
		if best < 0 || o.Face+o.Poise < s.Opponents[best].Face+s.Opponents[best].Poise {
			best = i
		}
	}
	if best < 0 {
		return domain.Opponent{}, false
	}
	return s.Opponents[best], true
}

func harmonyRank(h domain.Harmony) int {
	switch h {
	case domain.HarmonyBalanced:
		return 0
	case domain.HarmonyNeutral:
		return 1
	case domain.HarmonyChaos:
		return 2
	default:
		return 3
	}
}
