package engine

import (
	"math/rand"

	"faceoff/internal/domain"
)

// DeckDrawer draws from the top of the deck, shuffling the discard pile back in
// with rng when the deck runs out. maxHand > 0 stops drawing at that hand size.
func DeckDrawer(rng *rand.Rand, maxHand int) DrawFunc {
	return func(s domain.MatchState, count int) domain.MatchState {
		for n := 0; n < count; n++ {
			if maxHand > 0 && len(s.Player.Hand) >= maxHand {
				break
			}
			if len(s.Player.Deck) == 0 {
				if len(s.Player.Discard) == 0 {
					break
				}
				s.Player.Deck = domain.ShuffleCards(s.Player.Discard, rng)
				s.Player.Discard = nil
			}
			s.Player.Hand = append(s.Player.Hand, s.Player.Deck[0])
			s.Player.Deck = s.Player.Deck[1:]
		}
		return s
	}
}
