package domain

import "strconv"

// AllocID returns a new id with the given prefix and advances NextID.
func (s *MatchState) AllocID(prefix string) string {
	s.NextID++
	return prefix + "-" + strconv.Itoa(s.NextID)
}

// OpponentIndex returns the roster index of the opponent with id, or -1.
func (s MatchState) OpponentIndex(id string) int {
	for i, o := range s.Opponents {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// StatusIndex returns the index of the status with id, or -1.
func (s MatchState) StatusIndex(id string) int {
	for i, st := range s.Statuses {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// MaxOpponentTier returns the highest current tier among opponents, or 0 with none.
func (s MatchState) MaxOpponentTier() int {
	top := 0
	for _, o := range s.Opponents {
		top = max(top, o.Standing.CurrentTier)
	}
	return top
}

// FindPlayerCard looks for a card id across every player pile.
func (s MatchState) FindPlayerCard(id string) (Card, bool) {
	for _, pile := range [][]Card{s.Player.Hand, s.Player.Discard, s.Player.Removed, s.Player.Deck} {
		if i := FindCard(pile, id); i >= 0 {
			return pile[i], true
		}
	}
	return Card{}, false
}
