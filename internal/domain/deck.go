package domain

import "math/rand"

// TargetRequirement describes what must be chosen before a card can be played.
type TargetRequirement string

const (
	TargetNone      TargetRequirement = ""
	TargetsOpponent TargetRequirement = "opponent"
	TargetsHand     TargetRequirement = "hand_cards"
)

// Card is a card instance. ID is unique per battle; TemplateID names the content entry.
type Card struct {
	ID                string            `yaml:"-"`
	TemplateID        string            `yaml:"id"`
	Name              string            `yaml:"name"`
	Element           Element           `yaml:"element"`
	PatienceCost      int               `yaml:"patience_cost"`
	FaceCost          int               `yaml:"face_cost"`
	Effects           []EffectDef       `yaml:"effects"`
	TargetRequirement TargetRequirement `yaml:"target,omitempty"`
	// SelectCount is the number of hand cards a hand_cards card needs.
	SelectCount int `yaml:"select,omitempty"`
}

// FindCard returns the index of the card with id, or -1.
func FindCard(pile []Card, id string) int {
	for i, c := range pile {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// TakeCard removes the card with id and returns the new pile. The input pile is not modified.
func TakeCard(pile []Card, id string) ([]Card, Card, bool) {
	i := FindCard(pile, id)
	if i < 0 {
		return pile, Card{}, false
	}
	out := make([]Card, 0, len(pile)-1)
	out = append(out, pile[:i]...)
	out = append(out, pile[i+1:]...)
	return out, pile[i], true
}

// RemoveCards removes every card whose id is listed, returning the kept pile and
// the removed cards in pile order.
func RemoveCards(pile []Card, ids []string) (kept, removed []Card) {
	if len(ids) == 0 {
		return pile, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	kept = make([]Card, 0, len(pile))
	for _, c := range pile {
		if want[c.ID] {
			removed = append(removed, c)
			want[c.ID] = false
			continue
		}
		kept = append(kept, c)
	}
	return kept, removed
}

// ShuffleCards returns a shuffled copy of cards.
func ShuffleCards(cards []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
