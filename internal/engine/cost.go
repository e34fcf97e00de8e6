package engine

import "faceoff/internal/domain"

// CostBreakdown is the cost of a card with every addend kept separate so a
// client can explain it.
type CostBreakdown struct {
	Harmony domain.Harmony

	BasePatience int
	// JudgeTax is the judge's per-element modifier.
	JudgeTax int
	// ElementModifier sums the player's patience_cost modifiers scoped to the card's element.
	ElementModifier int
	// StatusModifier sums the player's unscoped patience_cost modifiers.
	StatusModifier  int
	HarmonyPatience int
	Patience        int

	BaseFace    int
	HarmonyFace int
	Face        int
}

// CalculateCost returns what playing card would cost in s. It reads nothing but
// s and card.
func CalculateCost(s domain.MatchState, card domain.Card) CostBreakdown {
	h := domain.ClassifyHarmony(s.LastElement, card.Element)
	el := card.Element

	b := CostBreakdown{
		Harmony:      h,
		BasePatience: card.PatienceCost,
		JudgeTax:     s.Judge.Effects.ElementCostModifier[el],
		ElementModifier: domain.AdditiveInt(s.Statuses, domain.StatQuery{
			Owner: domain.OwnerPlayer, Stat: domain.StatPatienceCost, Element: &el,
		}),
		StatusModifier: domain.AdditiveInt(s.Statuses, domain.StatQuery{
			Owner: domain.OwnerPlayer, Stat: domain.StatPatienceCost,
		}),
		BaseFace:    card.FaceCost,
		HarmonyFace: h.FaceAdjustment(),
	}

	b.HarmonyPatience = h.PatienceAdjustment()
	b.Patience = max(b.BasePatience+b.JudgeTax+b.ElementModifier+b.StatusModifier+b.HarmonyPatience, 0)
	b.Face = b.BaseFace + b.HarmonyFace
	return b
}
