package engine

import (
	"math"

	"faceoff/internal/domain"
)

// AddStanding walks owner up the judge's ladder by amount, ignoring modifiers.
func (e *Engine) AddStanding(state domain.MatchState, owner domain.Owner, amount int) domain.MatchState {
	r := e.begin(state, nil)
	r.shiftStanding(owner, amount, "")
	return r.s
}

// RemoveStanding walks owner down the judge's ladder by amount.
func (e *Engine) RemoveStanding(state domain.MatchState, owner domain.Owner, amount int) domain.MatchState {
	return e.AddStanding(state, owner, -amount)
}

// standingOf returns the standing record that owner's gains land on. With
// shared opponent standing every opponent writes to the first one.
func (r *resolution) standingOf(owner domain.Owner) *domain.Standing {
	if owner == domain.OwnerPlayer {
		return &r.s.Player.Standing
	}
	i := r.s.OpponentIndex(string(owner))
	if i < 0 {
		return nil
	}
	if r.e.rules.SharedOpponentStanding {
		i = 0
	}
	return &r.s.Opponents[i].Standing
}

func (r *resolution) shiftStanding(owner domain.Owner, amount int, actor string) {
	st := r.standingOf(owner)
	if st == nil || amount == 0 {
		return
	}
	before := st.CurrentTier
	*st = st.Add(r.s.Judge.Tiers, amount)
	detail := ""
	if st.CurrentTier != before {
		detail = "tier " + r.s.Judge.Tiers.Name(st.CurrentTier)
	}
	r.record(domain.EventStandingChanged, actor, string(owner), amount, detail)
}

// gainStanding applies standing_gain modifiers before moving on the ladder.
// The judge's favor modifier only shapes the player's gains. Losses are applied
// unmodified.
func (r *resolution) gainStanding(owner domain.Owner, raw int, actor string) {
	if raw <= 0 {
		r.shiftStanding(owner, raw, actor)
		return
	}
	r.shiftStanding(owner, r.modifiedGain(owner, raw), actor)
}

func (r *resolution) modifiedGain(owner domain.Owner, raw int) int {
	q := domain.StatQuery{Owner: owner, Stat: domain.StatStandingGain}
	if v, ok := domain.SetOverride(r.s.Statuses, q); ok {
		return max(int(v), 0)
	}
	scale := domain.MultiplierProduct(r.s.Statuses, q)
	if owner == domain.OwnerPlayer {
		scale *= r.s.Judge.Effects.FavorGainModifier
	}
	gain := int(math.Floor(float64(raw)*scale)) + domain.AdditiveInt(r.s.Statuses, q)
	return max(gain, 0)
}
