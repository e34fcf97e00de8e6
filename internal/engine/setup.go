package engine

import (
	"slices"

	"faceoff/internal/domain"
)

// CoreArgumentTag marks statuses created from a core argument.
const CoreArgumentTag = "core_argument"

// CoreArgumentStatuses converts arg into permanent statuses, one per passive
// rule, so passive traits go through the same aggregation as everything else.
// The cost modifier always lands on the player because it taxes the player's cards.
// The returned statuses have no id yet.
func CoreArgumentStatuses(arg domain.CoreArgument, owner domain.Owner) []domain.Status {
	base := domain.Status{
		Name:           arg.Name,
		Owner:          owner,
		SourceID:       "core:" + arg.ID,
		TurnsRemaining: domain.PermanentDuration,
		Tags:           []string{CoreArgumentTag},
		IsPositive:     true,
	}
	var out []domain.Status
	p := arg.Passive

	if p.PlayerCostModifier != 0 {
		st := base
		st.Owner = domain.OwnerPlayer
		st.IsPositive = p.PlayerCostModifier < 0
		st.Modifiers = []domain.Modifier{{
			Stat: domain.StatPatienceCost, Op: domain.OpAdd,
			Value: float64(p.PlayerCostModifier), Element: arg.Element,
		}}
		out = append(out, st)
	}
	if p.StandingGainBonus != 0 {
		st := base
		st.Modifiers = []domain.Modifier{{Stat: domain.StatStandingGain, Op: domain.OpAdd, Value: float64(p.StandingGainBonus)}}
		out = append(out, st)
	}
	if p.StandingGainMultiplier != 0 {
		st := base
		st.Modifiers = []domain.Modifier{{Stat: domain.StatStandingGain, Op: domain.OpMultiply, Value: p.StandingGainMultiplier}}
		out = append(out, st)
	}
	if p.PoisePerTurn != 0 {
		st := base
		st.Trigger = domain.TriggerTurnStart
		st.TriggeredEffects = []domain.EffectDef{{Type: domain.EffectGainPoise, Amount: p.PoisePerTurn, Target: domain.TargetSelf}}
		out = append(out, st)
	}
	if p.FacePerTurn != 0 {
		st := base
		st.Trigger = domain.TriggerTurnStart
		st.TriggeredEffects = []domain.EffectDef{{Type: domain.EffectHealFace, Amount: p.FacePerTurn, Target: domain.TargetSelf}}
		out = append(out, st)
	}
	if arg.Trigger != "" && arg.Trigger != domain.TriggerPassive && len(arg.Effects) > 0 {
		st := base
		st.Trigger = arg.Trigger
		st.Element = arg.Element
		st.TriggeredEffects = slices.Clone(arg.Effects)
		out = append(out, st)
	}
	return out
}

// ApplyCoreArgument attaches arg's statuses for owner.
func (e *Engine) ApplyCoreArgument(state domain.MatchState, owner domain.Owner, arg domain.CoreArgument) domain.MatchState {
	r := e.begin(state, nil)
	for _, st := range CoreArgumentStatuses(arg, owner) {
		r.insertStatus(st, st.SourceID)
	}
	return r.s
}

// SeatOpponent adds an opponent built from tmpl. Its queue starts as the
// template's intentions in order; the pool keeps them all for later picks.
func (e *Engine) SeatOpponent(state domain.MatchState, tmpl domain.OpponentTemplate) domain.MatchState {
	r := e.begin(state, nil)
	o := domain.Opponent{
		Combatant:      domain.Combatant{Face: tmpl.MaxFace, MaxFace: tmpl.MaxFace},
		ID:             r.s.AllocID("opponent"),
		Name:           tmpl.Name,
		TemplateID:     tmpl.ID,
		IntentionQueue: slices.Clone(tmpl.Intentions),
		IntentionPool:  slices.Clone(tmpl.Intentions),
	}
	if tmpl.CoreArgument != nil {
		arg := *tmpl.CoreArgument
		o.CoreArgument = &arg
	}
	r.s.Opponents = append(r.s.Opponents, o)

	i := len(r.s.Opponents) - 1
	r.s.Opponents[i].CurrentIntention = r.takeIntention(i)
	if next := r.takeIntention(i); !next.IsZero() {
		r.s.Opponents[i].NextIntention = &next
	}

	if o.CoreArgument != nil {
		for _, st := range CoreArgumentStatuses(*o.CoreArgument, o.Owner()) {
			r.insertStatus(st, st.SourceID)
		}
	}
	return r.s
}

// SeatJudge installs the judge and schedules its first decree. A pending
// action with its own threshold overrides the template's.
func (e *Engine) SeatJudge(state domain.MatchState, tmpl domain.JudgeTemplate) domain.MatchState {
	r := e.begin(state, nil)
	j := domain.Judge{
		TemplateID:        tmpl.ID,
		Name:              tmpl.Name,
		PatienceThreshold: tmpl.PatienceThreshold,
		Actions:           slices.Clone(tmpl.Actions),
		Tiers:             slices.Clone(tmpl.Tiers),
		Effects:           domain.NewJudgeEffects(tmpl.EndTurnPatienceCost),
	}
	j.PendingAction = e.drawJudgeAction(j.Actions)
	if j.PendingAction != nil && j.PendingAction.PatienceThreshold > 0 {
		j.PatienceThreshold = j.PendingAction.PatienceThreshold
	}
	r.s.Judge = j
	return r.s
}
