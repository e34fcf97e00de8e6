package content

import (
	"errors"
	"fmt"

	"faceoff/internal/domain"
)

// Validate reports every authoring mistake the engine would otherwise swallow
// at runtime: unknown effect types, status ids, elements and malformed ladders.
func (c *Catalog) Validate() error {
	if c.cards == nil {
		c.index()
	}
	v := validator{c: c}

	seen := map[string]bool{}
	for _, card := range c.Cards {
		where := "card " + card.TemplateID
		if card.TemplateID == "" {
			v.fail("card %q: missing id", card.Name)
		}
		if seen[card.TemplateID] {
			v.fail("%s: duplicate id", where)
		}
		seen[card.TemplateID] = true
		v.element(where, card.Element)
		if card.PatienceCost < 0 || card.FaceCost < 0 {
			v.fail("%s: negative cost", where)
		}
		switch card.TargetRequirement {
		case domain.TargetNone, domain.TargetsOpponent:
		case domain.TargetsHand:
			if card.SelectCount <= 0 {
				v.fail("%s: hand_cards target needs select > 0", where)
			}
		default:
			v.fail("%s: unknown target requirement %q", where, card.TargetRequirement)
		}
		v.effects(where, card.Effects)
		if needsSelection(card.Effects) && card.TargetRequirement != domain.TargetsHand {
			v.fail("%s: effects read selected cards but the card selects none", where)
		}
	}

	for name, entries := range c.Decks {
		for _, e := range entries {
			if _, ok := c.cards[e.Card]; !ok {
				v.fail("deck %s: unknown card %q", name, e.Card)
			}
		}
	}

	for _, st := range c.Statuses {
		where := "status " + st.ID
		if !st.Trigger.Valid() {
			v.fail("%s: unknown trigger %q", where, st.Trigger)
		}
		if st.Element != nil {
			v.element(where, *st.Element)
		}
		if st.DefaultDuration < 0 {
			v.fail("%s: negative duration", where)
		}
		for _, m := range st.Modifiers {
			v.modifier(where, m)
		}
		v.effects(where, st.TriggeredEffects)
	}

	for _, o := range c.Opponents {
		where := "opponent " + o.ID
		if o.MaxFace <= 0 {
			v.fail("%s: max_face must be positive", where)
		}
		if len(o.Intentions) == 0 {
			v.fail("%s: no intentions", where)
		}
		for _, in := range o.Intentions {
			v.intention(where, in)
		}
		if o.CoreArgument != nil {
			v.coreArgument(where, *o.CoreArgument)
		}
	}

	for _, a := range c.CoreArguments {
		v.coreArgument("core argument "+a.ID, a)
	}

	for _, j := range c.Judges {
		v.judge(j)
	}

	for _, in := range c.Flustered {
		v.intention("flustered pool", in)
	}

	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidContent, errors.Join(v.errs...))
}

type validator struct {
	c    *Catalog
	errs []error
}

func (v *validator) fail(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) element(where string, e domain.Element) {
	if !e.Valid() {
		v.fail("%s: unknown element %q", where, e)
	}
}

func (v *validator) modifier(where string, m domain.Modifier) {
	if !m.Stat.Valid() {
		v.fail("%s: unknown stat %q", where, m.Stat)
	}
	switch m.Op {
	case domain.OpAdd, domain.OpMultiply, domain.OpSet:
	default:
		v.fail("%s: unknown modifier op %q", where, m.Op)
	}
	if m.Element != nil {
		v.element(where, *m.Element)
	}
}

func (v *validator) intention(where string, in domain.Intention) {
	if !in.Type.Valid() {
		v.fail("%s: intention %q has unknown type %q", where, in.Name, in.Type)
	}
	if in.PatienceThreshold < 0 {
		v.fail("%s: intention %q has negative threshold", where, in.Name)
	}
}

func (v *validator) coreArgument(where string, a domain.CoreArgument) {
	if a.Element != nil {
		v.element(where, *a.Element)
	}
	if !a.Trigger.Valid() {
		v.fail("%s: unknown trigger %q", where, a.Trigger)
	}
	if len(a.Effects) > 0 && (a.Trigger == "" || a.Trigger == domain.TriggerPassive) {
		v.fail("%s: effects need a non-passive trigger", where)
	}
	v.effects(where, a.Effects)
}

func (v *validator) judge(j domain.JudgeTemplate) {
	where := "judge " + j.ID
	if len(j.Tiers) == 0 {
		v.fail("%s: no tiers", where)
	}
	top := j.Tiers.MaxTier()
	for i, t := range j.Tiers {
		if t.TierNumber != i {
			v.fail("%s: tiers must be numbered 0..n in order, got %d at %d", where, t.TierNumber, i)
		}
		if t.TierNumber < top && t.FavorRequired <= 0 {
			v.fail("%s: tier %d needs favor_required > 0", where, t.TierNumber)
		}
	}
	if j.PatienceThreshold <= 0 {
		v.fail("%s: patience_threshold must be positive", where)
	}
	if j.EndTurnPatienceCost < 0 {
		v.fail("%s: negative end_turn_patience_cost", where)
	}
	for _, a := range j.Actions {
		for _, r := range a.Rules {
			switch r.Op {
			case domain.RuleRaiseEndTurnCost:
			case domain.RuleTaxElement:
				v.element(where+" action "+a.ID, r.Element)
			case domain.RuleScaleFavorGain, domain.RuleScaleDamage:
				if r.Factor <= 0 {
					v.fail("%s action %s: %s needs a positive factor", where, a.ID, r.Op)
				}
			default:
				v.fail("%s action %s: unknown rule %q", where, a.ID, r.Op)
			}
		}
	}
}

func (v *validator) effects(where string, defs []domain.EffectDef) {
	for _, d := range defs {
		v.effect(where, d)
	}
}

func (v *validator) effect(where string, d domain.EffectDef) {
	if !d.Type.Valid() {
		v.fail("%s: unknown effect type %q", where, d.Type)
		return
	}
	switch d.Target {
	case "", domain.TargetSelf, domain.TargetOpponent, domain.TargetAllOpponents, domain.TargetPlayer:
	default:
		v.fail("%s: unknown target %q", where, d.Target)
	}

	switch d.Type {
	case domain.EffectAddStatus:
		if _, ok := v.c.statuses[d.StatusID]; !ok {
			v.fail("%s: add_status references unknown status %q", where, d.StatusID)
		}
	case domain.EffectRemoveStatus:
		if d.StatusID == "" && d.Tag == "" {
			v.fail("%s: remove_status needs status or tag", where)
		} else if _, ok := v.c.statuses[d.StatusID]; d.StatusID != "" && !ok {
			v.fail("%s: remove_status references unknown status %q", where, d.StatusID)
		}
	case domain.EffectComputed:
		if d.Compute == nil || d.Compute.Then == nil {
			v.fail("%s: computed effect needs compute.then", where)
			return
		}
		if !d.Compute.Source.Valid() {
			v.fail("%s: unknown compute source %q", where, d.Compute.Source)
		}
		if d.Compute.Then.Type == domain.EffectComputed {
			v.fail("%s: computed effects cannot nest", where)
			return
		}
		v.effect(where, *d.Compute.Then)
	}
}

// needsSelection reports whether any effect reads player-selected hand cards.
func needsSelection(defs []domain.EffectDef) bool {
	for _, d := range defs {
		switch d.Type {
		case domain.EffectBurnCard, domain.EffectDiscardCard:
			if !d.Random {
				return true
			}
		case domain.EffectComputed:
			if d.Compute == nil {
				continue
			}
			if d.Compute.Source == domain.SourceSelectedPatienceCost || d.Compute.Source == domain.SourceSelectedFaceCost {
				return true
			}
		}
	}
	return false
}
