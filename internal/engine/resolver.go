package engine

import (
	"math"

	"faceoff/internal/domain"
)

// EffectContext carries the choices and provenance of one effect list.
type EffectContext struct {
	// Actor is whoever the effects act for. Empty means the player.
	Actor domain.Owner
	// SelectedCards are hand card ids chosen for burn/discard and computed effects.
	SelectedCards    []string
	TargetOpponentID string
	SourceCardID     string
	SourceStatusID   string
}

func (c EffectContext) actor() domain.Owner {
	if c.Actor == "" {
		return domain.OwnerPlayer
	}
	return c.Actor
}

func (c EffectContext) source() string {
	if c.SourceCardID != "" {
		return c.SourceCardID
	}
	return c.SourceStatusID
}

func (r *resolution) resolveEffects(effects []domain.EffectDef, ctx EffectContext, multiplier int) {
	multiplier = max(multiplier, 1)
	for _, def := range effects {
		if r.over() {
			return
		}
		r.resolveEffect(def, ctx, multiplier)
	}
}

func (r *resolution) resolveEffect(def domain.EffectDef, ctx EffectContext, multiplier int) {
	amount := def.Amount
	if def.Type.Scales() {
		amount *= multiplier
	}
	count := def.Count * multiplier
	actor := string(ctx.actor())

	switch def.Type {
	case domain.EffectGainStanding:
		for _, t := range r.targets(def, ctx) {
			r.gainStanding(t, amount, actor)
		}

	case domain.EffectDealShame:
		for _, t := range r.targets(def, ctx) {
			r.dealShame(t, amount, actor)
		}

	case domain.EffectHealFace:
		for _, t := range r.targets(def, ctx) {
			if c := r.combatant(t); c != nil {
				*c = c.Heal(amount)
			}
		}

	case domain.EffectGainPoise:
		for _, t := range r.targets(def, ctx) {
			if c := r.combatant(t); c != nil {
				*c = c.GainPoise(amount)
			}
		}

	case domain.EffectDrainPatience:
		r.s.Patience -= amount
		r.record(domain.EventPatienceSpent, actor, "", amount, "drain")

	case domain.EffectDrawCards:
		r.drawCards(countOf(def) * multiplier)

	case domain.EffectAddStatus:
		for _, t := range r.targets(def, ctx) {
			for range multiplier {
				r.addStatus(def.StatusID, t, def.Duration, ctx.source())
			}
		}

	case domain.EffectRemoveStatus:
		for _, t := range r.targets(def, ctx) {
			r.removeStatuses(t, def.StatusID, def.Tag)
		}

	case domain.EffectRevealIntention:
		for _, t := range r.targets(def, ctx) {
			if i := r.s.OpponentIndex(string(t)); i >= 0 {
				r.s.Opponents[i].IntentionRevealed = true
				r.record(domain.EventIntentionRevealed, actor, string(t), 0, r.s.Opponents[i].CurrentIntention.Name)
			}
		}

	case domain.EffectBurnCard:
		kept, burned := domain.RemoveCards(r.s.Player.Hand, limit(ctx.SelectedCards, count))
		r.s.Player.Hand = kept
		r.s.Player.Removed = append(r.s.Player.Removed, burned...)
		if len(burned) > 0 {
			r.record(domain.EventCardsBurned, actor, string(domain.OwnerPlayer), len(burned), "")
		}

	case domain.EffectDiscardCard:
		kept, dropped := domain.RemoveCards(r.s.Player.Hand, limit(ctx.SelectedCards, count))
		r.s.Player.Hand = kept
		r.s.Player.Discard = append(r.s.Player.Discard, dropped...)
		if len(dropped) > 0 {
			r.record(domain.EventCardsDiscarded, actor, string(domain.OwnerPlayer), len(dropped), "")
		}

	case domain.EffectComputed:
		r.resolveComputed(def, ctx, multiplier)

	default:
		r.warn("unknown effect type", map[string]any{"type": string(def.Type), "source": ctx.source()})
	}
}

// resolveComputed evaluates the compute source and injects the result into the
// nested effect, which is then scaled like any other effect.
func (r *resolution) resolveComputed(def domain.EffectDef, ctx EffectContext, multiplier int) {
	c := def.Compute
	if c == nil || c.Then == nil {
		r.warn("computed effect without template", map[string]any{"source": ctx.source()})
		return
	}
	factor := c.Factor
	if factor == 0 {
		factor = 1
	}
	value := int(math.Floor(float64(r.computeSource(c.Source, ctx)) * factor))

	nested := *c.Then
	switch nested.Type {
	case domain.EffectDrawCards, domain.EffectBurnCard, domain.EffectDiscardCard:
		if value <= 0 {
			return
		}
		nested.Count = value
	default:
		nested.Amount = value
	}
	r.resolveEffect(nested, ctx, multiplier)
}

func (r *resolution) computeSource(src domain.ComputeSource, ctx EffectContext) int {
	switch src {
	case domain.SourceSelectedPatienceCost, domain.SourceSelectedFaceCost:
		total := 0
		for _, id := range ctx.SelectedCards {
			card, ok := r.s.FindPlayerCard(id)
			if !ok {
				continue
			}
			if src == domain.SourceSelectedPatienceCost {
				total += card.PatienceCost
			} else {
				total += card.FaceCost
			}
		}
		return total
	case domain.SourceHandSize:
		return len(r.s.Player.Hand)
	case domain.SourcePatienceRemaining:
		return max(r.s.Patience, 0)
	case domain.SourcePlayerPoise:
		return r.s.Player.Poise
	case domain.SourceHarmonyStreak:
		return r.s.HarmonyStreak
	}
	r.warn("unknown compute source", map[string]any{"compute_source": string(src)})
	return 0
}

// targets resolves def's target relative to the acting side.
func (r *resolution) targets(def domain.EffectDef, ctx EffectContext) []domain.Owner {
	target := def.Target
	if target == "" {
		switch def.Type {
		case domain.EffectDealShame, domain.EffectRevealIntention:
			target = domain.TargetOpponent
		default:
			target = domain.TargetSelf
		}
	}

	actor := ctx.actor()
	switch target {
	case domain.TargetSelf:
		return []domain.Owner{actor}
	case domain.TargetPlayer:
		return []domain.Owner{domain.OwnerPlayer}
	case domain.TargetAllOpponents:
		out := make([]domain.Owner, 0, len(r.s.Opponents))
		for _, o := range r.s.Opponents {
			out = append(out, o.Owner())
		}
		return out
	case domain.TargetOpponent:
		if actor != domain.OwnerPlayer {
			return []domain.Owner{domain.OwnerPlayer}
		}
		if i := r.s.OpponentIndex(ctx.TargetOpponentID); i >= 0 {
			return []domain.Owner{r.s.Opponents[i].Owner()}
		}
		if len(r.s.Opponents) > 0 {
			return []domain.Owner{r.s.Opponents[0].Owner()}
		}
		return nil
	}
	r.warn("unknown effect target", map[string]any{"target": string(target)})
	return nil
}

// combatant returns a pointer into the working copy for owner, or nil.
func (r *resolution) combatant(owner domain.Owner) *domain.Combatant {
	if owner == domain.OwnerPlayer {
		return &r.s.Player.Combatant
	}
	if i := r.s.OpponentIndex(string(owner)); i >= 0 {
		return &r.s.Opponents[i].Combatant
	}
	return nil
}

func (r *resolution) dealShame(target domain.Owner, amount int, actor string) {
	c := r.combatant(target)
	if c == nil || amount <= 0 {
		return
	}
	var lost int
	*c, lost = c.Absorb(amount)
	r.record(domain.EventShameDealt, actor, string(target), lost, "")
}

func (r *resolution) drawCards(count int) {
	if count <= 0 || r.draw == nil {
		return
	}
	before := len(r.s.Player.Hand)
	r.s = r.draw(r.s, count)
	if drawn := len(r.s.Player.Hand) - before; drawn > 0 {
		r.record(domain.EventCardsDrawn, string(domain.OwnerPlayer), "", drawn, "")
	}
}

// preselect fills ctx.SelectedCards for random burn/discard effects so the
// resolver itself never rolls dice for targets. The pick size follows the
// same multiplier the effects resolve under.
func (r *resolution) preselect(effects []domain.EffectDef, ctx EffectContext, multiplier int) EffectContext {
	if len(ctx.SelectedCards) > 0 {
		return ctx
	}
	for _, def := range effects {
		if !def.Random || (def.Type != domain.EffectBurnCard && def.Type != domain.EffectDiscardCard) {
			continue
		}
		hand := r.s.Player.Hand
		n := min(max(def.Count, 1)*max(multiplier, 1), len(hand))
		for _, i := range r.e.rng.Perm(len(hand))[:n] {
			ctx.SelectedCards = append(ctx.SelectedCards, hand[i].ID)
		}
		return ctx
	}
	return ctx
}

func countOf(def domain.EffectDef) int {
	if def.Count > 0 {
		return def.Count
	}
	return def.Amount
}

func limit(ids []string, n int) []string {
	if n > 0 && len(ids) > n {
		return ids[:n]
	}
	return ids
}
