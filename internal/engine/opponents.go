package engine

import (
	"math"
	"slices"

	"faceoff/internal/domain"
)

// opponentsAct runs every opponent in roster order, charging each with the
// end-turn patience just paid. The match ends as soon as the player's face is gone.
func (r *resolution) opponentsAct(charge int) {
	for i := range r.s.Opponents {
		if r.over() {
			return
		}
		r.opponentAct(i, charge)
		r.checkFlustered()
		r.checkPlayerDefeat()
	}
}

func (r *resolution) opponentAct(i, charge int) {
	o := &r.s.Opponents[i]
	intent := o.CurrentIntention
	if intent.IsZero() {
		r.advanceIntention(i)
		return
	}

	o.PatienceCharge += charge
	if intent.PatienceThreshold > 0 && o.PatienceCharge < intent.PatienceThreshold {
		r.record(domain.EventOpponentCharging, o.ID, "", o.PatienceCharge, intent.Name)
		return
	}
	o.PatienceCharge = 0

	amount := 0
	switch intent.Type {
	case domain.IntentionAttack:
		dmg := int(math.Floor(float64(intent.Value) * r.s.Judge.Effects.DamageModifier))
		r.s.Player.Combatant, amount = r.s.Player.Absorb(dmg)
	case domain.IntentionStandingGain:
		amount = intent.Value
		r.gainStanding(o.Owner(), intent.Value, o.ID)
	case domain.IntentionStall:
		amount = intent.Value
		r.s.Patience -= intent.Value
	case domain.IntentionFlustered:
	default:
		r.warn("unknown intention type", map[string]any{"opponent": o.ID, "intention": string(intent.Type)})
	}

	o = &r.s.Opponents[i]
	r.record(domain.EventOpponentActed, o.ID, string(domain.OwnerPlayer), amount, string(intent.Type)+":"+intent.Name)
	r.e.sink.LogAIAction(*o, intent, amount)
	r.advanceIntention(i)
}

// advanceIntention promotes the telegraphed next intention and previews a new one.
func (r *resolution) advanceIntention(i int) {
	o := &r.s.Opponents[i]
	if o.NextIntention != nil {
		o.CurrentIntention = *o.NextIntention
	} else {
		o.CurrentIntention = r.takeIntention(i)
	}
	o.NextIntention = nil
	if next := r.takeIntention(i); !next.IsZero() {
		o.NextIntention = &next
	}
	o.IntentionRevealed = false
}

// takeIntention pops the queue front, or asks the picker for a pool entry.
func (r *resolution) takeIntention(i int) domain.Intention {
	o := &r.s.Opponents[i]
	if len(o.IntentionQueue) > 0 {
		next := o.IntentionQueue[0]
		o.IntentionQueue = slices.Clone(o.IntentionQueue[1:])
		return next
	}
	if len(o.IntentionPool) == 0 {
		return domain.Intention{}
	}
	next := r.e.picker.PickIntention(*o, r.e.rng)
	o.IntentionsDrawn++
	return next
}

// checkFlustered recovers every opponent whose face ran out: face returns to
// half (at least 1), the previewed intention goes back on the queue and the
// current one is replaced with a harmless flustered action.
func (r *resolution) checkFlustered() {
	pool := r.e.rules.FlusteredPool
	for i := range r.s.Opponents {
		o := &r.s.Opponents[i]
		if o.Face > 0 || o.MaxFace <= 0 {
			continue
		}
		o.Face = max(o.MaxFace/2, 1)
		if o.NextIntention != nil {
			o.IntentionQueue = append([]domain.Intention{*o.NextIntention}, o.IntentionQueue...)
			o.NextIntention = nil
		}
		o.CurrentIntention = pool[r.e.rng.Intn(len(pool))]
		o.CurrentIntention.Type = domain.IntentionFlustered
		o.PatienceCharge = 0
		o.IntentionRevealed = false
		o.FlusteredCount++
		r.record(domain.EventOpponentFlustered, string(domain.OwnerPlayer), o.ID, o.Face, o.CurrentIntention.Name)
		r.e.sink.LogSystemEvent(domain.EventOpponentFlustered, o.ID)
	}
}
