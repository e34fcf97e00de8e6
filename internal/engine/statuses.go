package engine

import (
	"faceoff/internal/domain"
)

// AddStatus instantiates templateID for owner. A zero duration uses the
// template default. Unknown templates leave the state unchanged.
func (e *Engine) AddStatus(state domain.MatchState, templateID string, owner domain.Owner, duration int) domain.MatchState {
	r := e.begin(state, nil)
	r.addStatus(templateID, owner, duration, "")
	return r.s
}

// ProcessStatusTrigger fires every status whose trigger matches, in the order
// the statuses were added.
func (e *Engine) ProcessStatusTrigger(state domain.MatchState, trigger domain.Trigger) domain.MatchState {
	if state.IsGameOver {
		return state
	}
	r := e.begin(state, nil)
	r.processTrigger(trigger, nil)
	r.checkFlustered()
	r.checkVictory()
	return r.s
}

// TickStatuses decrements finite durations and drops statuses that reach zero.
func (e *Engine) TickStatuses(state domain.MatchState) domain.MatchState {
	r := e.begin(state, nil)
	r.tickStatuses()
	return r.s
}

func (r *resolution) ownerExists(owner domain.Owner) bool {
	return owner == domain.OwnerPlayer || r.s.OpponentIndex(string(owner)) >= 0
}

func (r *resolution) addStatus(templateID string, owner domain.Owner, duration int, sourceID string) {
	tmpl, ok := r.e.registry.StatusTemplate(templateID)
	if !ok {
		r.warn("unknown status template", map[string]any{"status": templateID, "source": sourceID})
		return
	}
	if !r.ownerExists(owner) {
		r.warn("status owner not in match", map[string]any{"status": templateID, "owner": string(owner)})
		return
	}
	st := tmpl.Instantiate(owner, duration)

	if tmpl.Unique {
		for i := range r.s.Statuses {
			existing := &r.s.Statuses[i]
			if existing.TemplateID != tmpl.ID || existing.Owner != owner {
				continue
			}
			existing.TurnsRemaining = st.TurnsRemaining
			existing.TriggersRemaining = st.TriggersRemaining
			r.record(domain.EventStatusAdded, sourceID, string(owner), existing.TurnsRemaining, existing.ID+" refreshed")
			return
		}
	}

	r.insertStatus(st, sourceID)
}

func (r *resolution) insertStatus(st domain.Status, sourceID string) {
	st.ID = r.s.AllocID("status")
	if st.SourceID == "" {
		st.SourceID = sourceID
	}
	r.s.Statuses = append(r.s.Statuses, st)
	r.record(domain.EventStatusAdded, st.SourceID, string(st.Owner), st.TurnsRemaining, st.ID)
}

func (r *resolution) removeStatusAt(i int, reason string) {
	st := r.s.Statuses[i]
	r.s.Statuses = append(r.s.Statuses[:i:i], r.s.Statuses[i+1:]...)
	r.record(domain.EventStatusRemoved, reason, string(st.Owner), 0, st.ID)
}

// removeStatuses drops owner's statuses created from templateID or carrying tag.
func (r *resolution) removeStatuses(owner domain.Owner, templateID, tag string) {
	if templateID == "" && tag == "" {
		return
	}
	for i := len(r.s.Statuses) - 1; i >= 0; i-- {
		st := r.s.Statuses[i]
		if st.Owner != owner {
			continue
		}
		if (templateID != "" && st.TemplateID == templateID) || (tag != "" && st.HasTag(tag)) {
			r.removeStatusAt(i, "removed")
		}
	}
}

// processTrigger fires matching statuses. The set is fixed before the first one
// fires: statuses added during the pass wait for the next one, and statuses
// removed by an earlier trigger are skipped.
func (r *resolution) processTrigger(trigger domain.Trigger, played *domain.Element) {
	var ids []string
	for _, st := range r.s.Statuses {
		if st.Trigger != trigger || len(st.TriggeredEffects) == 0 {
			continue
		}
		if trigger == domain.TriggerCardPlayed && st.Element != nil && (played == nil || *st.Element != *played) {
			continue
		}
		ids = append(ids, st.ID)
	}

	for _, id := range ids {
		if r.over() {
			return
		}
		i := r.s.StatusIndex(id)
		if i < 0 {
			continue
		}
		st := r.s.Statuses[i]
		r.record(domain.EventStatusTriggered, string(st.Owner), "", 0, st.ID)

		ctx := EffectContext{Actor: st.Owner, SourceStatusID: st.ID}
		ctx = r.preselect(st.TriggeredEffects, ctx, 1)
		r.resolveEffects(st.TriggeredEffects, ctx, 1)

		if st.TriggersRemaining <= 0 {
			continue
		}
		// Effects may have reordered the list.
		if i = r.s.StatusIndex(id); i < 0 {
			continue
		}
		r.s.Statuses[i].TriggersRemaining--
		if r.s.Statuses[i].TriggersRemaining == 0 {
			r.removeStatusAt(i, "spent")
		}
	}
}

func (r *resolution) tickStatuses() {
	kept := r.s.Statuses[:0:0]
	var expired []domain.Status
	for _, st := range r.s.Statuses {
		if st.IsPermanent() {
			kept = append(kept, st)
			continue
		}
		st.TurnsRemaining--
		if st.TurnsRemaining <= 0 {
			expired = append(expired, st)
			continue
		}
		kept = append(kept, st)
	}
	r.s.Statuses = kept
	for _, st := range expired {
		r.record(domain.EventStatusRemoved, "expired", string(st.Owner), 0, st.ID)
	}
}
