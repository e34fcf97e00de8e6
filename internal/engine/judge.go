package engine

import (
	"faceoff/internal/domain"
)

// payEndTurnCost deducts the judge's end-turn cost. Only this spend counts
// toward the judge's threshold.
func (r *resolution) payEndTurnCost() int {
	cost := r.s.Judge.Effects.EndTurnPatienceCost
	r.s.Patience -= cost
	r.s.Judge.PatienceSpent += cost
	r.record(domain.EventPatienceSpent, string(domain.OwnerPlayer), "", cost, "end_turn")
	return cost
}

// checkJudge issues the pending decree once accumulated spend reaches the
// threshold, then schedules the next one.
func (r *resolution) checkJudge() {
	j := &r.s.Judge
	if j.PendingAction == nil || j.PatienceThreshold <= 0 || j.PatienceSpent < j.PatienceThreshold {
		return
	}
	action := *j.PendingAction
	j.Effects = action.Apply(j.Effects)
	j.Effects.ActiveDecrees = append(j.Effects.ActiveDecrees, domain.Decree{
		ActionID:    action.ID,
		Name:        action.Name,
		Description: action.Description,
		Turn:        r.s.TurnNumber,
	})
	j.PatienceSpent = 0
	j.PendingAction = r.e.drawJudgeAction(j.Actions)
	if j.PendingAction != nil && j.PendingAction.PatienceThreshold > 0 {
		j.PatienceThreshold = j.PendingAction.PatienceThreshold
	}

	r.record(domain.EventDecreeIssued, "judge", "", r.s.Judge.Effects.EndTurnPatienceCost, action.Name)
	r.e.sink.LogSystemEvent(domain.EventDecreeIssued, action.Name)
}

func (e *Engine) drawJudgeAction(actions []domain.JudgeAction) *domain.JudgeAction {
	if len(actions) == 0 {
		return nil
	}
	a := actions[e.rng.Intn(len(actions))]
	a.Rules = append([]domain.JudgeRule(nil), a.Rules...)
	return &a
}
