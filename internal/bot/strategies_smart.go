package bot

import (
	"faceoff/internal/domain"
)

// SmartBot scores every playable card with its tuning and refines the pick
// through the selection pipeline.
type SmartBot struct {
	Tuning Tuning
	// Rules defaults to DefaultRules when nil.
	Rules []SelectionRule
}

func (b *SmartBot) CalculateMove(s domain.MatchState) (Move, error) {
	moves := PlayableMoves(s)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	best := 0
	for i := range moves {
		moves[i].Score, moves[i].Lethal = b.Tuning.Score(s, moves[i])
		if moves[i].Score > moves[best].Score {
			best = i
		}
	}

	ctx := &SelectionContext{State: s, Tuning: b.Tuning, Candidates: moves, SelectedIndex: best}
	rules := b.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	for _, rule := range rules {
		rule.Apply(ctx)
	}

	chosen := ctx.Candidates[ctx.SelectedIndex]
	if !chosen.Lethal && chosen.Score < b.Tuning.PassThreshold {
		return Move{Pass: true}, nil
	}
	return chosen.Move, nil
}

// Score estimates what playing c is worth in s. Amounts, draw counts and
// status applications are doubled under chaos the same way the engine
// resolves them.
func (t Tuning) Score(s domain.MatchState, c Candidate) (float64, bool) {
	mult := float64(c.Cost.Harmony.EffectMultiplier())
	var v float64
	lethal := false
	for _, def := range c.Card.Effects {
		amount := float64(def.Amount)
		if def.Type.Scales() {
			amount *= mult
		}
		switch def.Type {
		case domain.EffectGainStanding:
			v += amount * t.StandingWeight
		case domain.EffectDealShame:
			v += amount * t.ShameWeight
			if idx := s.OpponentIndex(c.Move.TargetOpponentID); idx >= 0 && (def.Target == "" || def.Target == domain.TargetOpponent) {
				o := s.Opponents[idx]
				if int(amount) >= o.Face+o.Poise {
					lethal = true
					v += t.LethalBonus
				}
			}
		case domain.EffectGainPoise:
			v += amount * t.PoiseWeight
		case domain.EffectHealFace:
			w := t.HealWeight
			if s.Player.Face <= t.LowFaceThreshold {
				w *= 2
			}
			v += min(amount, float64(s.Player.MaxFace-s.Player.Face)) * w
		case domain.EffectDrainPatience:
			v -= amount * t.PatienceWeight
		case domain.EffectDrawCards:
			v += float64(max(def.Count, 1)) * mult * t.DrawWeight
		case domain.EffectAddStatus:
			v += t.StatusWeight * mult
		case domain.EffectRevealIntention:
			v += t.RevealWeight
		case domain.EffectComputed:
			v += t.ComputedWeight * mult
		}
	}
	v -= float64(c.Cost.Patience) * t.PatienceWeight
	v -= float64(c.Cost.Face) * t.FaceWeight
	v += t.HarmonyBonus[c.Cost.Harmony]
	return v, lethal
}
