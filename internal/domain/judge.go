package domain

import (
	"maps"
	"math"
	"slices"
)

// JudgeEffects is the judge-imposed ruleset, replaced wholesale on escalation.
type JudgeEffects struct {
	EndTurnPatienceCost int
	ElementCostModifier map[Element]int
	FavorGainModifier   float64
	DamageModifier      float64
	ActiveDecrees       []Decree
}

// NewJudgeEffects returns the neutral ruleset with the given end-turn cost.
func NewJudgeEffects(endTurnCost int) JudgeEffects {
	return JudgeEffects{
		EndTurnPatienceCost: endTurnCost,
		ElementCostModifier: map[Element]int{},
		FavorGainModifier:   1,
		DamageModifier:      1,
	}
}

// Clone deep-copies the map and decree list.
func (e JudgeEffects) Clone() JudgeEffects {
	e.ElementCostModifier = maps.Clone(e.ElementCostModifier)
	if e.ElementCostModifier == nil {
		e.ElementCostModifier = map[Element]int{}
	}
	e.ActiveDecrees = slices.Clone(e.ActiveDecrees)
	return e
}

// Decree records a judge action that has fired.
type Decree struct {
	ActionID    string
	Name        string
	Description string
	Turn        int
}

// JudgeRuleOp is one transform a judge action can apply.
type JudgeRuleOp string

const (
	RuleRaiseEndTurnCost JudgeRuleOp = "raise_end_turn_cost"
	RuleTaxElement       JudgeRuleOp = "tax_element"
	RuleScaleFavorGain   JudgeRuleOp = "scale_favor_gain"
	RuleScaleDamage      JudgeRuleOp = "scale_damage"
)

// JudgeRule is a data-driven piece of a judge action.
type JudgeRule struct {
	Op      JudgeRuleOp `yaml:"op"`
	Element Element     `yaml:"element,omitempty"`
	Amount  int         `yaml:"amount,omitempty"`
	Factor  float64     `yaml:"factor,omitempty"`
}

// JudgeAction is a decree the judge can issue once patience spending crosses
// its threshold.
type JudgeAction struct {
	ID                string      `yaml:"id"`
	Name              string      `yaml:"name"`
	Description       string      `yaml:"description"`
	PatienceThreshold int         `yaml:"patience_threshold,omitempty"`
	Rules             []JudgeRule `yaml:"rules"`
}

// Apply returns e transformed by every rule of a. e is not modified.
func (a JudgeAction) Apply(e JudgeEffects) JudgeEffects {
	out := e.Clone()
	for _, r := range a.Rules {
		switch r.Op {
		case RuleRaiseEndTurnCost:
			out.EndTurnPatienceCost = max(out.EndTurnPatienceCost+r.Amount, 0)
		case RuleTaxElement:
			out.ElementCostModifier[r.Element] += r.Amount
		case RuleScaleFavorGain:
			out.FavorGainModifier = roundFactor(out.FavorGainModifier * r.Factor)
		case RuleScaleDamage:
			out.DamageModifier = roundFactor(out.DamageModifier * r.Factor)
		}
	}
	return out
}

// roundFactor trims float noise so repeated scaling stays comparable.
func roundFactor(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

// Judge is the escalating referee of a match.
type Judge struct {
	TemplateID        string
	Name              string
	PatienceSpent     int
	PatienceThreshold int
	PendingAction     *JudgeAction
	Actions           []JudgeAction
	Tiers             Ladder
	Effects           JudgeEffects
}

// JudgeTemplate is the content definition a judge is seated from.
type JudgeTemplate struct {
	ID                  string        `yaml:"id"`
	Name                string        `yaml:"name"`
	PatienceThreshold   int           `yaml:"patience_threshold"`
	EndTurnPatienceCost int           `yaml:"end_turn_patience_cost"`
	Actions             []JudgeAction `yaml:"actions"`
	Tiers               Ladder        `yaml:"tiers"`
}
