package domain

import "math"

// Owner identifies who a status belongs to: OwnerPlayer or an opponent id.
type Owner string

// OwnerPlayer owns every status attached to the player.
const OwnerPlayer Owner = "player"

// Trigger is the phase event that fires a status's triggered effects.
type Trigger string

const (
	TriggerPassive    Trigger = "passive"
	TriggerTurnStart  Trigger = "turn_start"
	TriggerTurnEnd    Trigger = "turn_end"
	TriggerCardPlayed Trigger = "card_played"
)

// Valid reports whether t is a known trigger. The empty trigger counts as passive.
func (t Trigger) Valid() bool {
	switch t {
	case "", TriggerPassive, TriggerTurnStart, TriggerTurnEnd, TriggerCardPlayed:
		return true
	}
	return false
}

// ModifierOp is how a modifier combines into a stat total.
type ModifierOp string

const (
	OpAdd      ModifierOp = "add"
	OpMultiply ModifierOp = "multiply"
	OpSet      ModifierOp = "set"
)

// Stat names a modifiable quantity.
type Stat string

const (
	// StatPatienceCost adjusts the patience paid for a card. Element-scoped
	// modifiers only apply to cards of that element.
	StatPatienceCost Stat = "patience_cost"
	// StatStandingGain shapes standing gains: ADD is a flat bonus, MULTIPLY
	// scales the raw gain, SET replaces the final value.
	StatStandingGain Stat = "standing_gain"
)

// Valid reports whether s is a stat the engine reads.
func (s Stat) Valid() bool { return s == StatPatienceCost || s == StatStandingGain }

// Modifier is one contribution to a stat.
type Modifier struct {
	Stat    Stat       `yaml:"stat"`
	Op      ModifierOp `yaml:"op"`
	Value   float64    `yaml:"value"`
	Element *Element   `yaml:"element,omitempty"`
}

// PermanentDuration marks a status that never ticks down.
const PermanentDuration = -1

// Status is a timed or permanent effect attached to one owner.
type Status struct {
	ID         string
	TemplateID string
	Name       string
	Owner      Owner
	SourceID   string
	Trigger    Trigger
	// Element restricts card_played triggers to cards of this element.
	Element *Element
	// TurnsRemaining is PermanentDuration for statuses that never expire.
	TurnsRemaining int
	// TriggersRemaining is 0 for unlimited triggers.
	TriggersRemaining int
	Modifiers         []Modifier
	TriggeredEffects  []EffectDef
	Tags              []string
	IsPositive        bool
}

// IsPermanent reports whether s is exempt from duration ticking.
func (s Status) IsPermanent() bool { return s.TurnsRemaining == PermanentDuration }

// HasTag reports whether s carries tag.
func (s Status) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// StatusTemplate is the registry entry statuses are instantiated from.
type StatusTemplate struct {
	ID               string      `yaml:"id"`
	Name             string      `yaml:"name"`
	Trigger          Trigger     `yaml:"trigger"`
	Element          *Element    `yaml:"element,omitempty"`
	DefaultDuration  int         `yaml:"duration"`
	Triggers         int         `yaml:"triggers"`
	Modifiers        []Modifier  `yaml:"modifiers"`
	TriggeredEffects []EffectDef `yaml:"effects"`
	IsPositive       bool        `yaml:"positive"`
	Tags             []string    `yaml:"tags"`
	// Unique refreshes an existing status of the same template and owner instead of stacking.
	Unique bool `yaml:"unique"`
}

// Instantiate builds an unnumbered status for owner. A zero duration falls back
// to the template default, and a zero default means permanent.
func (t StatusTemplate) Instantiate(owner Owner, duration int) Status {
	if duration == 0 {
		duration = t.DefaultDuration
	}
	if duration == 0 {
		duration = PermanentDuration
	}
	name := t.Name
	if name == "" {
		name = t.ID
	}
	return Status{
		TemplateID:        t.ID,
		Name:              name,
		Owner:             owner,
		Trigger:           t.Trigger,
		Element:           t.Element,
		TurnsRemaining:    duration,
		TriggersRemaining: t.Triggers,
		Modifiers:         t.Modifiers,
		TriggeredEffects:  t.TriggeredEffects,
		Tags:              t.Tags,
		IsPositive:        t.IsPositive,
	}
}

// StatQuery scopes a stat aggregation. An empty Owner matches every owner; a nil
// Element matches only unscoped modifiers.
type StatQuery struct {
	Owner   Owner
	Stat    Stat
	Element *Element
}

func (q StatQuery) each(statuses []Status, op ModifierOp, fn func(Modifier)) {
	for _, st := range statuses {
		if q.Owner != "" && st.Owner != q.Owner {
			continue
		}
		for _, m := range st.Modifiers {
			if m.Stat != q.Stat || m.Op != op || !sameElementScope(m.Element, q.Element) {
				continue
			}
			fn(m)
		}
	}
}

// AdditiveTotal sums the ADD modifiers only. Used for cost discounts, where the
// result must stay order-independent.
func AdditiveTotal(statuses []Status, q StatQuery) float64 {
	sum := 0.0
	q.each(statuses, OpAdd, func(m Modifier) { sum += m.Value })
	return sum
}

// AdditiveInt is AdditiveTotal rounded to the nearest integer.
func AdditiveInt(statuses []Status, q StatQuery) int {
	return int(math.Round(AdditiveTotal(statuses, q)))
}

// MultiplierProduct multiplies every MULTIPLY modifier, starting from 1.
func MultiplierProduct(statuses []Status, q StatQuery) float64 {
	product := 1.0
	q.each(statuses, OpMultiply, func(m Modifier) { product *= m.Value })
	return product
}

// SetOverride returns the value of the most recently added SET modifier.
func SetOverride(statuses []Status, q StatQuery) (float64, bool) {
	var (
		value float64
		found bool
	)
	q.each(statuses, OpSet, func(m Modifier) {
		value = m.Value
		found = true
	})
	return value, found
}

// StatTotal is the full aggregate: a SET overrides everything, otherwise the
// additive sum scaled by the product of multipliers.
func StatTotal(statuses []Status, q StatQuery) float64 {
	if v, ok := SetOverride(statuses, q); ok {
		return v
	}
	return AdditiveTotal(statuses, q) * MultiplierProduct(statuses, q)
}

// StatusesOf returns the statuses owned by owner, in insertion order.
func StatusesOf(statuses []Status, owner Owner) []Status {
	var out []Status
	for _, st := range statuses {
		if st.Owner == owner {
			out = append(out, st)
		}
	}
	return out
}
