package domain

// Combatant holds the resources shared by the player and opponents.
type Combatant struct {
	Face     int
	MaxFace  int
	Poise    int
	Standing Standing
}

// Absorb applies amount against poise first and face second. Face never goes
// below zero. It returns the updated combatant and how much face was lost.
func (c Combatant) Absorb(amount int) (Combatant, int) {
	if amount <= 0 {
		return c, 0
	}
	fromPoise := min(c.Poise, amount)
	c.Poise -= fromPoise
	rest := amount - fromPoise
	lost := min(rest, c.Face)
	c.Face -= lost
	return c, lost
}

// Heal restores face up to MaxFace.
func (c Combatant) Heal(amount int) Combatant {
	if amount <= 0 {
		return c
	}
	c.Face = min(c.Face+amount, c.MaxFace)
	return c
}

// GainPoise adds amount to poise, never dropping it below zero.
func (c Combatant) GainPoise(amount int) Combatant {
	c.Poise = max(c.Poise+amount, 0)
	return c
}

// Player is the human side of the match.
type Player struct {
	Combatant
	Hand    []Card
	Deck    []Card
	Discard []Card
	Removed []Card
}

// Opponent is an AI-driven combatant with a telegraphed intention queue.
type Opponent struct {
	Combatant
	ID         string
	Name       string
	TemplateID string

	CurrentIntention Intention
	// NextIntention is nil after the opponent was flustered and its preview was
	// pushed back onto the queue.
	NextIntention     *Intention
	IntentionQueue    []Intention
	IntentionPool     []Intention
	IntentionRevealed bool
	// IntentionsDrawn counts picks from IntentionPool.
	IntentionsDrawn int
	// PatienceCharge is the end-turn patience accumulated toward the current
	// intention's threshold.
	PatienceCharge int
	FlusteredCount int

	CoreArgument *CoreArgument
}

// Owner returns the status owner key for o.
func (o Opponent) Owner() Owner { return Owner(o.ID) }

// PassiveModifiers are the fixed passive rules of a core argument.
type PassiveModifiers struct {
	// PlayerCostModifier is added to the patience cost of the player's cards
	// (scoped to the core argument's element when it has one).
	PlayerCostModifier     int     `yaml:"player_cost_modifier,omitempty"`
	StandingGainBonus      int     `yaml:"standing_gain_bonus,omitempty"`
	StandingGainMultiplier float64 `yaml:"standing_gain_multiplier,omitempty"`
	PoisePerTurn           int     `yaml:"poise_per_turn,omitempty"`
	FacePerTurn            int     `yaml:"face_per_turn,omitempty"`
}

// CoreArgument is a permanent passive trait active for one battle.
type CoreArgument struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Element     *Element         `yaml:"element,omitempty"`
	Trigger     Trigger          `yaml:"trigger,omitempty"`
	Effects     []EffectDef      `yaml:"effects,omitempty"`
	Passive     PassiveModifiers `yaml:"passive,omitempty"`
}

// OpponentTemplate is the content definition an opponent is seated from.
type OpponentTemplate struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	MaxFace      int           `yaml:"max_face"`
	Intentions   []Intention   `yaml:"intentions"`
	CoreArgument *CoreArgument `yaml:"core_argument,omitempty"`
}
