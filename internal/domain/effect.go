package domain

// EffectType is the closed vocabulary of state changes a card, status or core
// argument can express.
type EffectType string

const (
	EffectGainStanding    EffectType = "gain_standing"
	EffectDealShame       EffectType = "deal_shame"
	EffectHealFace        EffectType = "heal_face"
	EffectGainPoise       EffectType = "gain_poise"
	EffectDrainPatience   EffectType = "drain_patience"
	EffectDrawCards       EffectType = "draw_cards"
	EffectAddStatus       EffectType = "add_status"
	EffectRemoveStatus    EffectType = "remove_status"
	EffectRevealIntention EffectType = "reveal_intention"
	EffectBurnCard        EffectType = "burn_card"
	EffectDiscardCard     EffectType = "discard_card"
	EffectComputed        EffectType = "computed"
)

// EffectTypes lists every effect type in declaration order.
var EffectTypes = []EffectType{
	EffectGainStanding, EffectDealShame, EffectHealFace, EffectGainPoise,
	EffectDrainPatience, EffectDrawCards, EffectAddStatus, EffectRemoveStatus,
	EffectRevealIntention, EffectBurnCard, EffectDiscardCard, EffectComputed,
}

// Valid reports whether t is part of the vocabulary.
func (t EffectType) Valid() bool {
	for _, known := range EffectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Scales reports whether the effect's Amount is multiplied under chaos. Counts
// and status applications are multiplied by the resolver.
func (t EffectType) Scales() bool {
	switch t {
	case EffectGainStanding, EffectDealShame, EffectHealFace, EffectGainPoise, EffectDrainPatience:
		return true
	}
	return false
}

// EffectTarget is resolved relative to the acting side.
type EffectTarget string

const (
	// TargetSelf is the actor: the player for cards, the owner for statuses.
	TargetSelf EffectTarget = "self"
	// TargetOpponent is the chosen opponent when the player acts, or the player
	// when an opponent acts.
	TargetOpponent     EffectTarget = "opponent"
	TargetAllOpponents EffectTarget = "all_opponents"
	TargetPlayer       EffectTarget = "player"
)

// ComputeSource names the secondary value a computed effect reads.
type ComputeSource string

const (
	SourceSelectedPatienceCost ComputeSource = "selected_card_patience_cost"
	SourceSelectedFaceCost     ComputeSource = "selected_card_face_cost"
	SourceHandSize             ComputeSource = "hand_size"
	SourcePatienceRemaining    ComputeSource = "patience_remaining"
	SourcePlayerPoise          ComputeSource = "player_poise"
	SourceHarmonyStreak        ComputeSource = "harmony_streak"
)

// Valid reports whether s is a known compute source.
func (s ComputeSource) Valid() bool {
	switch s {
	case SourceSelectedPatienceCost, SourceSelectedFaceCost, SourceHandSize,
		SourcePatienceRemaining, SourcePlayerPoise, SourceHarmonyStreak:
		return true
	}
	return false
}

// Compute describes a computed effect: Source × Factor is injected into Then.
type Compute struct {
	Source ComputeSource `yaml:"source"`
	Factor float64       `yaml:"factor"`
	Then   *EffectDef    `yaml:"then"`
}

// EffectDef is one declarative effect. Only the fields relevant to Type are read.
type EffectDef struct {
	Type   EffectType   `yaml:"type"`
	Amount int          `yaml:"amount,omitempty"`
	Count  int          `yaml:"count,omitempty"`
	Target EffectTarget `yaml:"target,omitempty"`
	// StatusID is the template for add_status/remove_status.
	StatusID string `yaml:"status,omitempty"`
	// Tag removes every status carrying it (remove_status).
	Tag      string `yaml:"tag,omitempty"`
	Duration int    `yaml:"duration,omitempty"`
	// Random picks burn/discard targets from hand when none were selected.
	Random  bool     `yaml:"random,omitempty"`
	Compute *Compute `yaml:"compute,omitempty"`
}
