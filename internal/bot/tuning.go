package bot

import "faceoff/internal/domain"

// Tuning weighs card effects against their costs for SmartBot.
type Tuning struct {
	StandingWeight float64
	ShameWeight    float64
	PoiseWeight    float64
	HealWeight     float64
	DrawWeight     float64
	StatusWeight   float64
	RevealWeight   float64
	ComputedWeight float64

	PatienceWeight float64
	FaceWeight     float64

	HarmonyBonus map[domain.Harmony]float64

	// LowFaceThreshold marks the player as in danger; healing is doubled and
	// face-cost cards are avoided when an alternative exists.
	LowFaceThreshold int
	LethalBonus      float64
	// PassThreshold is the score below which the bot ends its turn instead.
	PassThreshold float64
}

// DefaultTuning favors steady standing gains on the generating cycle.
var DefaultTuning = Tuning{
	StandingWeight: 1.0,
	ShameWeight:    0.9,
	PoiseWeight:    0.5,
	HealWeight:     0.6,
	DrawWeight:     1.5,
	StatusWeight:   2.0,
	RevealWeight:   0.5,
	ComputedWeight: 3.0,

	PatienceWeight: 1.2,
	FaceWeight:     2.0,

	HarmonyBonus: map[domain.Harmony]float64{
		domain.HarmonyBalanced:  2.0,
		domain.HarmonyNeutral:   0,
		domain.HarmonyChaos:     1.0,
		domain.HarmonyDissonant: -1.5,
	},

	LowFaceThreshold: 5,
	LethalBonus:      50.0,
	PassThreshold:    -2.0,
}

// IntentionWeights bias TacticalBrain by how composed the opponent is.
type IntentionWeights struct {
	Composed map[domain.IntentionType]int
	// Shaken applies once face drops to half of MaxFace or below.
	Shaken map[domain.IntentionType]int
}

// DefaultIntentionWeights make opponents press while composed and stall when shaken.
var DefaultIntentionWeights = IntentionWeights{
	Composed: map[domain.IntentionType]int{
		domain.IntentionAttack:       3,
		domain.IntentionStandingGain: 2,
		domain.IntentionStall:        1,
	},
	Shaken: map[domain.IntentionType]int{
		domain.IntentionAttack:       1,
		domain.IntentionStandingGain: 3,
		domain.IntentionStall:        3,
	},
}
