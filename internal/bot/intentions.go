package bot

import (
	"math/rand"

	"faceoff/internal/domain"
)

// RandomBrain picks uniformly from the opponent's pool.
type RandomBrain struct{}

func (RandomBrain) PickIntention(o domain.Opponent, rng *rand.Rand) domain.Intention {
	if len(o.IntentionPool) == 0 {
		return domain.Intention{}
	}
	return o.IntentionPool[rng.Intn(len(o.IntentionPool))]
}

// CycleBrain walks the pool in order, wrapping around.
type CycleBrain struct{}

func (CycleBrain) PickIntention(o domain.Opponent, _ *rand.Rand) domain.Intention {
	if len(o.IntentionPool) == 0 {
		return domain.Intention{}
	}
	return o.IntentionPool[o.IntentionsDrawn%len(o.IntentionPool)]
}

// TacticalBrain weighs the pool by intention type, pressing while the
// opponent is composed and turtling once it is shaken.
type TacticalBrain struct {
	Weights IntentionWeights
}

func (b TacticalBrain) PickIntention(o domain.Opponent, rng *rand.Rand) domain.Intention {
	if len(o.IntentionPool) == 0 {
		return domain.Intention{}
	}
	weights := b.Weights.Composed
	if o.MaxFace > 0 && o.Face*2 <= o.MaxFace {
		weights = b.Weights.Shaken
	}

	total := 0
	for _, in := range o.IntentionPool {
		total += max(weights[in.Type], 0)
	}
	if total == 0 {
		return o.IntentionPool[rng.Intn(len(o.IntentionPool))]
	}
	roll := rng.Intn(total)
	for _, in := range o.IntentionPool {
		w := max(weights[in.Type], 0)
		if roll < w {
			return in
		}
		roll -= w
	}
	return o.IntentionPool[len(o.IntentionPool)-1]
}
