package bot

import (
	"faceoff/internal/domain"
)

// SelectionContext holds the state for the move selection pipeline.
type SelectionContext struct {
	State         domain.MatchState
	Tuning        Tuning
	Candidates    []Candidate
	SelectedIndex int
}

// SelectionRule represents a logic unit that can influence which move is chosen.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext)
}

// DefaultRules is the pipeline SmartBot runs when none is configured.
func DefaultRules() []SelectionRule {
	return []SelectionRule{&PreserveFaceRule{}, &FavorLethalRule{}}
}

// FavorLethalRule takes any move that knocks an opponent out of face.
type FavorLethalRule struct{}

func (r *FavorLethalRule) Name() string { return "FavorLethal" }

func (r *FavorLethalRule) Apply(ctx *SelectionContext) {
	bestIdx := -1
	for i, c := range ctx.Candidates {
		if c.Lethal && (bestIdx < 0 || c.Score > ctx.Candidates[bestIdx].Score) {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		ctx.SelectedIndex = bestIdx
	}
}

// PreserveFaceRule avoids face costs while the player is close to losing.
type PreserveFaceRule struct{}

func (r *PreserveFaceRule) Name() string { return "PreserveFace" }

func (r *PreserveFaceRule) Apply(ctx *SelectionContext) {
	if ctx.State.Player.Face > ctx.Tuning.LowFaceThreshold {
		return
	}
	if ctx.Candidates[ctx.SelectedIndex].Cost.Face == 0 {
		return
	}
	bestIdx := -1
	for i, c := range ctx.Candidates {
		if c.Cost.Face > 0 {
			continue
		}
		if bestIdx < 0 || c.Score > ctx.Candidates[bestIdx].Score {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		ctx.SelectedIndex = bestIdx
	}
}
