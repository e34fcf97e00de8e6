package bot

import (
	"fmt"
	"strings"

	"faceoff/internal/engine"
)

// BotLevel selects an autopilot strategy.
type BotLevel int

const (
	BotLevelGood BotLevel = iota
	BotLevelSmart
)

// ParseBotLevel maps a config name to a level.
func ParseBotLevel(name string) (BotLevel, error) {
	switch strings.ToLower(name) {
	case "", "good":
		return BotLevelGood, nil
	case "smart":
		return BotLevelSmart, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %s", name)
	}
}

// NewBrain creates a new autopilot brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelGood:
		return &GoodBot{}, nil
	case BotLevelSmart:
		return &SmartBot{Tuning: DefaultTuning}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewIntentionPicker creates the opponent brain named by strategy.
func NewIntentionPicker(strategy string) (engine.IntentionPicker, error) {
	switch strings.ToLower(strategy) {
	case "", "random":
		return RandomBrain{}, nil
	case "cycle":
		return CycleBrain{}, nil
	case "tactical":
		return TacticalBrain{Weights: DefaultIntentionWeights}, nil
	default:
		return nil, fmt.Errorf("unknown bot strategy: %s", strategy)
	}
}
