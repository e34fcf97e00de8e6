package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// GameConfig holds the tunables a battle is set up with. Combat content lives
// in the content catalog; this file only picks from it and sizes the battle.
type GameConfig struct {
	StartingPatience int `yaml:"starting_patience"`
	StartingHandSize int `yaml:"starting_hand_size"`
	MaxHandSize      int `yaml:"max_hand_size"`
	// HarmonyStreakThreshold is how many balanced plays in a row enter flow.
	HarmonyStreakThreshold int  `yaml:"harmony_streak_threshold"`
	SharedOpponentStanding bool `yaml:"shared_opponent_standing"`

	PlayerMaxFace      int      `yaml:"player_max_face"`
	PlayerCoreArgument string   `yaml:"player_core_argument"`
	DefaultDeck        string   `yaml:"default_deck"`
	DefaultJudge       string   `yaml:"default_judge"`
	DefaultOpponents   []string `yaml:"default_opponents"`

	// BotStrategy picks the intention brain for opponents: "random", "cycle" or "tactical".
	BotStrategy string `yaml:"bot_strategy"`
	// VictoryReward is the gold credited to the player's wallet on a win.
	VictoryReward int64 `yaml:"victory_reward"`
}

// Defaults returns the configuration used when no file is loaded.
func Defaults() GameConfig {
	return GameConfig{
		StartingPatience:       30,
		StartingHandSize:       5,
		MaxHandSize:            10,
		HarmonyStreakThreshold: 3,
		PlayerMaxFace:          20,
		DefaultDeck:            "starter",
		BotStrategy:            "random",
		VictoryReward:          100,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Parse decodes a config document over the defaults, so omitted keys keep
// their default values.
func Parse(data []byte) (GameConfig, error) {
	c := Defaults()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return c, nil
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults if
// nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Defaults()
	}
	return *cfg
}

// GetStartingPatience returns the patience a battle opens with.
func GetStartingPatience() int {
	c := GetGameConfig()
	if c.StartingPatience <= 0 {
		return 30 // Safe default
	}
	return c.StartingPatience
}

// GetHandSizes returns the opening and maximum hand sizes. The maximum is
// never below the opening size.
func GetHandSizes() (start, limit int) {
	c := GetGameConfig()
	start, limit = c.StartingHandSize, c.MaxHandSize
	if start <= 0 {
		start = 5
	}
	if limit < start {
		limit = max(start, 10)
	}
	return start, limit
}

// GetVictoryReward returns the gold paid out for a win.
func GetVictoryReward() int64 {
	c := GetGameConfig()
	if c.VictoryReward < 0 {
		return 0
	}
	return c.VictoryReward
}
