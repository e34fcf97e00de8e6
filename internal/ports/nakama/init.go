package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"faceoff/internal/config"
	"faceoff/internal/content"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	gameConfigPath = "data/game_config.yaml"
	contentPath    = "data/content.yaml"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}

	catalog, err := content.Load(contentPath)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	if err := initializer.RegisterRpc(RpcCreateBattle, RpcCreateBattleFunc); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameFaceoff, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(catalog), nil
	}); err != nil {
		return err
	}

	logger.Info("Face-off Go module loaded.")
	return nil
}
