package nakama

import (
	"context"
	"database/sql"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Match params set by RpcCreateBattleFunc and read in MatchInit.
const (
	paramOwner     = "owner"
	paramJudge     = "judge"
	paramDeck      = "deck"
	paramOpponents = "opponents"
)

// gRPC status codes used for runtime errors.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)

// RpcCreateBattleFunc creates a private battle match for the caller.
//
// Payload: (Optional) JSON {"judge": "...", "deck": "...", "opponents": ["..."]}.
// Returns: JSON {"match_id": "..."}.
func RpcCreateBattleFunc(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userId == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}

	req, err := parseRequest([]byte(payload))
	if err != nil {
		logger.Warn("RpcCreateBattle [User:%s]: %v", userId, err)
		return "", runtime.NewError("invalid payload", codeInvalidArgument)
	}

	params := map[string]interface{}{paramOwner: userId}
	for _, key := range []string{paramJudge, paramDeck} {
		if v := stringField(req, key); v != "" {
			params[key] = v
		}
	}
	if opponents := stringList(req, paramOpponents); len(opponents) > 0 {
		params[paramOpponents] = strings.Join(opponents, ",")
	}

	matchId, err := nk.MatchCreate(ctx, MatchNameFaceoff, params)
	if err != nil {
		logger.Error("RpcCreateBattle [User:%s]: Failed to create match: %v", userId, err)
		return "", runtime.NewError("failed to create battle", codeInternal)
	}
	logger.Info("RpcCreateBattle [User:%s]: Created battle match %s", userId, matchId)

	return encodeJSON(map[string]any{"match_id": matchId})
}
