package nakama

const (
	// RpcCreateBattle is the Nakama RPC id clients call to open a new battle.
	RpcCreateBattle = "create_battle"

	// MatchNameFaceoff is the authoritative match handler name registered with Nakama.
	MatchNameFaceoff = "faceoff_battle"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartBattle  int64 = 1
	OpPlayCard     int64 = 2
	OpEndTurn      int64 = 3
	OpRequestState int64 = 4

	// Server -> Client events
	OpStateSnapshot int64 = 101
	OpBattleEvent   int64 = 102
	OpBattleError   int64 = 103
)

// Error codes carried by OpBattleError.
const (
	ErrCodeInternal int = iota + 1
	ErrCodeBadRequest
	ErrCodeNotOwner
	ErrCodeNoBattle
	ErrCodeGameOver
	ErrCodeNotYourTurn
	ErrCodeIllegalPlay
	ErrCodeUnknownContent
)

// Runtime env keys read in MatchInit.
const (
	envBotStrategy      = "faceoff_bot_strategy"
	envStartingPatience = "faceoff_starting_patience"
	envSharedStanding   = "faceoff_shared_standing"
	envAutopilotAfter   = "faceoff_autopilot_after_sec"
)
