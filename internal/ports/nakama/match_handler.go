package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"faceoff/internal/app"
	"faceoff/internal/bot"
	"faceoff/internal/config"
	"faceoff/internal/content"
	"faceoff/internal/domain"
	"faceoff/internal/engine"
	"faceoff/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	labelStateWaiting = "waiting"
	labelStatePlaying = "playing"
	labelStateEnded   = "ended"
)

// MatchState holds the authoritative runtime state for one player's battle.
type MatchState struct {
	OwnerID        string                      `json:"owner_id"`         // The only user allowed to join and act
	Tick           int64                       `json:"tick"`             // Current tick of the match
	LastActionTick int64                       `json:"last_action_tick"` // Tick of the last player (or autopilot) action
	AutopilotAfter int64                       `json:"autopilot_after"`  // Idle ticks before the autopilot acts, 0 disables it
	Presences      map[string]runtime.Presence `json:"-"`                // Map UserId -> Presence for targeted messaging
	App            *app.Service                `json:"-"`                // Face-off app service with battle logic
	Setup          app.BattleSetup             `json:"setup"`            // Content the battle is built from
	Battle         *domain.MatchState          `json:"-"`                // Current battle (nil before the first start)
	Autopilot      *bot.Agent                  `json:"-"`                // Plays for an idle player
	Economy        ports.EconomyPort           `json:"-"`                // Interface to Nakama wallet
	RewardPaid     bool                        `json:"reward_paid"`      // Whether the current battle's reward was settled
	Balance        int64                       `json:"balance"`          // Owner's wallet gold as last seen
}

// inBattle reports whether a battle is running and waiting on the player.
func (ms *MatchState) inBattle() bool {
	return ms.Battle != nil && !ms.Battle.IsGameOver
}

func (ms *MatchState) labelState() string {
	switch {
	case ms.Battle == nil:
		return labelStateWaiting
	case ms.Battle.IsGameOver:
		return labelStateEnded
	default:
		return labelStatePlaying
	}
}

type matchHandler struct {
	catalog *content.Catalog
}

func newMatchHandler(catalog *content.Catalog) *matchHandler {
	return &matchHandler{catalog: catalog}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing battle match.")

	cfg := config.GetGameConfig()
	settings := app.SettingsFromConfig(cfg)
	strategy := cfg.BotStrategy
	var autopilotAfter int64

	// Read environment overrides
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env[envBotStrategy]; ok {
		strategy = val
	}
	if val, ok := env[envStartingPatience]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			settings.StartingPatience = i
		}
	}
	if val, ok := env[envSharedStanding]; ok {
		settings.SharedOpponentStanding = val == "true"
	}
	if val, ok := env[envAutopilotAfter]; ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil && i > 0 {
			autopilotAfter = i
		}
	}

	picker, err := bot.NewIntentionPicker(strategy)
	if err != nil {
		logger.Warn("MatchInit: %v, falling back to random intentions", err)
		picker = bot.RandomBrain{}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	state := &MatchState{
		OwnerID:        paramString(params, paramOwner),
		AutopilotAfter: autopilotAfter,
		Presences:      make(map[string]runtime.Presence),
		App: app.NewService(mh.catalog, rng, settings,
			engine.WithPicker(picker),
			engine.WithSink(NewRuntimeSink(logger)),
		),
		Setup:   setupFromParams(params, cfg),
		Economy: NewNakamaEconomyAdapter(nk),
	}

	if autopilotAfter > 0 {
		brain, err := bot.NewBrain(bot.BotLevelGood)
		if err != nil {
			logger.Error("MatchInit: Failed to create autopilot: %v", err)
		} else {
			state.Autopilot = &bot.Agent{ID: "autopilot", Name: "Autopilot", Strategy: brain}
		}
	}

	label, err := encodeJSON(labelFields(state))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // 1 tick per second, the autopilot counts idle ticks
	return state, tickRate, label
}

func paramString(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

// setupFromParams fills the battle setup from match params, defaulting each
// part to the game config.
func setupFromParams(params map[string]interface{}, cfg config.GameConfig) app.BattleSetup {
	setup := app.BattleSetup{
		Deck:               cfg.DefaultDeck,
		Judge:              cfg.DefaultJudge,
		Opponents:          cfg.DefaultOpponents,
		PlayerCoreArgument: cfg.PlayerCoreArgument,
	}
	if v := paramString(params, paramDeck); v != "" {
		setup.Deck = v
	}
	if v := paramString(params, paramJudge); v != "" {
		setup.Judge = v
	}
	if v := splitList(paramString(params, paramOpponents)); len(v) > 0 {
		setup.Opponents = v
	}
	return setup
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Battles are single player: only the owner may (re)join.
	if matchState.OwnerID != "" && presence.GetUserId() != matchState.OwnerID {
		return state, false, "Battle is private"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if matchState.OwnerID == "" {
			matchState.OwnerID = p.GetUserId()
			logger.Debug("MatchJoin: Owner set to %s.", matchState.OwnerID)
		}
		matchState.LastActionTick = tick

		if matchState.Economy != nil {
			balance, err := matchState.Economy.GetBalance(ctx, p.GetUserId())
			if err != nil {
				logger.Warn("MatchJoin: Failed to read balance for %s: %v", p.GetUserId(), err)
			} else {
				matchState.Balance = balance
			}
		}
		mh.sendSnapshot(matchState, dispatcher, logger, p)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave ends the match once its owner is gone.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if p.GetUserId() == matchState.OwnerID {
			logger.Info("MatchLeave: Owner %s left, terminating battle match.", p.GetUserId())
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.OwnerID {
			mh.sendError(matchState, dispatcher, logger, msg.GetUserId(), ErrCodeNotOwner, "only the battle owner may act")
			continue
		}

		switch msg.GetOpCode() {
		case OpStartBattle:
			mh.handleStartBattle(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpEndTurn:
			mh.handleEndTurn(ctx, matchState, dispatcher, logger, msg)
		case OpRequestState:
			if p, ok := matchState.Presences[msg.GetUserId()]; ok {
				mh.sendSnapshot(matchState, dispatcher, logger, p)
			}
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processAutopilot(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleStartBattle(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	if state.inBattle() {
		mh.sendError(state, dispatcher, logger, userID, ErrCodeBadRequest, "battle already in progress")
		return
	}

	battle, events, err := state.App.StartBattle(state.Setup)
	if err != nil {
		logger.Warn("StartBattle [User:%s]: %v", userID, err)
		mh.sendError(state, dispatcher, logger, userID, errorCode(err), err.Error())
		return
	}

	logger.Info("StartBattle [User:%s]: Battle %s against %v before %s", userID, battle.BattleID, state.Setup.Opponents, battle.Judge.Name)
	state.RewardPaid = false
	mh.apply(ctx, state, dispatcher, logger, battle, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	if state.Battle == nil {
		mh.sendError(state, dispatcher, logger, userID, ErrCodeNoBattle, "no battle started")
		return
	}

	req, err := parseRequest(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, userID, ErrCodeBadRequest, err.Error())
		return
	}
	cardID := stringField(req, "card_id")
	if cardID == "" {
		mh.sendError(state, dispatcher, logger, userID, ErrCodeBadRequest, "card_id is required")
		return
	}
	choice := app.PlayChoice{
		TargetOpponentID: stringField(req, "target"),
		Selected:         stringList(req, "selected"),
	}

	next, events, err := state.App.PlayCard(*state.Battle, cardID, choice)
	if err != nil {
		logger.Debug("PlayCard [User:%s]: Rejected %s: %v", userID, cardID, err)
		mh.sendError(state, dispatcher, logger, userID, errorCode(err), err.Error())
		return
	}
	mh.apply(ctx, state, dispatcher, logger, next, events)
}

func (mh *matchHandler) handleEndTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	if state.Battle == nil {
		mh.sendError(state, dispatcher, logger, userID, ErrCodeNoBattle, "no battle started")
		return
	}

	next, events, err := state.App.EndTurn(*state.Battle)
	if err != nil {
		mh.sendError(state, dispatcher, logger, userID, errorCode(err), err.Error())
		return
	}
	mh.apply(ctx, state, dispatcher, logger, next, events)
}

// processAutopilot plays one action for a player idle longer than AutopilotAfter.
func (mh *matchHandler) processAutopilot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Autopilot == nil || state.AutopilotAfter <= 0 || !state.inBattle() {
		return
	}
	if state.Tick-state.LastActionTick < state.AutopilotAfter {
		return
	}

	move, err := state.Autopilot.Play(*state.Battle)
	if err != nil {
		logger.Error("processAutopilot: Failed to calculate move: %v", err)
		state.LastActionTick = state.Tick
		return
	}

	var (
		next   domain.MatchState
		events []app.Event
	)
	if move.Pass {
		logger.Debug("processAutopilot: Ending turn for idle player %s", state.OwnerID)
		next, events, err = state.App.EndTurn(*state.Battle)
	} else {
		logger.Debug("processAutopilot: Playing %s for idle player %s", move.CardID, state.OwnerID)
		next, events, err = state.App.PlayCard(*state.Battle, move.CardID, app.PlayChoice{
			TargetOpponentID: move.TargetOpponentID,
			Selected:         move.Selected,
		})
	}
	if err != nil {
		logger.Error("processAutopilot: Move rejected: %v", err)
		state.LastActionTick = state.Tick
		return
	}
	mh.apply(ctx, state, dispatcher, logger, next, events)
}

// apply stores the new battle state, dispatches its events and a fresh
// snapshot, and settles the reward when the battle has just ended.
func (mh *matchHandler) apply(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, next domain.MatchState, events []app.Event) {
	state.Battle = &next
	state.LastActionTick = state.Tick

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.broadcastSnapshot(state, dispatcher, logger)

	if next.IsGameOver {
		mh.settleReward(ctx, state, logger)
		mh.updateLabel(state, dispatcher, logger)
	}
}

func (mh *matchHandler) settleReward(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.RewardPaid || state.Battle == nil || state.Battle.Winner != domain.WinnerPlayer {
		return
	}
	state.RewardPaid = true

	reward := config.GetVictoryReward()
	if state.Economy == nil || reward <= 0 {
		return
	}
	updates := []ports.WalletUpdate{{
		UserID: state.OwnerID,
		Amount: reward,
		Metadata: map[string]interface{}{
			"match_id":  ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
			"battle_id": state.Battle.BattleID,
			"reason":    "battle_victory",
		},
	}}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("Failed to pay victory reward: %v", err)
		return
	}
	state.Balance += reward
	logger.Info("Paid victory reward of %d to %s", reward, state.OwnerID)
}

func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	fields, err := eventFields(ev)
	if err != nil {
		logger.Warn("Unknown event kind: %v: %v", ev.Kind, err)
		return
	}
	bytes, err := encode(fields)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Intended recipients that are not connected must not turn into a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(OpBattleEvent, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.dispatchSnapshot(state, dispatcher, logger, nil)
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, presence runtime.Presence) {
	mh.dispatchSnapshot(state, dispatcher, logger, []runtime.Presence{presence})
}

func (mh *matchHandler) dispatchSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, recipients []runtime.Presence) {
	fields := snapshotFields(state.App.Engine(), state.Battle)
	fields["balance"] = state.Balance
	bytes, err := encode(fields)
	if err != nil {
		logger.Error("Failed to marshal battle snapshot: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpStateSnapshot, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to send battle snapshot: %v", err)
	}
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := encode(map[string]any{"code": code, "message": message})
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpBattleError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

// errorCode maps service and content errors to client error codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrGameOver):
		return ErrCodeGameOver
	case errors.Is(err, app.ErrNotPlayerTurn):
		return ErrCodeNotYourTurn
	case errors.Is(err, app.ErrCardNotInHand),
		errors.Is(err, app.ErrInsufficientPatience),
		errors.Is(err, app.ErrInsufficientFace),
		errors.Is(err, app.ErrTargetRequired),
		errors.Is(err, app.ErrUnknownOpponent),
		errors.Is(err, app.ErrSelectionRequired):
		return ErrCodeIllegalPlay
	case errors.Is(err, app.ErrNoOpponents),
		errors.Is(err, app.ErrTooManyOpponents),
		errors.Is(err, app.ErrUnknownCoreArgument),
		errors.Is(err, content.ErrUnknownCard),
		errors.Is(err, content.ErrUnknownDeck),
		errors.Is(err, content.ErrUnknownOpponent),
		errors.Is(err, content.ErrUnknownJudge):
		return ErrCodeUnknownContent
	default:
		return ErrCodeInternal
	}
}

func labelFields(state *MatchState) map[string]any {
	return map[string]any{
		"game":  "faceoff",
		"owner": state.OwnerID,
		"state": state.labelState(),
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeJSON(labelFields(state))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
