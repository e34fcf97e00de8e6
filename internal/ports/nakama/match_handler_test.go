package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"faceoff/internal/app"
	"faceoff/internal/config"
	"faceoff/internal/content"
	"faceoff/internal/domain"
	"faceoff/internal/engine"
	"faceoff/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent      []sentMessage
	lastLabel string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{opCode: opCode, data: append([]byte(nil), data...), recipients: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.lastLabel = label
	return nil
}

// last returns the payload of the most recent message with opCode.
func (md *mockDispatcher) last(t *testing.T, opCode int64) *structpb.Struct {
	t.Helper()
	for i := len(md.sent) - 1; i >= 0; i-- {
		if md.sent[i].opCode != opCode {
			continue
		}
		msg := &structpb.Struct{}
		if err := proto.Unmarshal(md.sent[i].data, msg); err != nil {
			t.Fatalf("Failed to unmarshal payload: %v", err)
		}
		return msg
	}
	t.Fatalf("No message with opcode %d was sent", opCode)
	return nil
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, m := range md.sent {
		if m.opCode == opCode {
			n++
		}
	}
	return n
}

type mockEconomy struct {
	balance int64
	updates []ports.WalletUpdate
	err     error
}

func (me *mockEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	return me.balance, nil
}

func (me *mockEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	me.updates = append(me.updates, updates...)
	return me.err
}

// testPresence implements runtime.Presence.
type testPresence struct {
	userID string
}

func (p testPresence) GetHidden() bool                   { return false }
func (p testPresence) GetPersistence() bool              { return false }
func (p testPresence) GetUsername() string               { return p.userID }
func (p testPresence) GetStatus() string                 { return "" }
func (p testPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p testPresence) GetUserId() string                 { return p.userID }
func (p testPresence) GetSessionId() string              { return "session-" + p.userID }
func (p testPresence) GetNodeId() string                 { return "node" }

// testMessage implements runtime.MatchData.
type testMessage struct {
	testPresence
	opCode int64
	data   []byte
}

func (m testMessage) GetOpCode() int64      { return m.opCode }
func (m testMessage) GetData() []byte       { return m.data }
func (m testMessage) GetReliable() bool     { return true }
func (m testMessage) GetReceiveTime() int64 { return 0 }

// fakeNakama overrides the NakamaModule calls the adapter makes. Anything
// else panics on the nil embedded interface.
type fakeNakama struct {
	runtime.NakamaModule
	createdModule string
	createdParams map[string]interface{}
	wallet        string
	walletChanges map[string]int64
	walletMeta    map[string]interface{}
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.createdModule = module
	f.createdParams = params
	return "match-1.node", nil
}

func (f *fakeNakama) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	return &api.Account{Wallet: f.wallet}, nil
}

func (f *fakeNakama) WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error) {
	f.walletChanges = changeset
	f.walletMeta = metadata
	return nil, changeset, nil
}

func loadCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	catalog, err := content.Load("../../../data/content.yaml")
	if err != nil {
		t.Fatalf("Failed to load content: %v", err)
	}
	return catalog
}

var battleParams = map[string]interface{}{
	paramOwner:     "user-1",
	paramJudge:     "elder_judge",
	paramOpponents: "magistrate_wen",
}

// newTestMatch initializes a match and joins its owner.
func newTestMatch(t *testing.T, ctx context.Context) (*matchHandler, *MatchState, *mockDispatcher) {
	t.Helper()
	handler := newMatchHandler(loadCatalog(t))
	raw, tickRate, label := handler.MatchInit(ctx, noopLogger{}, nil, nil, battleParams)
	if raw == nil || tickRate != 1 || label == "" {
		t.Fatalf("MatchInit failed: state=%v tickRate=%d label=%q", raw, tickRate, label)
	}
	state := raw.(*MatchState)
	state.Economy = &mockEconomy{balance: 1200}

	dispatcher := &mockDispatcher{}
	handler.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.Presence{testPresence{userID: "user-1"}})
	return handler, state, dispatcher
}

func send(ctx context.Context, handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, tick int64, msgs ...runtime.MatchData) {
	handler.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, tick, state, msgs)
}

func ownerMessage(opCode int64, data string) runtime.MatchData {
	return testMessage{testPresence: testPresence{userID: "user-1"}, opCode: opCode, data: []byte(data)}
}

func TestMatchInit_ReadsParams(t *testing.T) {
	handler := newMatchHandler(loadCatalog(t))
	params := map[string]interface{}{
		paramOwner:     "user-1",
		paramJudge:     "elder_judge",
		paramDeck:      "starter",
		paramOpponents: "magistrate_wen, scholar_lin",
	}
	raw, _, label := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, params)
	state := raw.(*MatchState)

	if state.OwnerID != "user-1" {
		t.Fatalf("OwnerID = %q, want user-1", state.OwnerID)
	}
	if got := state.Setup.Opponents; len(got) != 2 || got[0] != "magistrate_wen" || got[1] != "scholar_lin" {
		t.Fatalf("Opponents = %v", got)
	}
	if state.Autopilot != nil {
		t.Fatalf("Autopilot should be off without the env override")
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(label), &decoded); err != nil {
		t.Fatalf("Failed to decode label %q: %v", label, err)
	}
	want := map[string]string{"game": "faceoff", "owner": "user-1", "state": labelStateWaiting}
	for k, v := range want {
		if decoded[k] != v {
			t.Errorf("label[%s] = %q, want %q", k, decoded[k], v)
		}
	}
}

func TestMatchJoinAttempt_OwnerOnly(t *testing.T) {
	handler := &matchHandler{}
	state := &MatchState{OwnerID: "user-1", Presences: make(map[string]runtime.Presence)}

	tests := []struct {
		name   string
		userID string
		want   bool
	}{
		{name: "Owner", userID: "user-1", want: true},
		{name: "Stranger", userID: "user-2", want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, ok, _ := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 0, state, testPresence{userID: test.userID}, nil)
			if ok != test.want {
				t.Fatalf("MatchJoinAttempt(%s) = %t, want %t", test.userID, ok, test.want)
			}
		})
	}
}

func TestMatchLeave_OwnerTerminates(t *testing.T) {
	handler := &matchHandler{}
	state := &MatchState{OwnerID: "user-1", Presences: map[string]runtime.Presence{"user-1": testPresence{userID: "user-1"}}}

	if got := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, nil, 0, state, []runtime.Presence{testPresence{userID: "user-1"}}); got != nil {
		t.Fatalf("expected nil state after the owner left, got %v", got)
	}
}

func TestMatchLoop_BattleFlow(t *testing.T) {
	ctx := context.Background()
	handler, state, dispatcher := newTestMatch(t, ctx)

	joined := dispatcher.last(t, OpStateSnapshot)
	if joined.GetFields()["started"].GetBoolValue() {
		t.Fatalf("snapshot before start should not be started")
	}
	if got := joined.GetFields()["balance"].GetNumberValue(); got != 1200 {
		t.Fatalf("snapshot balance = %v, want 1200", got)
	}

	send(ctx, handler, state, dispatcher, 2, ownerMessage(OpStartBattle, ""))
	if state.Battle == nil || state.Battle.Phase != domain.PhasePlayerAction {
		t.Fatalf("expected a battle waiting on the player, got %+v", state.Battle)
	}
	if dispatcher.count(OpBattleEvent) == 0 {
		t.Fatalf("expected battle events to be broadcast")
	}

	snap := dispatcher.last(t, OpStateSnapshot)
	hand := snap.GetFields()["player"].GetStructValue().GetFields()["hand"].GetListValue().GetValues()
	if len(hand) != len(state.Battle.Player.Hand) || len(hand) == 0 {
		t.Fatalf("snapshot hand has %d cards, state has %d", len(hand), len(state.Battle.Player.Hand))
	}
	if got := snap.GetFields()["patience"].GetNumberValue(); int(got) != state.Battle.Patience {
		t.Fatalf("snapshot patience = %v, want %d", got, state.Battle.Patience)
	}

	// A second start while the battle runs is refused.
	send(ctx, handler, state, dispatcher, 3, ownerMessage(OpStartBattle, ""))
	if code := dispatcher.last(t, OpBattleError).GetFields()["code"].GetNumberValue(); int(code) != ErrCodeBadRequest {
		t.Fatalf("error code = %v, want %d", code, ErrCodeBadRequest)
	}

	send(ctx, handler, state, dispatcher, 4, ownerMessage(OpPlayCard, `{"card_id":"nope"}`))
	if code := dispatcher.last(t, OpBattleError).GetFields()["code"].GetNumberValue(); int(code) != ErrCodeIllegalPlay {
		t.Fatalf("error code = %v, want %d", code, ErrCodeIllegalPlay)
	}

	send(ctx, handler, state, dispatcher, 5, ownerMessage(OpPlayCard, `{"card_id":`))
	if code := dispatcher.last(t, OpBattleError).GetFields()["code"].GetNumberValue(); int(code) != ErrCodeBadRequest {
		t.Fatalf("error code = %v, want %d", code, ErrCodeBadRequest)
	}

	send(ctx, handler, state, dispatcher, 6, ownerMessage(OpEndTurn, ""))
	if state.Battle.TurnNumber != 2 {
		t.Fatalf("TurnNumber = %d after ending turn 1, want 2", state.Battle.TurnNumber)
	}
	if state.LastActionTick != 6 {
		t.Fatalf("LastActionTick = %d, want 6", state.LastActionTick)
	}
}

func TestMatchLoop_PlayCardResolves(t *testing.T) {
	ctx := context.Background()
	handler, state, dispatcher := newTestMatch(t, ctx)
	send(ctx, handler, state, dispatcher, 2, ownerMessage(OpStartBattle, ""))

	var card domain.Card
	for _, c := range state.Battle.Player.Hand {
		if c.TargetRequirement == domain.TargetNone && engine.IsCardPlayable(*state.Battle, c) {
			card = c
			break
		}
	}
	if card.ID == "" {
		t.Skip("opening hand has no playable untargeted card")
	}
	before := state.Battle.Patience

	send(ctx, handler, state, dispatcher, 3, ownerMessage(OpPlayCard, fmt.Sprintf(`{"card_id":%q}`, card.ID)))
	if domain.FindCard(state.Battle.Player.Hand, card.ID) >= 0 {
		t.Fatalf("card %s should have left the hand", card.ID)
	}
	if state.Battle.Patience >= before && card.PatienceCost > 0 {
		t.Fatalf("patience did not drop: %d -> %d", before, state.Battle.Patience)
	}
}

func TestMatchLoop_IgnoresStrangers(t *testing.T) {
	ctx := context.Background()
	handler, state, dispatcher := newTestMatch(t, ctx)

	stranger := testMessage{testPresence: testPresence{userID: "user-2"}, opCode: OpStartBattle}
	send(ctx, handler, state, dispatcher, 2, stranger)
	if state.Battle != nil {
		t.Fatalf("a stranger must not start the battle")
	}
}

func TestMatchLoop_AutopilotActsForIdlePlayer(t *testing.T) {
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{
		envAutopilotAfter: "3",
		envBotStrategy:    "cycle",
	})
	handler, state, dispatcher := newTestMatch(t, ctx)
	if state.Autopilot == nil || state.AutopilotAfter != 3 {
		t.Fatalf("expected autopilot after 3 ticks, got %+v", state.Autopilot)
	}

	send(ctx, handler, state, dispatcher, 2, ownerMessage(OpStartBattle, ""))
	journal := len(state.Battle.History)

	send(ctx, handler, state, dispatcher, 4)
	if len(state.Battle.History) != journal {
		t.Fatalf("autopilot acted before the idle window elapsed")
	}

	send(ctx, handler, state, dispatcher, 5)
	if len(state.Battle.History) <= journal {
		t.Fatalf("autopilot did not act for the idle player")
	}
	if state.LastActionTick != 5 {
		t.Fatalf("LastActionTick = %d, want 5", state.LastActionTick)
	}
}

func TestSettleReward_PaysOncePerVictory(t *testing.T) {
	economy := &mockEconomy{}
	state := &MatchState{
		OwnerID: "user-1",
		Battle:  &domain.MatchState{BattleID: "b-1", IsGameOver: true, Winner: domain.WinnerPlayer},
		Economy: economy,
	}
	handler := &matchHandler{}

	handler.settleReward(context.Background(), state, noopLogger{})
	handler.settleReward(context.Background(), state, noopLogger{})

	if len(economy.updates) != 1 {
		t.Fatalf("expected 1 wallet update, got %d", len(economy.updates))
	}
	if state.Balance != config.GetVictoryReward() {
		t.Fatalf("Balance = %d, want %d", state.Balance, config.GetVictoryReward())
	}
	update := economy.updates[0]
	if update.UserID != "user-1" || update.Amount != config.GetVictoryReward() {
		t.Fatalf("unexpected update %+v", update)
	}
	if update.Metadata["battle_id"] != "b-1" || update.Metadata["reason"] != "battle_victory" {
		t.Fatalf("unexpected metadata %+v", update.Metadata)
	}

	lost := &MatchState{
		OwnerID: "user-1",
		Battle:  &domain.MatchState{IsGameOver: true, Winner: domain.WinnerOpponent},
		Economy: economy,
	}
	handler.settleReward(context.Background(), lost, noopLogger{})
	if len(economy.updates) != 1 {
		t.Fatalf("a loss must not pay out")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{app.ErrGameOver, ErrCodeGameOver},
		{app.ErrNotPlayerTurn, ErrCodeNotYourTurn},
		{fmt.Errorf("%w: c1", app.ErrCardNotInHand), ErrCodeIllegalPlay},
		{app.ErrSelectionRequired, ErrCodeIllegalPlay},
		{fmt.Errorf("%w: x", content.ErrUnknownJudge), ErrCodeUnknownContent},
		{app.ErrTooManyOpponents, ErrCodeUnknownContent},
		{errors.New("boom"), ErrCodeInternal},
	}
	for _, test := range tests {
		if got := errorCode(test.err); got != test.want {
			t.Errorf("errorCode(%v) = %d, want %d", test.err, got, test.want)
		}
	}
}

func TestRpcCreateBattle(t *testing.T) {
	nk := &fakeNakama{}
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user-1")

	resp, err := RpcCreateBattleFunc(ctx, noopLogger{}, nil, nk, `{"judge":"elder_judge","opponents":["magistrate_wen","scholar_lin"]}`)
	if err != nil {
		t.Fatalf("RpcCreateBattle failed: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal([]byte(resp), &decoded); err != nil || decoded["match_id"] != "match-1.node" {
		t.Fatalf("unexpected response %q: %v", resp, err)
	}
	if nk.createdModule != MatchNameFaceoff {
		t.Fatalf("created module %q, want %q", nk.createdModule, MatchNameFaceoff)
	}
	if nk.createdParams[paramOwner] != "user-1" || nk.createdParams[paramOpponents] != "magistrate_wen,scholar_lin" {
		t.Fatalf("unexpected params %+v", nk.createdParams)
	}

	if _, err := RpcCreateBattleFunc(context.Background(), noopLogger{}, nil, nk, ""); err == nil {
		t.Fatalf("expected an error without a user id")
	}
	if _, err := RpcCreateBattleFunc(ctx, noopLogger{}, nil, nk, "{not json"); err == nil {
		t.Fatalf("expected an error for a malformed payload")
	}
}

func TestEconomyAdapter(t *testing.T) {
	nk := &fakeNakama{wallet: `{"gold":250}`}
	adapter := NewNakamaEconomyAdapter(nk)

	balance, err := adapter.GetBalance(context.Background(), "user-1")
	if err != nil || balance != 250 {
		t.Fatalf("GetBalance = %d, %v; want 250", balance, err)
	}

	err = adapter.UpdateBalances(context.Background(), []ports.WalletUpdate{
		{UserID: "user-1", Amount: 0},
		{UserID: "user-1", Amount: 150, Metadata: map[string]interface{}{"reason": "battle_victory"}},
	})
	if err != nil {
		t.Fatalf("UpdateBalances failed: %v", err)
	}
	if nk.walletChanges[ports.RewardCurrency] != 150 || nk.walletMeta["reason"] != "battle_victory" {
		t.Fatalf("unexpected wallet update %v %v", nk.walletChanges, nk.walletMeta)
	}
}
