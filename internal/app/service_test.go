package app

import (
	"errors"
	"math/rand"
	"testing"

	"faceoff/internal/content"
	"faceoff/internal/domain"
)

const testContent = `
cards:
  - { id: talk, element: wood, patience_cost: 1, effects: [ { type: gain_standing, amount: 3 } ] }
  - { id: jab, element: fire, patience_cost: 1, target: opponent, effects: [ { type: deal_shame, amount: 2 } ] }
  - { id: sift, element: water, patience_cost: 1, target: hand_cards, select: 1, effects: [ { type: burn_card, count: 1 } ] }
  - { id: speech, element: earth, patience_cost: 9 }
  - { id: bluster, element: metal, face_cost: 5 }
decks:
  starter:
    - { card: talk, count: 4 }
    - { card: jab, count: 2 }
    - { card: sift, count: 2 }
    - { card: speech, count: 2 }
core_arguments:
  - { id: grit, name: Grit, passive: { poise_per_turn: 2 } }
opponents:
  - id: heckler
    name: Heckler
    max_face: 8
    intentions:
      - { name: Jeer, type: attack, value: 1 }
judges:
  - id: clerk
    name: The Clerk
    patience_threshold: 50
    end_turn_patience_cost: 2
    tiers:
      - { tier: 0, favor_required: 10 }
      - { tier: 1, favor_required: 0 }
`

var testSettings = Settings{
	StartingPatience: 12,
	StartingHandSize: 5,
	MaxHandSize:      10,
	PlayerMaxFace:    20,
}

var testSetup = BattleSetup{Judge: "clerk", Opponents: []string{"heckler"}}

func newTestService(t *testing.T, seed int64) (*Service, *content.Catalog) {
	t.Helper()
	catalog, err := content.Parse([]byte(testContent))
	if err != nil {
		t.Fatalf("parse content: %v", err)
	}
	return NewService(catalog, rand.New(rand.NewSource(seed)), testSettings), catalog
}

// startWithHand starts a battle and replaces the opening hand with the given
// templates, assigning instance ids h1, h2, ...
func startWithHand(t *testing.T, svc *Service, catalog *content.Catalog, templates ...string) domain.MatchState {
	t.Helper()
	state, _, err := svc.StartBattle(testSetup)
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}
	state.Player.Hand = nil
	for i, id := range templates {
		card, ok := catalog.Card(id)
		if !ok {
			t.Fatalf("unknown card %s", id)
		}
		card.ID = "h" + string(rune('1'+i))
		state.Player.Hand = append(state.Player.Hand, card)
	}
	return state
}

func kinds(events []Event) map[EventKind]int {
	out := map[EventKind]int{}
	for _, ev := range events {
		out[ev.Kind]++
	}
	return out
}

func TestStartBattleDealsOpeningHand(t *testing.T) {
	svc, _ := newTestService(t, 42)

	state, evs, err := svc.StartBattle(testSetup)
	if err != nil {
		t.Fatalf("start battle error: %v", err)
	}
	if state.Phase != domain.PhasePlayerAction {
		t.Fatalf("phase = %s, want player_action", state.Phase)
	}
	if len(state.Player.Hand) != 5 || len(state.Player.Deck) != 5 {
		t.Fatalf("hand/deck = %d/%d, want 5/5", len(state.Player.Hand), len(state.Player.Deck))
	}
	seen := map[string]bool{}
	for _, c := range append(state.Player.Hand, state.Player.Deck...) {
		if c.ID == "" || seen[c.ID] {
			t.Fatalf("card instance id %q is empty or duplicated", c.ID)
		}
		seen[c.ID] = true
	}
	if len(state.Opponents) != 1 || state.Opponents[0].CurrentIntention.Name != "Jeer" {
		t.Fatalf("opponent not seated: %+v", state.Opponents)
	}
	if state.Judge.Name != "The Clerk" || state.Patience != 12 || state.TurnNumber != 1 {
		t.Fatalf("unexpected opening state: judge=%q patience=%d turn=%d", state.Judge.Name, state.Patience, state.TurnNumber)
	}

	got := kinds(evs)
	if got[EventBattleStarted] != 1 || got[EventHandUpdated] != 1 {
		t.Fatalf("events = %v, want battle_started and hand_updated", got)
	}
	started := evs[0].Payload.(BattleStartedPayload)
	if started.BattleID != state.BattleID || len(started.OpponentIDs) != 1 {
		t.Fatalf("battle started payload = %+v", started)
	}
}

func TestStartBattleIsDeterministicPerSeed(t *testing.T) {
	a, _ := newTestService(t, 7)
	b, _ := newTestService(t, 7)

	sa, _, _ := a.StartBattle(testSetup)
	sb, _, _ := b.StartBattle(testSetup)
	if sa.BattleID != sb.BattleID {
		t.Fatalf("battle ids differ: %s vs %s", sa.BattleID, sb.BattleID)
	}
	for i := range sa.Player.Hand {
		if sa.Player.Hand[i].ID != sb.Player.Hand[i].ID {
			t.Fatalf("hands differ at %d", i)
		}
	}
}

func TestStartBattleAppliesPlayerCoreArgument(t *testing.T) {
	svc, _ := newTestService(t, 1)
	setup := testSetup
	setup.PlayerCoreArgument = "grit"

	state, _, err := svc.StartBattle(setup)
	if err != nil {
		t.Fatalf("start battle error: %v", err)
	}
	// poise_per_turn fires on the opening turn_start.
	if state.Player.Poise != 2 {
		t.Fatalf("poise = %d, want 2", state.Player.Poise)
	}
}

func TestStartBattleRejectsBadSetups(t *testing.T) {
	svc, _ := newTestService(t, 1)
	tests := []struct {
		name  string
		setup BattleSetup
		want  error
	}{
		{"no opponents", BattleSetup{Judge: "clerk"}, ErrNoOpponents},
		{"too many", BattleSetup{Judge: "clerk", Opponents: []string{"heckler", "heckler", "heckler", "heckler"}}, ErrTooManyOpponents},
		{"unknown judge", BattleSetup{Judge: "nobody", Opponents: []string{"heckler"}}, content.ErrUnknownJudge},
		{"unknown opponent", BattleSetup{Judge: "clerk", Opponents: []string{"ghost"}}, content.ErrUnknownOpponent},
		{"unknown deck", BattleSetup{Deck: "empty", Judge: "clerk", Opponents: []string{"heckler"}}, content.ErrUnknownDeck},
		{"unknown argument", BattleSetup{Judge: "clerk", Opponents: []string{"heckler"}, PlayerCoreArgument: "wit"}, ErrUnknownCoreArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.StartBattle(tt.setup)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlayCardValidation(t *testing.T) {
	svc, catalog := newTestService(t, 3)
	base := startWithHand(t, svc, catalog, "talk", "jab", "sift", "bluster")
	opp := base.Opponents[0].ID

	tests := []struct {
		name   string
		mutate func(*domain.MatchState)
		card   string
		choice PlayChoice
		want   error
	}{
		{"game over", func(s *domain.MatchState) { s.IsGameOver = true }, "h1", PlayChoice{}, ErrGameOver},
		{"wrong phase", func(s *domain.MatchState) { s.Phase = domain.PhaseDrawing }, "h1", PlayChoice{}, ErrNotPlayerTurn},
		{"not in hand", nil, "zz", PlayChoice{}, ErrCardNotInHand},
		{"no patience", func(s *domain.MatchState) { s.Patience = 0 }, "h1", PlayChoice{}, ErrInsufficientPatience},
		{"no face", func(s *domain.MatchState) { s.Player.Face = 5 }, "h4", PlayChoice{}, ErrInsufficientFace},
		{"missing target", nil, "h2", PlayChoice{}, ErrTargetRequired},
		{"unknown target", nil, "h2", PlayChoice{TargetOpponentID: "ghost"}, ErrUnknownOpponent},
		{"missing selection", nil, "h3", PlayChoice{}, ErrSelectionRequired},
		{"selects itself", nil, "h3", PlayChoice{Selected: []string{"h3"}}, ErrSelectionRequired},
		{"selects outside hand", nil, "h3", PlayChoice{Selected: []string{"zz"}}, ErrSelectionRequired},
		{"valid target", nil, "h2", PlayChoice{TargetOpponentID: opp}, nil},
		{"valid selection", nil, "h3", PlayChoice{Selected: []string{"h1"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := base.Clone()
			if tt.mutate != nil {
				tt.mutate(&state)
			}
			_, _, err := svc.PlayCard(state, tt.card, tt.choice)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlayCardResolves(t *testing.T) {
	svc, catalog := newTestService(t, 5)
	state := startWithHand(t, svc, catalog, "talk", "sift", "jab")

	next, evs, err := svc.PlayCard(state, "h2", PlayChoice{Selected: []string{"h3"}})
	if err != nil {
		t.Fatalf("play card error: %v", err)
	}
	if len(next.Player.Hand) != 1 || next.Player.Hand[0].ID != "h1" {
		t.Fatalf("hand = %+v, want only h1", next.Player.Hand)
	}
	if len(next.Player.Removed) != 1 || next.Player.Removed[0].ID != "h3" {
		t.Fatalf("removed = %+v, want h3", next.Player.Removed)
	}
	if next.Patience != 11 {
		t.Fatalf("patience = %d, want 11", next.Patience)
	}
	got := kinds(evs)
	if got[EventKind(domain.EventCardPlayed)] != 1 || got[EventKind(domain.EventCardsBurned)] != 1 || got[EventHandUpdated] != 1 {
		t.Fatalf("events = %v", got)
	}

	// water -> wood is balanced: one patience cheaper.
	next, _, err = svc.PlayCard(next, "h1", PlayChoice{})
	if err != nil {
		t.Fatalf("play card error: %v", err)
	}
	if next.Player.Standing.FavorInCurrentTier != 3 || next.Patience != 11 {
		t.Fatalf("standing=%+v patience=%d", next.Player.Standing, next.Patience)
	}
}

func TestEndTurnRefillsHandAndOpensNextTurn(t *testing.T) {
	svc, catalog := newTestService(t, 9)
	state := startWithHand(t, svc, catalog, "talk")

	next, evs, err := svc.EndTurn(state)
	if err != nil {
		t.Fatalf("end turn error: %v", err)
	}
	if next.TurnNumber != 2 || next.Phase != domain.PhasePlayerAction {
		t.Fatalf("turn=%d phase=%s", next.TurnNumber, next.Phase)
	}
	if len(next.Player.Hand) != 5 {
		t.Fatalf("hand size = %d, want 5", len(next.Player.Hand))
	}
	if next.Player.Face != 19 || next.Patience != 10 {
		t.Fatalf("face=%d patience=%d, want 19/10", next.Player.Face, next.Patience)
	}
	got := kinds(evs)
	if got[EventKind(domain.EventOpponentActed)] != 1 || got[EventKind(domain.EventTurnStarted)] != 1 {
		t.Fatalf("events = %v", got)
	}
}

func TestBattleRunsToCompletion(t *testing.T) {
	svc, _ := newTestService(t, 11)
	state, _, err := svc.StartBattle(testSetup)
	if err != nil {
		t.Fatalf("start battle error: %v", err)
	}

	var evs []Event
	for turn := 0; turn < 20 && !state.IsGameOver; turn++ {
		state, evs, err = svc.EndTurn(state)
		if err != nil {
			t.Fatalf("end turn error: %v", err)
		}
	}
	if !state.IsGameOver {
		t.Fatal("battle never ended")
	}
	if state.Winner != domain.WinnerOpponent || state.EndReason != domain.EndPatienceExhausted {
		t.Fatalf("winner=%s reason=%s", state.Winner, state.EndReason)
	}
	if kinds(evs)[EventBattleEnded] != 1 {
		t.Fatalf("expected battle ended event, got %v", kinds(evs))
	}
	if _, _, err := svc.EndTurn(state); !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want ErrGameOver", err)
	}
}
