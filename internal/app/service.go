package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"faceoff/internal/config"
	"faceoff/internal/content"
	"faceoff/internal/domain"
	"faceoff/internal/engine"
)

// Settings size a battle. See SettingsFromConfig.
type Settings struct {
	StartingPatience       int
	StartingHandSize       int
	MaxHandSize            int
	PlayerMaxFace          int
	HarmonyStreakThreshold int
	SharedOpponentStanding bool
}

// SettingsFromConfig copies the battle tunables out of the game config.
func SettingsFromConfig(c config.GameConfig) Settings {
	return Settings{
		StartingPatience:       c.StartingPatience,
		StartingHandSize:       c.StartingHandSize,
		MaxHandSize:            c.MaxHandSize,
		PlayerMaxFace:          c.PlayerMaxFace,
		HarmonyStreakThreshold: c.HarmonyStreakThreshold,
		SharedOpponentStanding: c.SharedOpponentStanding,
	}
}

// Service contains battle use-cases operating on domain state.
type Service struct {
	catalog  *content.Catalog
	rng      *rand.Rand
	engine   *engine.Engine
	settings Settings
}

// NewService constructs a Service with provided rng or a time-seeded default.
// opts are applied after the service's own engine options, so a sink or
// intention picker can be supplied here.
func NewService(catalog *content.Catalog, rng *rand.Rand, settings Settings, opts ...engine.Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rules := engine.DefaultRules()
	if settings.HarmonyStreakThreshold > 0 {
		rules.HarmonyStreakThreshold = settings.HarmonyStreakThreshold
	}
	rules.SharedOpponentStanding = settings.SharedOpponentStanding
	rules.FlusteredPool = catalog.FlusteredPool()
	rules.MaxHandSize = settings.MaxHandSize

	base := []engine.Option{
		engine.WithRand(rng),
		engine.WithRegistry(catalog),
		engine.WithRules(rules),
	}
	return &Service{
		catalog:  catalog,
		rng:      rng,
		engine:   engine.New(append(base, opts...)...),
		settings: settings,
	}
}

// Engine exposes the engine for read-only queries such as IsCardPlayable.
func (s *Service) Engine() *engine.Engine { return s.engine }

var (
	ErrGameOver             = errors.New("battle is over")
	ErrNotPlayerTurn        = errors.New("not waiting for a player action")
	ErrCardNotInHand        = errors.New("card not in hand")
	ErrInsufficientPatience = errors.New("not enough patience")
	ErrInsufficientFace     = errors.New("not enough face")
	ErrTargetRequired       = errors.New("card requires an opponent target")
	ErrUnknownOpponent      = errors.New("opponent not found")
	ErrSelectionRequired    = errors.New("card requires hand cards to be selected")
	ErrNoOpponents          = errors.New("battle needs at least one opponent")
	ErrTooManyOpponents     = errors.New("too many opponents")
	ErrUnknownCoreArgument  = errors.New("unknown core argument")
)

// BattleSetup names the content a battle is built from.
type BattleSetup struct {
	Deck               string
	Judge              string
	Opponents          []string
	PlayerCoreArgument string
}

// PlayChoice carries the player's choices for a card.
type PlayChoice struct {
	TargetOpponentID string
	Selected         []string
}

// StartBattle builds a new battle from setup, deals the opening hand and
// opens turn 1.
func (s *Service) StartBattle(setup BattleSetup) (domain.MatchState, []Event, error) {
	if len(setup.Opponents) == 0 {
		return domain.MatchState{}, nil, ErrNoOpponents
	}
	if len(setup.Opponents) > MaxOpponentsPerBattle {
		return domain.MatchState{}, nil, fmt.Errorf("%w: %d", ErrTooManyOpponents, len(setup.Opponents))
	}

	judge, err := s.catalog.Judge(setup.Judge)
	if err != nil {
		return domain.MatchState{}, nil, err
	}
	deckName := setup.Deck
	if deckName == "" {
		deckName = DefaultBattleDeck
	}
	cards, err := s.catalog.Deck(deckName)
	if err != nil {
		return domain.MatchState{}, nil, err
	}
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return domain.MatchState{}, nil, fmt.Errorf("failed to generate battle id: %w", err)
	}

	maxFace := max(s.settings.PlayerMaxFace, 1)
	state := domain.MatchState{
		BattleID:   id.String(),
		Phase:      domain.PhaseDrawing,
		Patience:   s.settings.StartingPatience,
		TurnNumber: 1,
		Player: domain.Player{
			Combatant: domain.Combatant{Face: maxFace, MaxFace: maxFace},
		},
	}
	for i := range cards {
		cards[i].ID = state.AllocID("card")
	}
	state.Player.Deck = domain.ShuffleCards(cards, s.rng)

	state = s.engine.SeatJudge(state, judge)
	for _, oppID := range setup.Opponents {
		tmpl, err := s.catalog.Opponent(oppID)
		if err != nil {
			return domain.MatchState{}, nil, err
		}
		state = s.engine.SeatOpponent(state, tmpl)
	}
	if setup.PlayerCoreArgument != "" {
		arg, ok := s.catalog.CoreArgument(setup.PlayerCoreArgument)
		if !ok {
			return domain.MatchState{}, nil, fmt.Errorf("%w: %s", ErrUnknownCoreArgument, setup.PlayerCoreArgument)
		}
		state = s.engine.ApplyCoreArgument(state, domain.OwnerPlayer, arg)
	}

	opened := s.engine.DrawCards(state, s.settings.StartingHandSize, nil)
	opened = s.engine.ProcessStartTurn(opened)

	opponentIDs := make([]string, 0, len(opened.Opponents))
	for _, o := range opened.Opponents {
		opponentIDs = append(opponentIDs, o.ID)
	}
	events := []Event{{
		Kind: EventBattleStarted,
		Payload: BattleStartedPayload{
			BattleID:    opened.BattleID,
			JudgeName:   opened.Judge.Name,
			OpponentIDs: opponentIDs,
		},
	}}
	events = append(events, eventsSince(state, opened)...)
	return opened, events, nil
}

// PlayCard checks that the player may play cardID with choice and resolves it.
func (s *Service) PlayCard(state domain.MatchState, cardID string, choice PlayChoice) (domain.MatchState, []Event, error) {
	if err := checkActionable(state); err != nil {
		return state, nil, err
	}
	i := domain.FindCard(state.Player.Hand, cardID)
	if i < 0 {
		return state, nil, fmt.Errorf("%w: %s", ErrCardNotInHand, cardID)
	}
	card := state.Player.Hand[i]

	cost := engine.CalculateCost(state, card)
	if state.Patience < cost.Patience {
		return state, nil, ErrInsufficientPatience
	}
	if cost.Face > 0 && state.Player.Face+state.Player.Poise <= cost.Face {
		return state, nil, ErrInsufficientFace
	}
	if err := checkChoice(state, card, choice); err != nil {
		return state, nil, err
	}

	ctx := engine.EffectContext{
		TargetOpponentID: choice.TargetOpponentID,
		SelectedCards:    choice.Selected,
	}
	next := s.engine.ProcessTurn(state, card, ctx, nil)
	return next, eventsSince(state, next), nil
}

// EndTurn lets the opponents and the judge act, refills the hand and opens
// the next turn.
func (s *Service) EndTurn(state domain.MatchState) (domain.MatchState, []Event, error) {
	if err := checkActionable(state); err != nil {
		return state, nil, err
	}

	next := s.engine.ProcessEndTurn(state)
	if !next.IsGameOver {
		if need := s.settings.StartingHandSize - len(next.Player.Hand); need > 0 {
			next = s.engine.DrawCards(next, need, nil)
		}
		next = s.engine.ProcessStartTurn(next)
	}
	return next, eventsSince(state, next), nil
}

func checkActionable(state domain.MatchState) error {
	if state.IsGameOver {
		return ErrGameOver
	}
	if state.Phase != domain.PhasePlayerAction {
		return ErrNotPlayerTurn
	}
	return nil
}

func checkChoice(state domain.MatchState, card domain.Card, choice PlayChoice) error {
	if choice.TargetOpponentID != "" && state.OpponentIndex(choice.TargetOpponentID) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownOpponent, choice.TargetOpponentID)
	}

	switch card.TargetRequirement {
	case domain.TargetsOpponent:
		if choice.TargetOpponentID == "" {
			return ErrTargetRequired
		}
	case domain.TargetsHand:
		// A short hand can only supply what it has left.
		want := min(card.SelectCount, len(state.Player.Hand)-1)
		if want <= 0 || len(choice.Selected) != want {
			return fmt.Errorf("%w: want %d", ErrSelectionRequired, max(want, 1))
		}
		seen := make(map[string]bool, len(choice.Selected))
		for _, id := range choice.Selected {
			if id == card.ID || seen[id] || domain.FindCard(state.Player.Hand, id) < 0 {
				return fmt.Errorf("%w: %s", ErrSelectionRequired, id)
			}
			seen[id] = true
		}
	}
	return nil
}
