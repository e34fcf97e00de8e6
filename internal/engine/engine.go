package engine

import (
	"math/rand"
	"time"

	"faceoff/internal/domain"
)

// Rules are the tunable constants of the combat loop.
type Rules struct {
	// HarmonyStreakThreshold caps the balanced-play streak; reaching it is "flow".
	HarmonyStreakThreshold int
	// SharedOpponentStanding pools all opponent standing on the first opponent.
	SharedOpponentStanding bool
	// FlusteredPool replaces an opponent's current intention when it is flustered.
	FlusteredPool []domain.Intention
	// MaxHandSize bounds the default drawer. Zero means unbounded.
	MaxHandSize int
}

// DefaultRules returns the rules used when none are supplied.
func DefaultRules() Rules {
	return Rules{
		HarmonyStreakThreshold: 3,
		FlusteredPool:          domain.DefaultFlusteredPool,
		MaxHandSize:            10,
	}
}

// StatusRegistry looks up status templates by id.
type StatusRegistry interface {
	StatusTemplate(id string) (domain.StatusTemplate, bool)
}

// IntentionPicker chooses an intention from an opponent's pool once its queue is empty.
type IntentionPicker interface {
	PickIntention(o domain.Opponent, rng *rand.Rand) domain.Intention
}

// DrawFunc moves up to count cards into the player's hand. It receives the
// engine's private working copy and may modify it.
type DrawFunc func(s domain.MatchState, count int) domain.MatchState

type emptyRegistry struct{}

func (emptyRegistry) StatusTemplate(string) (domain.StatusTemplate, bool) {
	return domain.StatusTemplate{}, false
}

type uniformPicker struct{}

func (uniformPicker) PickIntention(o domain.Opponent, rng *rand.Rand) domain.Intention {
	if len(o.IntentionPool) == 0 {
		return domain.Intention{}
	}
	return o.IntentionPool[rng.Intn(len(o.IntentionPool))]
}

// Engine resolves combat. Every operation takes a MatchState by value and
// returns the next one; the input is never modified.
type Engine struct {
	rules    Rules
	registry StatusRegistry
	picker   IntentionPicker
	sink     Sink
	rng      *rand.Rand
	draw     DrawFunc
}

// Option configures an Engine.
type Option func(*Engine)

func WithRules(r Rules) Option { return func(e *Engine) { e.rules = r } }

func WithRegistry(r StatusRegistry) Option { return func(e *Engine) { e.registry = r } }

func WithPicker(p IntentionPicker) Option { return func(e *Engine) { e.picker = p } }

func WithSink(s Sink) Option { return func(e *Engine) { e.sink = s } }

// WithRand sets the random source for intention picks, flustered picks, judge
// draws, random card targets and reshuffles. Inject a seeded source for replay.
func WithRand(rng *rand.Rand) Option { return func(e *Engine) { e.rng = rng } }

// New constructs an Engine. Without WithRand it uses a time-seeded source.
func New(opts ...Option) *Engine {
	e := &Engine{
		rules:    DefaultRules(),
		registry: emptyRegistry{},
		picker:   uniformPicker{},
		sink:     NopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.registry == nil {
		e.registry = emptyRegistry{}
	}
	if e.picker == nil {
		e.picker = uniformPicker{}
	}
	if e.sink == nil {
		e.sink = NopSink{}
	}
	if len(e.rules.FlusteredPool) == 0 {
		e.rules.FlusteredPool = domain.DefaultFlusteredPool
	}
	e.draw = DeckDrawer(e.rng, e.rules.MaxHandSize)
	return e
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules { return e.rules }

// resolution is the mutable working copy threaded through one engine call.
type resolution struct {
	e    *Engine
	s    domain.MatchState
	draw DrawFunc
}

func (e *Engine) begin(state domain.MatchState, draw DrawFunc) *resolution {
	if draw == nil {
		draw = e.draw
	}
	return &resolution{e: e, s: state.Clone(), draw: draw}
}

func (r *resolution) over() bool { return r.s.IsGameOver }

func (r *resolution) record(kind domain.EventKind, actor, target string, amount int, detail string) {
	r.s.History = append(r.s.History, domain.CombatEvent{
		ID:     r.s.AllocID("event"),
		Turn:   r.s.TurnNumber,
		Kind:   kind,
		Actor:  actor,
		Target: target,
		Amount: amount,
		Detail: detail,
	})
}

func (r *resolution) warn(msg string, fields map[string]any) {
	r.e.sink.Log(LevelWarn, msg, fields)
}

// ProcessTurn plays card for the player. The caller is expected to have checked
// IsCardPlayable and gathered any targets into ctx. A nil draw uses the
// engine's deck drawer.
func (e *Engine) ProcessTurn(state domain.MatchState, card domain.Card, ctx EffectContext, draw DrawFunc) domain.MatchState {
	if state.IsGameOver {
		return state
	}
	r := e.begin(state, draw)
	r.s.Phase = domain.PhaseResolving

	cost := CalculateCost(r.s, card)
	r.payCardCost(cost)

	// The played card is out of the hand and the deck cycle until its own
	// effects and triggers are done.
	hand, played, inHand := domain.TakeCard(r.s.Player.Hand, card.ID)
	if inHand {
		r.s.Player.Hand = hand
	}
	r.record(domain.EventCardPlayed, string(domain.OwnerPlayer), ctx.TargetOpponentID, cost.Patience, string(cost.Harmony))
	e.sink.LogCardPlayed(card, cost.Harmony, cost)

	ctx.Actor = domain.OwnerPlayer
	ctx.SourceCardID = card.ID
	mult := cost.Harmony.EffectMultiplier()
	ctx = r.preselect(card.Effects, ctx, mult)
	r.resolveEffects(card.Effects, ctx, mult)

	el := card.Element
	r.processTrigger(domain.TriggerCardPlayed, &el)
	if inHand {
		r.s.Player.Discard = append(r.s.Player.Discard, played)
	}

	r.s.LastElement = domain.ElementPtr(card.Element)
	r.s.HarmonyStreak = domain.NextHarmonyStreak(r.s.HarmonyStreak, cost.Harmony, e.rules.HarmonyStreakThreshold)

	r.checkFlustered()
	r.checkVictory()
	if !r.over() {
		r.s.Phase = domain.PhasePlayerAction
	}
	return r.s
}

// ProcessEndTurn closes the player's turn: the end-turn cost is paid, opponents
// act in roster order, the judge is checked, turn_end statuses fire, durations
// tick and poise resets.
func (e *Engine) ProcessEndTurn(state domain.MatchState) domain.MatchState {
	if state.IsGameOver {
		return state
	}
	r := e.begin(state, nil)
	r.s.Phase = domain.PhaseOpponentTurn

	paid := r.payEndTurnCost()
	r.opponentsAct(paid)
	if r.over() {
		return r.s
	}

	r.checkJudge()
	r.processTrigger(domain.TriggerTurnEnd, nil)
	r.tickStatuses()

	r.s.Player.Poise = 0
	for i := range r.s.Opponents {
		r.s.Opponents[i].Poise = 0
	}
	r.record(domain.EventTurnEnded, string(domain.OwnerPlayer), "", r.s.TurnNumber, "")
	r.s.TurnNumber++

	r.checkFlustered()
	r.checkVictory()
	if !r.over() {
		r.s.Phase = domain.PhaseDrawing
	}
	return r.s
}

// ProcessStartTurn fires turn_start statuses and hands control back to the player.
func (e *Engine) ProcessStartTurn(state domain.MatchState) domain.MatchState {
	if state.IsGameOver {
		return state
	}
	r := e.begin(state, nil)
	r.record(domain.EventTurnStarted, string(domain.OwnerPlayer), "", r.s.TurnNumber, "")
	r.processTrigger(domain.TriggerTurnStart, nil)

	r.checkFlustered()
	r.checkVictory()
	if !r.over() {
		r.s.Phase = domain.PhasePlayerAction
	}
	return r.s
}

// DrawCards draws count cards with draw, or the engine's drawer when draw is nil.
func (e *Engine) DrawCards(state domain.MatchState, count int, draw DrawFunc) domain.MatchState {
	if state.IsGameOver || count <= 0 {
		return state
	}
	r := e.begin(state, draw)
	r.drawCards(count)
	return r.s
}

// ResolveEffects runs effects against state outside of a card play.
func (e *Engine) ResolveEffects(state domain.MatchState, effects []domain.EffectDef, ctx EffectContext, multiplier int) domain.MatchState {
	if state.IsGameOver {
		return state
	}
	r := e.begin(state, nil)
	r.resolveEffects(effects, ctx, multiplier)
	r.checkFlustered()
	r.checkVictory()
	return r.s
}

func (r *resolution) payCardCost(cost CostBreakdown) {
	r.s.Patience -= cost.Patience
	if cost.Patience != 0 {
		r.record(domain.EventPatienceSpent, string(domain.OwnerPlayer), "", cost.Patience, "card")
	}
	r.s.Player.Combatant, _ = r.s.Player.Absorb(cost.Face)
}

func (r *resolution) checkVictory() {
	res := domain.EvaluateVictory(r.s)
	if !res.IsOver || r.s.IsGameOver {
		return
	}
	r.s.IsGameOver = true
	r.s.Winner = res.Winner
	r.s.EndReason = res.Reason
	r.s.Phase = domain.PhaseEnded
	r.record(domain.EventGameOver, string(res.Winner), "", 0, string(res.Reason))
	r.e.sink.LogSystemEvent(domain.EventGameOver, string(res.Winner)+": "+string(res.Reason))
}

// checkPlayerDefeat ends the match as soon as the player's face is gone.
// Patience is only judged once the whole end of turn has resolved.
func (r *resolution) checkPlayerDefeat() {
	if r.s.Player.Face > 0 {
		return
	}
	r.checkVictory()
}
