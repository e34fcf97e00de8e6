package domain

import "slices"

// Phase represents where a match sits in the turn cycle.
type Phase string

const (
	// PhasePlayerAction waits for the player to play a card or end the turn.
	PhasePlayerAction Phase = "player_action"
	// PhaseResolving is set while a card resolves.
	PhaseResolving Phase = "resolving"
	// PhaseOpponentTurn is set while opponents act at end of turn.
	PhaseOpponentTurn Phase = "opponent_turn"
	// PhaseDrawing follows the end of turn until the next turn starts.
	PhaseDrawing Phase = "drawing"
	// PhaseEnded is terminal.
	PhaseEnded Phase = "ended"
)

// Winner names the winning side of a finished match.
type Winner string

const (
	WinnerNone     Winner = ""
	WinnerPlayer   Winner = "player"
	WinnerOpponent Winner = "opponent"
)

// EndReason explains why a match ended.
type EndReason string

const (
	EndFaceDepleted      EndReason = "face_depleted"
	EndPatienceExhausted EndReason = "patience_exhausted"
)

// MatchState is the root aggregate of a battle. Engine operations take it by
// value and return a new one; Clone gives a copy sharing no mutable storage.
type MatchState struct {
	BattleID string
	Phase    Phase

	Player    Player
	Opponents []Opponent
	Judge     Judge

	// Patience is the shared countdown. It may go negative.
	Patience      int
	LastElement   *Element
	HarmonyStreak int
	Statuses      []Status

	TurnNumber int
	IsGameOver bool
	Winner     Winner
	EndReason  EndReason

	// NextID feeds AllocID.
	NextID  int
	History []CombatEvent
}

// Clone deep-copies every slice and map reachable from s. Card effect lists and
// status modifier lists are shared: they are never modified after creation.
func (s MatchState) Clone() MatchState {
	out := s
	out.Player.Hand = slices.Clone(s.Player.Hand)
	out.Player.Deck = slices.Clone(s.Player.Deck)
	out.Player.Discard = slices.Clone(s.Player.Discard)
	out.Player.Removed = slices.Clone(s.Player.Removed)

	out.Opponents = slices.Clone(s.Opponents)
	for i := range out.Opponents {
		out.Opponents[i].IntentionQueue = slices.Clone(s.Opponents[i].IntentionQueue)
		out.Opponents[i].IntentionPool = slices.Clone(s.Opponents[i].IntentionPool)
	}

	out.Judge.Actions = slices.Clone(s.Judge.Actions)
	out.Judge.Tiers = slices.Clone(s.Judge.Tiers)
	out.Judge.Effects = s.Judge.Effects.Clone()

	out.Statuses = slices.Clone(s.Statuses)
	out.History = slices.Clone(s.History)
	return out
}
