package app

import "faceoff/internal/domain"

// EventKind identifies emitted battle events for Nakama dispatch. Journal
// entries keep their domain kind; the rest are app-level.
type EventKind string

const (
	EventBattleStarted EventKind = "battle_started"
	EventHandUpdated   EventKind = "hand_updated"
	EventBattleEnded   EventKind = "battle_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type BattleStartedPayload struct {
	BattleID    string
	JudgeName   string
	OpponentIDs []string
}

type HandUpdatedPayload struct {
	Hand      []domain.Card
	DeckSize  int
	Discarded int
}

type BattleEndedPayload struct {
	Winner domain.Winner
	Reason domain.EndReason
	Turns  int
}

// eventsSince maps the journal entries next added on top of prev, then
// reports hand changes and the end of the battle.
func eventsSince(prev, next domain.MatchState) []Event {
	var events []Event
	if n := len(prev.History); n <= len(next.History) {
		for _, ce := range next.History[n:] {
			events = append(events, Event{Kind: EventKind(ce.Kind), Payload: ce})
		}
	}

	if !sameCards(prev.Player.Hand, next.Player.Hand) {
		events = append(events, handEvent(next))
	}

	if next.IsGameOver && !prev.IsGameOver {
		events = append(events, Event{
			Kind: EventBattleEnded,
			Payload: BattleEndedPayload{
				Winner: next.Winner,
				Reason: next.EndReason,
				Turns:  next.TurnNumber,
			},
		})
	}
	return events
}

func handEvent(s domain.MatchState) Event {
	return Event{
		Kind: EventHandUpdated,
		Payload: HandUpdatedPayload{
			Hand:      s.Player.Hand,
			DeckSize:  len(s.Player.Deck),
			Discarded: len(s.Player.Discard),
		},
	}
}

func sameCards(a, b []domain.Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
