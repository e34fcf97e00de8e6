package domain

// EventKind identifies an entry in the combat journal.
type EventKind string

const (
	EventCardPlayed        EventKind = "card_played"
	EventStandingChanged   EventKind = "standing_changed"
	EventShameDealt        EventKind = "shame_dealt"
	EventOpponentActed     EventKind = "opponent_acted"
	EventOpponentCharging  EventKind = "opponent_charging"
	EventOpponentFlustered EventKind = "opponent_flustered"
	EventIntentionRevealed EventKind = "intention_revealed"
	EventDecreeIssued      EventKind = "decree_issued"
	EventStatusAdded       EventKind = "status_added"
	EventStatusRemoved     EventKind = "status_removed"
	EventStatusTriggered   EventKind = "status_triggered"
	EventCardsDrawn        EventKind = "cards_drawn"
	EventCardsBurned       EventKind = "cards_burned"
	EventCardsDiscarded    EventKind = "cards_discarded"
	EventPatienceSpent     EventKind = "patience_spent"
	EventTurnEnded         EventKind = "turn_ended"
	EventTurnStarted       EventKind = "turn_started"
	EventGameOver          EventKind = "game_over"
)

// CombatEvent is one journal entry. Actor and Target are "player" or an opponent id.
type CombatEvent struct {
	ID     string
	Turn   int
	Kind   EventKind
	Actor  string
	Target string
	Amount int
	Detail string
}
