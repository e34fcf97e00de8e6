package app

// MaxOpponentsPerBattle caps the roster a battle can be started with.
// Keep this centralized so tests or local runs can adjust the rule without touching multiple call sites.
const MaxOpponentsPerBattle = 3

// DefaultBattleDeck is used when a setup names no deck.
const DefaultBattleDeck = "starter"
