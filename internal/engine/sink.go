package engine

import "faceoff/internal/domain"

// Level is the severity of a sink message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Sink receives structured observations from the engine. Implementations must
// not call back into the engine.
type Sink interface {
	Log(level Level, msg string, fields map[string]any)
	LogCardPlayed(card domain.Card, harmony domain.Harmony, cost CostBreakdown)
	LogAIAction(opponent domain.Opponent, intention domain.Intention, amount int)
	LogSystemEvent(kind domain.EventKind, detail string)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Log(Level, string, map[string]any) {}
func (NopSink) LogCardPlayed(domain.Card, domain.Harmony, CostBreakdown) {}
func (NopSink) LogAIAction(domain.Opponent, domain.Intention, int) {}
func (NopSink) LogSystemEvent(domain.EventKind, string) {}
