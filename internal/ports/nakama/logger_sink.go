package nakama

import (
	"faceoff/internal/domain"
	"faceoff/internal/engine"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RuntimeSink forwards engine observations to the Nakama runtime logger.
type RuntimeSink struct {
	logger runtime.Logger
}

var _ engine.Sink = (*RuntimeSink)(nil)

func NewRuntimeSink(logger runtime.Logger) *RuntimeSink {
	return &RuntimeSink{logger: logger}
}

func (s *RuntimeSink) Log(level engine.Level, msg string, fields map[string]any) {
	logger := s.logger
	if len(fields) > 0 {
		logger = logger.WithFields(fields)
	}
	switch level {
	case engine.LevelDebug:
		logger.Debug("%s", msg)
	case engine.LevelInfo:
		logger.Info("%s", msg)
	case engine.LevelWarn:
		logger.Warn("%s", msg)
	default:
		logger.Error("%s", msg)
	}
}

func (s *RuntimeSink) LogCardPlayed(card domain.Card, harmony domain.Harmony, cost engine.CostBreakdown) {
	s.logger.Debug("Card played: %s (%s, %s) patience=%d face=%d", card.ID, card.Element, harmony, cost.Patience, cost.Face)
}

func (s *RuntimeSink) LogAIAction(opponent domain.Opponent, intention domain.Intention, amount int) {
	s.logger.Debug("Opponent %s acted: %s (%s) amount=%d", opponent.ID, intention.Name, intention.Type, amount)
}

func (s *RuntimeSink) LogSystemEvent(kind domain.EventKind, detail string) {
	s.logger.Info("Battle event %s: %s", kind, detail)
}
