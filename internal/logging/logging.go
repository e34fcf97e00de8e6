package logging

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"faceoff/internal/domain"
	"faceoff/internal/engine"
)

// New builds the production logger, at debug level when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ZapSink forwards engine observations to a zap logger.
type ZapSink struct {
	logger *zap.Logger
}

var _ engine.Sink = (*ZapSink)(nil)

// NewZapSink wraps logger. A nil logger discards everything.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.Named("engine")}
}

func (s *ZapSink) Log(level engine.Level, msg string, fields map[string]any) {
	zf := toFields(fields)
	switch level {
	case engine.LevelDebug:
		s.logger.Debug(msg, zf...)
	case engine.LevelInfo:
		s.logger.Info(msg, zf...)
	case engine.LevelWarn:
		s.logger.Warn(msg, zf...)
	default:
		s.logger.Error(msg, zf...)
	}
}

func (s *ZapSink) LogCardPlayed(card domain.Card, harmony domain.Harmony, cost engine.CostBreakdown) {
	s.logger.Debug("Card played",
		zap.String("card", card.ID),
		zap.String("template", card.TemplateID),
		zap.String("element", string(card.Element)),
		zap.String("harmony", string(harmony)),
		zap.Int("patience", cost.Patience),
		zap.Int("face", cost.Face),
		zap.Int("judge_tax", cost.JudgeTax))
}

func (s *ZapSink) LogAIAction(opponent domain.Opponent, intention domain.Intention, amount int) {
	s.logger.Debug("Opponent acted",
		zap.String("opponent", opponent.ID),
		zap.String("intention", intention.Name),
		zap.String("type", string(intention.Type)),
		zap.Int("amount", amount))
}

func (s *ZapSink) LogSystemEvent(kind domain.EventKind, detail string) {
	s.logger.Info("System event", zap.String("kind", string(kind)), zap.String("detail", detail))
}

// toFields converts in key order so log lines are stable.
func toFields(fields map[string]any) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
