package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"faceoff/internal/domain"
	"faceoff/internal/engine"
)

func observed(level zapcore.Level) (*ZapSink, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapSink(zap.New(core)), logs
}

func TestZapSinkLevels(t *testing.T) {
	sink, logs := observed(zapcore.DebugLevel)

	sink.Log(engine.LevelWarn, "unknown status", map[string]any{"status": "ghost", "owner": "player"})
	sink.Log(engine.LevelError, "boom", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "engine", entries[0].LoggerName)
	assert.Equal(t, map[string]any{"status": "ghost", "owner": "player"}, entries[0].ContextMap())
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestZapSinkDomainEvents(t *testing.T) {
	sink, logs := observed(zapcore.DebugLevel)

	card := domain.Card{ID: "card-1", TemplateID: "plea", Element: domain.ElementFire}
	sink.LogCardPlayed(card, domain.HarmonyBalanced, engine.CostBreakdown{Patience: 1, Face: 1})
	sink.LogAIAction(domain.Opponent{ID: "opp-1"}, domain.Intention{Name: "Scoff", Type: domain.IntentionAttack}, 4)
	sink.LogSystemEvent(domain.EventGameOver, "player won")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "balanced", entries[0].ContextMap()["harmony"])
	assert.Equal(t, int64(1), entries[0].ContextMap()["patience"])
	assert.Equal(t, "opp-1", entries[1].ContextMap()["opponent"])
	assert.Equal(t, int64(4), entries[1].ContextMap()["amount"])
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	assert.Equal(t, "player won", entries[2].ContextMap()["detail"])
}

func TestZapSinkRespectsLevel(t *testing.T) {
	sink, logs := observed(zapcore.InfoLevel)

	sink.LogCardPlayed(domain.Card{ID: "card-1"}, domain.HarmonyNeutral, engine.CostBreakdown{})
	sink.Log(engine.LevelDebug, "noise", nil)
	assert.Zero(t, logs.Len())
}

func TestNilLoggerDiscards(t *testing.T) {
	sink := NewZapSink(nil)
	sink.LogSystemEvent(domain.EventGameOver, "ignored")
}

func TestNew(t *testing.T) {
	logger, err := New(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
