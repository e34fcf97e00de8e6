package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args,
		"--content", "../../data/content.yaml",
		"--config", "../../data/game_config.yaml",
		"--seed", "21",
	))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRunPrintsJournal(t *testing.T) {
	out := execute(t, "run", "--brain", "good", "--strategy", "cycle")

	assert.Contains(t, out, "card_played")
	assert.Contains(t, out, "turn_ended")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[len(lines)-1], "seed=21")
}

func TestBatchPrintsSummary(t *testing.T) {
	out := execute(t, "batch", "-n", "6", "--workers", "2", "--opponent", "scholar_lin")

	assert.Contains(t, out, "battles: 6")
	assert.Contains(t, out, "avg turns")
}
