// Command faceoff-sim plays face-off battles with the autopilot, either one
// battle with its journal or a concurrent batch with a summary.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"faceoff/internal/app"
	"faceoff/internal/bot"
	"faceoff/internal/config"
	"faceoff/internal/content"
	"faceoff/internal/domain"
	"faceoff/internal/logging"
	"faceoff/internal/sim"
)

var (
	// Global flags
	verbose     bool
	contentPath string
	configPath  string
	seed        int64
	maxTurns    int
	brainName   string
	strategy    string
	judgeID     string
	opponentIDs []string

	// Batch flags
	battles int
	workers int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "faceoff-sim",
	Short:         "Simulate face-off battles with the autopilot",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one battle and print its journal",
	RunE:  runBattle,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Play many seeded battles concurrently and summarize them",
	RunE:  runBatch,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&contentPath, "content", "data/content.yaml", "Content catalog")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "data/game_config.yaml", "Game config (defaults are used if missing)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed (default: time based)")
	rootCmd.PersistentFlags().IntVar(&maxTurns, "max-turns", 100, "Abandon battles after this many turns")
	rootCmd.PersistentFlags().StringVar(&brainName, "brain", "smart", "Player autopilot: good or smart")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Opponent intention brain (default from config)")
	rootCmd.PersistentFlags().StringVar(&judgeID, "judge", "", "Judge id (default from config)")
	rootCmd.PersistentFlags().StringSliceVar(&opponentIDs, "opponent", nil, "Opponent ids (default from config)")

	batchCmd.Flags().IntVarP(&battles, "battles", "n", 100, "Number of battles")
	batchCmd.Flags().IntVar(&workers, "workers", 4, "Battles played at once")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// simConfig merges the game config and the flags into a simulation config.
func simConfig() (sim.Config, error) {
	catalog, err := content.Load(contentPath)
	if err != nil {
		return sim.Config{}, err
	}

	cfg := config.Defaults()
	if configPath != "" {
		if err := config.LoadGameConfig(configPath); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return sim.Config{}, err
			}
			logger.Warn("Game config not found, using defaults", zap.String("path", configPath))
		} else {
			cfg = config.GetGameConfig()
		}
	}

	level, err := bot.ParseBotLevel(brainName)
	if err != nil {
		return sim.Config{}, err
	}
	setup := app.BattleSetup{
		Deck:               cfg.DefaultDeck,
		Judge:              cfg.DefaultJudge,
		Opponents:          cfg.DefaultOpponents,
		PlayerCoreArgument: cfg.PlayerCoreArgument,
	}
	if judgeID != "" {
		setup.Judge = judgeID
	}
	if len(opponentIDs) > 0 {
		setup.Opponents = opponentIDs
	}
	brains := cfg.BotStrategy
	if strategy != "" {
		brains = strategy
	}

	return sim.Config{
		Catalog:  catalog,
		Settings: app.SettingsFromConfig(cfg),
		Setup:    setup,
		Level:    level,
		Strategy: brains,
		MaxTurns: maxTurns,
		Sink:     logging.NewZapSink(logger),
	}, nil
}

func baseSeed() int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func runBattle(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := simConfig()
	if err != nil {
		return err
	}
	s := baseSeed()
	logger.Info("Running battle", zap.Int64("seed", s), zap.Strings("opponents", cfg.Setup.Opponents))

	res, err := sim.RunBattle(ctx, cfg, s)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, ev := range res.State.History {
		printEvent(out, ev)
	}
	fmt.Fprintf(out, "battle %s seed=%d: ", res.BattleID, res.Seed)
	if !res.Finished {
		fmt.Fprintf(out, "abandoned after %d turns\n", res.Turns)
		return nil
	}
	fmt.Fprintf(out, "%s won (%s) on turn %d, %d cards played\n", res.Winner, res.Reason, res.Turns, res.CardsPlayed)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := simConfig()
	if err != nil {
		return err
	}
	s := baseSeed()
	logger.Info("Running batch", zap.Int64("seed", s), zap.Int("battles", battles), zap.Int("workers", workers))

	sum, err := sim.RunBatch(ctx, cfg, s, battles, workers)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "battles: %d  player wins: %d (%.1f%%)  unfinished: %d  avg turns: %.1f\n",
		sum.Battles, sum.PlayerWins, 100*sum.WinRate(), sum.Unfinished, sum.AverageTurns)
	reasons := make([]string, 0, len(sum.Reasons))
	for r := range sum.Reasons {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(out, "  %s: %d\n", r, sum.Reasons[domain.EndReason(r)])
	}
	return nil
}

func printEvent(w io.Writer, ev domain.CombatEvent) {
	line := fmt.Sprintf("[turn %2d] %-20s %s", ev.Turn, ev.Kind, ev.Actor)
	if ev.Target != "" {
		line += " -> " + ev.Target
	}
	if ev.Amount != 0 {
		line += fmt.Sprintf(" (%d)", ev.Amount)
	}
	if ev.Detail != "" {
		line += " " + ev.Detail
	}
	fmt.Fprintln(w, line)
}
