package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"faceoff/internal/app"
	"faceoff/internal/bot"
	"faceoff/internal/content"
	"faceoff/internal/domain"
	"faceoff/internal/engine"
)

// maxPlaysPerTurn stops a brain that keeps choosing free cards.
const maxPlaysPerTurn = 30

// Config describes the battles to simulate.
type Config struct {
	Catalog  *content.Catalog
	Settings app.Settings
	Setup    app.BattleSetup
	// Level picks the autopilot for the player's side.
	Level bot.BotLevel
	// Strategy names the opponents' intention brain.
	Strategy string
	// MaxTurns abandons a battle that has not ended. Zero means 100.
	MaxTurns int
	// Sink receives engine logs. It is shared by concurrent battles.
	Sink engine.Sink
}

// Result is the outcome of one simulated battle.
type Result struct {
	Seed        int64
	BattleID    string
	Winner      domain.Winner
	Reason      domain.EndReason
	Turns       int
	CardsPlayed int
	Finished    bool
	State       domain.MatchState
}

// RunBattle plays one battle with the autopilot until it ends or MaxTurns
// pass. The same seed always produces the same battle.
func RunBattle(ctx context.Context, cfg Config, seed int64) (Result, error) {
	if cfg.Catalog == nil {
		return Result{}, errors.New("sim: no content catalog")
	}
	brain, err := bot.NewBrain(cfg.Level)
	if err != nil {
		return Result{}, err
	}
	picker, err := bot.NewIntentionPicker(cfg.Strategy)
	if err != nil {
		return Result{}, err
	}
	opts := []engine.Option{engine.WithPicker(picker)}
	if cfg.Sink != nil {
		opts = append(opts, engine.WithSink(cfg.Sink))
	}
	svc := app.NewService(cfg.Catalog, rand.New(rand.NewSource(seed)), cfg.Settings, opts...)
	agent := &bot.Agent{ID: "autopilot", Name: "Autopilot", Strategy: brain}

	state, _, err := svc.StartBattle(cfg.Setup)
	if err != nil {
		return Result{}, fmt.Errorf("failed to start battle: %w", err)
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 100
	}
	res := Result{Seed: seed, BattleID: state.BattleID}

	for !state.IsGameOver && state.TurnNumber <= maxTurns {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		for range maxPlaysPerTurn {
			move, err := agent.Play(state)
			if err != nil || move.Pass {
				break
			}
			next, _, err := svc.PlayCard(state, move.CardID, app.PlayChoice{
				TargetOpponentID: move.TargetOpponentID,
				Selected:         move.Selected,
			})
			if err != nil {
				break
			}
			state = next
			res.CardsPlayed++
			if state.IsGameOver {
				break
			}
		}
		if state.IsGameOver {
			break
		}
		state, _, err = svc.EndTurn(state)
		if err != nil {
			return Result{}, fmt.Errorf("failed to end turn %d: %w", state.TurnNumber, err)
		}
	}

	res.Winner = state.Winner
	res.Reason = state.EndReason
	res.Turns = state.TurnNumber
	res.Finished = state.IsGameOver
	res.State = state
	return res, nil
}

// Summary aggregates a batch.
type Summary struct {
	Battles      int
	PlayerWins   int
	Unfinished   int
	AverageTurns float64
	Reasons      map[domain.EndReason]int
	Results      []Result
}

// WinRate is the share of battles the player won.
func (s Summary) WinRate() float64 {
	if s.Battles == 0 {
		return 0
	}
	return float64(s.PlayerWins) / float64(s.Battles)
}

// Summarize folds results in order.
func Summarize(results []Result) Summary {
	sum := Summary{Battles: len(results), Reasons: map[domain.EndReason]int{}, Results: results}
	turns := 0
	for _, r := range results {
		turns += r.Turns
		if !r.Finished {
			sum.Unfinished++
			continue
		}
		if r.Winner == domain.WinnerPlayer {
			sum.PlayerWins++
		}
		sum.Reasons[r.Reason]++
	}
	if len(results) > 0 {
		sum.AverageTurns = float64(turns) / float64(len(results))
	}
	return sum
}

// RunBatch plays n battles seeded firstSeed, firstSeed+1, ... with at most
// workers running at once. The first failure cancels the rest.
func RunBatch(ctx context.Context, cfg Config, firstSeed int64, n, workers int) (Summary, error) {
	if n <= 0 {
		return Summarize(nil), nil
	}
	results := make([]Result, n)

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range n {
		g.Go(func() error {
			r, err := RunBattle(gctx, cfg, firstSeed+int64(i))
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return Summarize(results), nil
}
