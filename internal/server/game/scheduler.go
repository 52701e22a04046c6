package game

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Scheduler closes voting rounds whose window has elapsed and replaces
// finished games with fresh ones.
type Scheduler struct {
	Manager *Manager
	Tick    time.Duration
	Logger  *slog.Logger
}

// Run calls RunOnce every Tick until ctx is done.
func (s Scheduler) Run(ctx context.Context) error {
	logger := ResolveLogger(s.Logger)
	tick := s.Tick
	if tick <= 0 {
		tick = time.Second
	}
	logger.Info("vote scheduler started",
		"event", "scheduler_started",
		"module", logModule,
		"layer", "worker",
		"tick", tick.String(),
	)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("vote scheduler stopped",
				"event", "scheduler_stopped",
				"module", logModule,
				"layer", "worker",
			)
			return nil
		case now := <-ticker.C:
			if _, err := s.RunOnce(ctx, now); err != nil && ctx.Err() == nil {
				logger.Warn("vote scheduler cycle had failures",
					"event", "scheduler_cycle_failed",
					"module", logModule,
					"layer", "worker",
					"error", err.Error(),
				)
			}
		}
	}
}

// RunOnce resolves every active game due at now. Failures of one game do not
// stop the others; they are joined into the returned error.
func (s Scheduler) RunOnce(ctx context.Context, now time.Time) ([]RoundResult, error) {
	logger := ResolveLogger(s.Logger)
	games, err := s.Manager.store.ListActiveGames(ctx)
	if err != nil {
		logger.Error("vote scheduler list failed",
			"event", "scheduler_list_failed",
			"module", logModule,
			"layer", "worker",
			"error", err.Error(),
		)
		return nil, err
	}

	var (
		results []RoundResult
		errs    []error
	)
	for _, g := range games {
		if !g.RoundDue(now) {
			continue
		}
		res, err := s.Manager.ResolveRound(ctx, g.ID)
		if err != nil {
			logger.Error("vote round failed",
				"event", "scheduler_round_failed",
				"module", logModule,
				"layer", "worker",
				"game_id", g.ID,
				"error", err.Error(),
			)
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
		if !res.Outcome.Status.Terminal() {
			continue
		}

		next, err := s.Manager.NewGame(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Info("finished game replaced",
			"event", "scheduler_game_reset",
			"module", logModule,
			"layer", "worker",
			"game_id", g.ID,
			"next_game_id", next.ID,
			"outcome", res.Outcome.String(),
		)
	}
	return results, errors.Join(errs...)
}
