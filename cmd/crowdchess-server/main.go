package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"crowdchess/internal/platform/config"
	"crowdchess/internal/platform/db"
	"crowdchess/internal/server/game"
	httpserver "crowdchess/internal/server/http"
	"crowdchess/internal/store/memory"
	"crowdchess/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	addr := flag.String("addr", cfg.HTTPAddr, "listen address")
	dsn := flag.String("dsn", cfg.PostgresDSN, "postgres DSN; empty keeps games in memory")
	window := flag.Duration("vote-window", cfg.VoteWindow, "how long each voting round stays open")
	tick := flag.Duration("tick", cfg.SchedulerTick, "how often due rounds are checked")
	schedule := flag.Bool("scheduler", cfg.EnableScheduler, "resolve voting rounds automatically")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, *dsn, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("store close failed", "event", "store_close_failed", "error", err.Error())
		}
	}()

	manager := game.NewManager(store, game.WithLogger(logger), game.WithVoteWindow(*window))
	if err := ensureGame(ctx, manager, store); err != nil {
		log.Fatalf("start first game: %v", err)
	}

	srv := httpserver.NewServer(*addr, httpserver.NewHandler(manager, logger), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if *schedule {
		sched := game.Scheduler{Manager: manager, Tick: *tick, Logger: logger}
		g.Go(func() error { return sched.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "event", "server_stopped", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("server stopped", "event", "server_stopped")
}

// openStore picks postgres when a DSN is given and the in-memory store
// otherwise.
func openStore(ctx context.Context, dsn string, logger *slog.Logger) (game.Store, func() error, error) {
	if dsn == "" {
		logger.Warn("no postgres dsn, games are kept in memory",
			"event", "store_memory_selected",
			"module", "cmd/crowdchess-server",
			"layer", "platform",
		)
		return memory.NewStore(), func() error { return nil }, nil
	}

	pg, err := db.Connect(dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Migrate(ctx, postgres.Models()...); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}
	return postgres.NewRepository(pg.DB, logger), pg.Close, nil
}

// ensureGame starts a game when none is active, so the crowd always has one
// to vote on.
func ensureGame(ctx context.Context, manager *game.Manager, store game.Store) error {
	active, err := store.ListActiveGames(ctx)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return nil
	}
	_, err = manager.NewGame(ctx)
	return err
}
