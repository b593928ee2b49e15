package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/mendeleev-duel/server/internal/admin"
	"github.com/mendeleev-duel/server/internal/config"
	"github.com/mendeleev-duel/server/internal/game"
	"github.com/mendeleev-duel/server/internal/httpapi"
	"github.com/mendeleev-duel/server/internal/loop"
	"github.com/mendeleev-duel/server/internal/statstore"
)

func main() {
	cfg := config.Load()

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder statstore.Recorder = statstore.Nop{}
	if cfg.DatabaseURL != "" {
		pg, err := statstore.OpenPostgres(cfg.DatabaseURL, log)
		if err != nil {
			log.Warn("match results disabled", zap.Error(err))
		} else {
			recorder = pg
		}
	}

	feed := admin.NewFeed(log)
	l := loop.New(ctx, log, game.Options{
		Log:      log,
		Recorder: recorder,
		Observer: feed,
		Timing: game.Timing{
			PreparingDelay:     cfg.PreparingDelay,
			CelebrationWait:    cfg.CelebrationWait,
			DestructionWait:    cfg.DestructionWait,
			AbandonedRetention: cfg.AbandonedRetention,
		},
	})
	l.StartSweeper(cfg.CleaningInterval)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpapi.SetupRoutes(l, feed, log),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
	log.Info("server stopped")
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
