package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmaples/ninja-fight-backend/internal/arena"
	"github.com/dmaples/ninja-fight-backend/internal/config"
	"github.com/dmaples/ninja-fight-backend/internal/engine"
	"github.com/dmaples/ninja-fight-backend/internal/httpapi"
	"github.com/dmaples/ninja-fight-backend/internal/hub"
	"github.com/dmaples/ninja-fight-backend/internal/ninjafight"
	"github.com/dmaples/ninja-fight-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arenas, err := arena.Load()
	if err != nil {
		logger.Fatal("load arenas", zap.Error(err))
	}

	api := &httpapi.API{
		Modes:    engine.NewRegistry(ninjafight.Mode{}),
		Arenas:   arenas,
		Deadline: cfg.MatchDeadline,
		Logger:   logger,
	}

	if cfg.DatabaseURL != "" {
		st, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open store", zap.Error(err))
		}
		api.Results = st
		api.Recorder = st
	} else {
		logger.Warn("DATABASE_URL not set, match results will not be persisted")
	}

	api.Hub = hub.NewHub(ctx, logger)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(api),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		api.Hub.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
