package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"memlsm/internal/http"
	"memlsm/pkg/listener"
	"memlsm/pkg/store"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "memlsm: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := initConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := initLogger(&cfg)

	db, err := store.Open(cfg.DB.Path,
		store.WithFreezeThreshold(cfg.DB.Memtable.FreezeThresholdBytes),
		store.WithEventsBuffer(cfg.DB.Memtable.EventsBuffer),
		store.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	// Nothing persists frozen memtables yet; the listener only reports them.
	freezes := listener.New("freeze", db.FreezeEvents(),
		func(_ context.Context, ev store.FreezeEvent) error {
			logger.Warn("frozen memtable awaiting flush",
				"generation", ev.Generation,
				"keys", ev.Keys,
				"bytes", ev.Bytes,
			)
			return nil
		},
		logger,
	)

	server := http.NewServer(db, cfg.Server, logger)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return freezes.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return server.Stop()
	})
	g.Go(func() error {
		select {
		case <-server.Failed():
			return server.Err()
		case <-gctx.Done():
			return nil
		}
	})

	slog.Info("memlsm started", "location", db.Location(), "addr", server.URL)

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("memlsm stopped")
	return nil
}
