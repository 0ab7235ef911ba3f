package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bryan-buckman/studiofront/internal/config"
	"github.com/bryan-buckman/studiofront/internal/content"
	"github.com/bryan-buckman/studiofront/internal/database"
	"github.com/bryan-buckman/studiofront/internal/model"
	"github.com/bryan-buckman/studiofront/internal/server"
	"github.com/bryan-buckman/studiofront/internal/showcase"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var cache database.Store
	opts := content.Options{
		BaseURL:           cfg.APIBaseURL,
		PressFeedURL:      cfg.PressFeedURL,
		RequestsPerSecond: cfg.RequestsPerSecond,
		CacheTTL:          cfg.Cache.TTL,
	}
	if cfg.Cache.Driver != config.DriverNone {
		cache, err = database.Open(cfg.Cache.Driver, cfg.Cache.DSN)
		if err != nil {
			return err
		}
		defer cache.Close()
		opts.Cache = cache
		slog.Info("cache opened", "database", cache.DatabaseType())
	}

	client, err := content.NewClient(opts)
	if err != nil {
		return err
	}

	display := showcase.New(nil, cfg.Showcase.Interval)
	refresher := content.NewRefresher(client, cfg.RefreshInterval)
	refresher.OnPass(func(ctx context.Context) {
		display.Load(ctx, func(ctx context.Context) ([]model.Project, error) {
			return client.Projects(ctx, "")
		})
	})

	srv, err := server.New(server.Options{
		Config:    cfg,
		Client:    client,
		Cache:     cache,
		Refresher: refresher,
		Showcase:  display,
	})
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.Addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		srv.Stop(context.Background())
		return err
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(ctx)
}
