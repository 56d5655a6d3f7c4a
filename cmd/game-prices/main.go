package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gc.dev/game-prices/pkg/config"
	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/metrics"
	"gc.dev/game-prices/pkg/pricing"
	"gc.dev/game-prices/pkg/pricing/cache"
	"gc.dev/game-prices/pkg/pricing/currency"
	"gc.dev/game-prices/pkg/server/api"
	"gc.dev/game-prices/pkg/store"
	"gc.dev/game-prices/pkg/version"
)

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer    = flag.Bool("version", false, "Show version and exit")
	refresh    = flag.Bool("refresh", false, "Refresh all stored game prices and exit")
	gameID     = flag.Int64("game", 0, "With -refresh, refresh only this game id")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("game-prices version %s\n", version.Version)
		os.Exit(0)
	}

	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting game-prices", "version", version.Version)

	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			logger.Info("Starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metrics.ServeHTTP(cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
				logger.Error("Metrics server failed", "error", err.Error())
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	games, err := store.New(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open game store", "error", err.Error())
	}
	defer games.Close()

	resultCache, err := buildCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", "error", err.Error())
	}

	conv := currency.NewConverter(nil)
	entries := pricing.DefaultEntries(cfg.Pricing, conv, logger)
	manager := pricing.NewManager(entries, resultCache, pricing.Options{
		SourceTimeout:      cfg.Pricing.SourceTimeout.ToDuration(),
		AggregationTimeout: cfg.Pricing.AggregationTimeout.ToDuration(),
	}, logger)

	logger.Info("Price sources configured", "sources", len(entries))

	if *refresh {
		if err := refreshGames(ctx, cfg, manager, games, logger); err != nil {
			logger.Fatal("Refresh failed", "error", err.Error())
		}
		return
	}

	server := api.NewServer(cfg.Server.HTTP.Addr, manager, games,
		cfg.Server.RequestTimeout.ToDuration(), logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errChan:
		if err != nil {
			logger.Error("HTTP server failed", "error", err.Error())
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err.Error())
	}
	logger.Info("Shutdown complete")
}

// buildCache creates the configured result cache backend.
func buildCache(ctx context.Context, cfg *config.Config, logger *logging.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		return cache.NewRedis(ctx, cache.RedisOptions{
			Addr:      cfg.Cache.Redis.Addr,
			Password:  cfg.Cache.Redis.Password,
			DB:        cfg.Cache.Redis.DB,
			KeyPrefix: cfg.Cache.Redis.KeyPrefix,
			TTL:       cfg.Cache.TTL.ToDuration(),
		}, logger)
	default:
		return cache.NewMemory(cfg.Cache.TTL.ToDuration()), nil
	}
}

// refreshGames walks the stored collection and re-prices every game,
// pausing between games so the scraper-backed sources are not hammered.
// One game failing never stops the walk.
func refreshGames(ctx context.Context, cfg *config.Config, manager *pricing.Manager, games *store.Store, logger *logging.Logger) error {
	var list []store.Game
	if *gameID != 0 {
		game, err := games.GetGame(ctx, *gameID)
		if err != nil {
			return err
		}
		list = []store.Game{*game}
	} else {
		var err error
		list, err = games.ListGames(ctx)
		if err != nil {
			return err
		}
	}

	logger.Info("Refreshing game prices", "games", len(list))

	updated := 0
	for i, game := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			time.Sleep(cfg.Refresh.Sleep.ToDuration())
		}

		update, err := manager.UpdateGamePrice(ctx, pricing.GameIdentity{
			Title:        game.Title,
			PlatformName: game.PlatformName,
			PlatformSlug: game.PlatformSlug,
			SteamAppID:   game.SteamAppID,
		})
		if err != nil {
			logger.Error("Failed to refresh game", "id", game.ID, "title", game.Title, "error", err.Error())
			continue
		}
		if update == nil {
			logger.Warn("No price found", "id", game.ID, "title", game.Title)
			continue
		}

		if err := games.SaveGamePrice(ctx, game.ID, update.Price, update.Source, update.Quotes); err != nil {
			logger.Error("Failed to persist price", "id", game.ID, "error", err.Error())
			continue
		}
		if update.DiscoveredSteamAppID != "" {
			if err := games.SetSteamAppID(ctx, game.ID, update.DiscoveredSteamAppID); err != nil {
				logger.Warn("Failed to persist steam app id", "id", game.ID, "error", err.Error())
			} else {
				logger.Info("Discovered steam app id", "id", game.ID, "appid", update.DiscoveredSteamAppID)
			}
		}

		metrics.RecordPriceUpdate(update.Source)
		updated++
		logger.Info("Game price updated",
			"id", game.ID,
			"title", game.Title,
			"price", update.Price.String(),
			"source", update.Source)
	}

	logger.Info("Refresh complete", "games", len(list), "updated", updated)
	return nil
}
