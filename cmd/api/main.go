package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/multichain-swap/internal/ai"
	"github.com/aman-zulfiqar/multichain-swap/internal/assets"
	"github.com/aman-zulfiqar/multichain-swap/internal/cache"
	"github.com/aman-zulfiqar/multichain-swap/internal/chains"
	"github.com/aman-zulfiqar/multichain-swap/internal/config"
	"github.com/aman-zulfiqar/multichain-swap/internal/evm"
	"github.com/aman-zulfiqar/multichain-swap/internal/fees"
	"github.com/aman-zulfiqar/multichain-swap/internal/flags"
	"github.com/aman-zulfiqar/multichain-swap/internal/jupiter"
	"github.com/aman-zulfiqar/multichain-swap/internal/ledger"
	"github.com/aman-zulfiqar/multichain-swap/internal/quote"
	"github.com/aman-zulfiqar/multichain-swap/internal/server"
	"github.com/aman-zulfiqar/multichain-swap/internal/storage"
	"github.com/aman-zulfiqar/multichain-swap/internal/zerox"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main wires the directories, fee engine, quote aggregator and ledger behind
// the HTTP API. Redis, ClickHouse and the AI agent are optional.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Directories and fee engine
	chainDir := chains.Default(chains.WithRPCOverrides(cfg.RPCOverrides))
	assetDir := assets.NewDirectory(assets.DefaultSeed(), assets.Config{
		Discoverer: evm.NewTokenInspector(evm.DialEthclient, logger),
		Logger:     logger,
	})
	feeEngine := fees.Default()

	// Redis: ledger snapshots, swap pub/sub and pricing flags
	var (
		rclient   *redis.Client
		flagStore *flags.Store
		snapshots storage.SnapshotStore
		publisher storage.SwapPublisher
	)
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisClient(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to Redis")
		}
		rclient = c
		defer func() {
			_ = rclient.Close()
		}()

		flagStore, err = flags.NewStore(rclient, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to create flags store")
		}
		snapshots = cache.NewRedisSnapshotStore(rclient, cfg.LedgerSnapshotKey, logger)
		publisher = cache.NewPubSubManager(rclient, logger)
	} else {
		logger.Info("REDIS_ADDR not set; flags, snapshots and pub/sub disabled")
	}

	// ClickHouse swap archive
	var archive storage.SwapArchive
	if cfg.ClickHouseAddr != "" {
		ch, err := cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to ClickHouse")
		}
		if err := ch.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Fatal("failed to create swap archive schema")
		}
		archive = ch
		defer func() {
			_ = ch.Close()
		}()
	}

	led := ledger.New(ledger.Config{
		Archive:   archive,
		Publisher: publisher,
		Logger:    logger,
	})
	if snapshots != nil {
		if err := led.Load(ctx, snapshots); err != nil {
			logger.WithError(err).Fatal("failed to restore ledger snapshot")
		}
		if cfg.LedgerSnapshotInterval > 0 {
			go led.RunSnapshots(ctx, snapshots, cfg.LedgerSnapshotInterval)
		}
	}

	// Quote aggregator; interface fields stay untyped nil when a source is off
	var (
		zx       quote.ZeroXQuoter
		jup      quote.JupiterQuoter
		switches quote.Switches
	)
	if cfg.ZeroXEnabled && cfg.ZeroXAPIKey != "" {
		zx = zerox.NewClient(cfg.ZeroXAPIKey)
	}
	if cfg.JupiterBaseURL != "" {
		jup = jupiter.NewClient(cfg.JupiterBaseURL, cfg.JupiterAPIKey)
	}
	if flagStore != nil {
		switches = flagStore
	}
	aggregator := quote.NewAggregator(quote.Deps{
		Chains:     chainDir,
		Assets:     assetDir,
		Fees:       feeEngine,
		Strategies: quote.DefaultStrategies(zx, jup, switches, logger),
		Logger:     logger,
	})

	// AI reporting needs the archive and an OpenRouter key
	aiCfg := ai.AgentConfig{
		ClickHouseAddr:     cfg.ClickHouseAddr,
		ClickHouseDatabase: cfg.ClickHouseDatabase,
		ClickHouseUsername: cfg.ClickHouseUsername,
		ClickHousePassword: cfg.ClickHousePassword,
		OpenRouterAPIKey:   cfg.OpenRouterAPIKey,
		Model:              cfg.AIModel,
		Logger:             logger,
	}

	h := &server.Handlers{
		Quotes:       aggregator,
		Chains:       chainDir,
		Assets:       assetDir,
		Fees:         feeEngine,
		Ledger:       led,
		QuoteTimeout: cfg.QuoteTimeout,
		Logger:       logger,
	}
	if flagStore != nil {
		h.Flags = flagStore
	}
	if cfg.OpenRouterAPIKey != "" && cfg.ClickHouseAddr != "" {
		agent, err := ai.NewAgent(ctx, aiCfg)
		if err != nil {
			logger.WithError(err).Warn("failed to initialize ai agent")
		} else {
			h.AI = agent
			defer func() {
				_ = agent.Close()
			}()
		}
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithFields(logrus.Fields{
		"addr":    cfg.APIAddr,
		"zerox":   zx != nil,
		"redis":   rclient != nil,
		"archive": archive != nil,
	}).Info("api server starting")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("api server failed")
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer waitCancel()
	if err := srv.WaitClosed(waitCtx); err != nil {
		logger.WithError(err).Warn("server did not close cleanly")
	}

	if snapshots != nil {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer saveCancel()
		if err := led.Save(saveCtx, snapshots); err != nil {
			logger.WithError(err).Error("failed to save ledger snapshot")
		}
	}
}
