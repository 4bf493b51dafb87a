package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/aman-zulfiqar/multichain-swap/internal/cache"
	"github.com/aman-zulfiqar/multichain-swap/internal/config"
	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// subscriber tails recorded swaps from Redis pub/sub.
func main() {
	_ = godotenv.Load()

	chain := flag.String("chain", "", "only follow swaps on this chain id (e.g. ethereum)")
	wallet := flag.String("wallet", "", "only follow swaps of this wallet")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if cfg.RedisAddr == "" {
		logger.Fatal("REDIS_ADDR is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down subscriber")
		cancel()
	}()

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer client.Close()

	pubsub := cache.NewPubSubManager(client, logger)

	printSwap := func(swap *models.SwapRecord) {
		logger.WithFields(logrus.Fields{
			"id":     swap.ID,
			"chain":  swap.ChainID,
			"wallet": swap.WalletAddress,
			"from":   swap.FromToken.AmountFormatted + " " + swap.FromToken.Symbol,
			"to":     swap.ToToken.AmountFormatted + " " + swap.ToToken.Symbol,
			"fee":    swap.FeeFormatted,
			"status": swap.Status,
		}).Info("swap")
	}

	channel := constants.PubSubChannelSwaps
	switch {
	case *wallet != "":
		channel = cache.WalletChannel(*wallet)
	case *chain != "":
		channel = constants.PubSubChannelChainPrefix + *chain
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pubsub.Subscribe(gctx, channel, printSwap)
	})
	// Per-chain volume hint on every chain channel
	g.Go(func() error {
		return pubsub.PSubscribe(gctx, constants.PubSubChannelChainPrefix+"*", func(swap *models.SwapRecord) {
			logger.WithField("chain", swap.ChainID).Debug("chain activity")
		})
	})

	logger.WithField("channel", channel).Info("subscriber running, press Ctrl+C to stop")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("subscriber failed")
	}
}
