package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/aman-zulfiqar/multichain-swap/internal/assets"
	"github.com/aman-zulfiqar/multichain-swap/internal/chains"
	"github.com/aman-zulfiqar/multichain-swap/internal/config"
	"github.com/aman-zulfiqar/multichain-swap/internal/evm"
	"github.com/aman-zulfiqar/multichain-swap/internal/fees"
	"github.com/aman-zulfiqar/multichain-swap/internal/jupiter"
	"github.com/aman-zulfiqar/multichain-swap/internal/quote"
	"github.com/aman-zulfiqar/multichain-swap/internal/zerox"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

func main() {
	loadEnv()

	mode := flag.String("mode", "quote", "quote | fee | validate")
	chainID := flag.String("chain", "ethereum", "chain id (ethereum, arbitrum, solana, sui, ...)")
	sell := flag.String("sell", "", "sell token address")
	buy := flag.String("buy", "", "buy token address")
	amount := flag.String("amount", "", "sell amount in base units")
	human := flag.String("amt", "", "sell amount in human units (e.g. 0.1); used when -amount is empty")
	slippageBps := flag.Int("slippage-bps", 50, "slippage in bps (e.g. 50 = 0.5%)")
	user := flag.String("user", "", "taker address passed to live aggregators")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	verbose := flag.Bool("v", false, "log upstream fallbacks")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if !*verbose {
		logger.SetOutput(io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg := config.Load()
	chainDir := chains.Default(chains.WithRPCOverrides(cfg.RPCOverrides))
	assetDir := assets.NewDirectory(assets.DefaultSeed(), assets.Config{
		Discoverer: evm.NewTokenInspector(evm.DialEthclient, logger),
		Logger:     logger,
	})
	feeEngine := fees.Default()

	var (
		zx  quote.ZeroXQuoter
		jup quote.JupiterQuoter
	)
	if cfg.ZeroXEnabled && cfg.ZeroXAPIKey != "" {
		zx = zerox.NewClient(cfg.ZeroXAPIKey)
	}
	if cfg.JupiterBaseURL != "" {
		jup = jupiter.NewClient(cfg.JupiterBaseURL, cfg.JupiterAPIKey)
	}

	agg := quote.NewAggregator(quote.Deps{
		Chains:     chainDir,
		Assets:     assetDir,
		Fees:       feeEngine,
		Strategies: quote.DefaultStrategies(zx, jup, nil, logger),
		Logger:     logger,
	})

	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.QuoteTimeout)
	defer cancelTimeout()

	switch *mode {
	case "validate":
		asset, ok, err := agg.ValidateToken(ctx, *chainID, *sell)
		if err != nil {
			fail(1, "validate failed:", err)
		}
		if !ok {
			fail(1, "token not found or invalid")
		}
		if *asJSON {
			printJSON(asset)
			return
		}
		fmt.Printf("symbol=%s name=%q decimals=%d address=%s\n", asset.Symbol, asset.Name, asset.Decimals, asset.Address)

	case "fee", "quote":
		chain, ok := chainDir.Get(*chainID)
		if !ok {
			fail(2, "unknown -chain", *chainID)
		}
		sellAsset, ok := assetDir.Find(chain.ID, *sell)
		if !ok {
			fail(2, "unknown -sell token", *sell)
		}
		base := resolveAmount(*amount, *human, sellAsset.Decimals)

		if *mode == "fee" {
			fc, err := feeEngine.Compute(base, sellAsset.Decimals, chain.Family)
			if err != nil {
				fail(1, "fee failed:", err)
			}
			if *asJSON {
				printJSON(fc)
				return
			}
			feeDisplay, _ := fees.FormatDisplay(fc.FeeAmount, sellAsset.Decimals, sellAsset.Symbol)
			fmt.Printf("input=%s fee=%s (%s) net=%s wallet=%s\n", fc.InputAmount, fc.FeeAmount, feeDisplay, fc.NetAmount, fc.FeeWallet)
			return
		}

		q, err := agg.GetQuote(ctx, quote.Request{
			ChainID:     chain.ID,
			SellToken:   *sell,
			BuyToken:    *buy,
			SellAmount:  base,
			SlippageBps: slippageBps,
			UserAddress: *user,
		})
		if err != nil {
			fail(1, "quote failed:", err)
		}
		if *asJSON {
			printJSON(q)
			return
		}
		buyDisplay, _ := fees.FormatDisplay(q.BuyAmount, q.BuyToken.Decimals, q.BuyToken.Symbol)
		fmt.Printf("route=%q sell=%s buy=%s (%s) price=%s impact=%s fee=%s gas=%s\n",
			q.Route, q.SellAmount, q.BuyAmount, buyDisplay, q.Price, q.PriceImpact, q.Fee.FeeAmount, q.EstimatedGas)
		if q.Error != "" {
			fmt.Println("note:", q.Error)
		}

	default:
		fail(2, "invalid -mode (use quote|fee|validate)")
	}
}

// resolveAmount returns base units from either flag.
func resolveAmount(baseUnits, human string, decimals int) string {
	if baseUnits != "" {
		return baseUnits
	}
	if human == "" {
		fail(2, "missing -amount or -amt")
	}
	d, err := decimal.NewFromString(human)
	if err != nil || !d.IsPositive() {
		fail(2, "invalid -amt (must be a positive number)")
	}
	return d.Shift(int32(decimals)).Truncate(0).String()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(code int, args ...any) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(code)
}
