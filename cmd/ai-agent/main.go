package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aman-zulfiqar/multichain-swap/internal/ai"
	"github.com/aman-zulfiqar/multichain-swap/internal/config"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// ai-agent answers questions about archived swaps from the terminal.
func main() {
	_ = godotenv.Load()

	queryFlag := flag.String("q", "", "run a single question and exit")
	modelFlag := flag.String("model", "", "OpenRouter model name (defaults to AI_MODEL)")
	sqlOnly := flag.Bool("sql", false, "print only the generated SQL")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.WarnLevel)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if cfg.OpenRouterAPIKey == "" || cfg.ClickHouseAddr == "" {
		logger.Fatal("OPENROUTER_API_KEY and CLICKHOUSE_ADDR are required")
	}

	model := cfg.AIModel
	if *modelFlag != "" {
		model = *modelFlag
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	agent, err := ai.NewAgent(ctx, ai.AgentConfig{
		ClickHouseAddr:     cfg.ClickHouseAddr,
		ClickHouseDatabase: cfg.ClickHouseDatabase,
		ClickHouseUsername: cfg.ClickHouseUsername,
		ClickHousePassword: cfg.ClickHousePassword,
		OpenRouterAPIKey:   cfg.OpenRouterAPIKey,
		Model:              model,
		Logger:             logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create AI agent")
	}
	defer agent.Close()

	if *queryFlag != "" {
		if err := ask(ctx, agent, *queryFlag, *sqlOnly); err != nil {
			logger.WithError(err).Fatal("query failed")
		}
		return
	}

	fmt.Println("Swap report agent. Ask about recorded swaps; empty line exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		q := strings.TrimSpace(scanner.Text())
		if q == "" || ctx.Err() != nil {
			return
		}
		if err := ask(ctx, agent, q, *sqlOnly); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func ask(ctx context.Context, agent *ai.Agent, q string, sqlOnly bool) error {
	res, err := agent.Ask(ctx, q)
	if err != nil {
		return err
	}
	if sqlOnly {
		fmt.Println(res.SQL)
		return nil
	}
	fmt.Printf("\nSQL:\n%s\n\nAnswer:\n%s\n\n", res.SQL, res.Answer)
	return nil
}
