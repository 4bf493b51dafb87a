package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	openRouterURL   = "https://openrouter.ai/api/v1"
	defaultModel    = "openai/gpt-4.1-mini"
	defaultDatabase = "swapquote"
	defaultMaxRows  = 200
)

// AgentConfig holds configuration for the AI agent.
type AgentConfig struct {
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	OpenRouterAPIKey string
	Model            string // OpenRouter model name; empty uses defaultModel

	// MaxRows caps the rows fed back to the model. Zero uses 200.
	MaxRows int

	Logger *logrus.Logger
}

// completeFunc sends one prompt to the model and returns its text.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// queryFunc runs a read-only query and returns its rows.
type queryFunc func(ctx context.Context, query string) ([]map[string]any, error)

// Agent answers questions about archived swaps: the model writes one SELECT
// over swap_records, the agent runs it and the model summarises the rows.
type Agent struct {
	complete completeFunc
	query    queryFunc
	closer   io.Closer
	database string
	maxRows  int
	logger   *logrus.Logger
}

// AskResult is the structured result of an Ask call.
type AskResult struct {
	SQL    string `json:"sql"`
	Answer string `json:"answer"`
	Rows   int    `json:"rows"`
}

// NewAgent connects to ClickHouse and OpenRouter.
func NewAgent(ctx context.Context, cfg AgentConfig) (*Agent, error) {
	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.ClickHouseDatabase == "" {
		cfg.ClickHouseDatabase = defaultDatabase
	}

	llm, err := openai.New(
		openai.WithToken(cfg.OpenRouterAPIKey),
		openai.WithBaseURL(openRouterURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	db := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{cfg.ClickHouseAddr},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		},
	})
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	a := newAgent(cfg, modelCompleter(llm), rowQuerier(db))
	a.closer = db

	a.logger.WithFields(logrus.Fields{
		"addr":     cfg.ClickHouseAddr,
		"database": cfg.ClickHouseDatabase,
		"model":    cfg.Model,
	}).Info("ai agent ready")
	return a, nil
}

func newAgent(cfg AgentConfig, complete completeFunc, query queryFunc) *Agent {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.ClickHouseDatabase == "" {
		cfg.ClickHouseDatabase = defaultDatabase
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaultMaxRows
	}
	return &Agent{
		complete: complete,
		query:    query,
		database: cfg.ClickHouseDatabase,
		maxRows:  cfg.MaxRows,
		logger:   cfg.Logger,
	}
}

func (a *Agent) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Ask turns question into SQL, runs it and summarises the result.
func (a *Agent) Ask(ctx context.Context, question string) (*AskResult, error) {
	raw, err := a.complete(ctx, sqlPrompt(a.database, question))
	if err != nil {
		return nil, fmt.Errorf("generate sql: %w", err)
	}

	query := sanitizeSQL(raw)
	if err := validateSQL(query, a.database); err != nil {
		return nil, err
	}
	query = withRowLimit(query, a.maxRows)
	a.logger.WithField("sql", query).Debug("running generated query")

	rows, err := a.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}

	answer, err := a.complete(ctx, summaryPrompt(question, query, string(rowsJSON)))
	if err != nil {
		return nil, fmt.Errorf("summarise rows: %w", err)
	}

	return &AskResult{SQL: query, Answer: strings.TrimSpace(answer), Rows: len(rows)}, nil
}

func modelCompleter(llm llms.Model) completeFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		return llms.GenerateFromSinglePrompt(ctx, llm, prompt,
			llms.WithMaxTokens(512),
			llms.WithTemperature(0),
		)
	}
}

func rowQuerier(db *sql.DB) queryFunc {
	return func(ctx context.Context, query string) ([]map[string]any, error) {
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}

		out := []map[string]any{}
		for rows.Next() {
			values := make([]any, len(cols))
			dest := make([]any, len(cols))
			for i := range values {
				dest[i] = &values[i]
			}
			if err := rows.Scan(dest...); err != nil {
				return nil, err
			}
			row := make(map[string]any, len(cols))
			for i, col := range cols {
				row[col] = jsonValue(values[i])
			}
			out = append(out, row)
		}
		return out, rows.Err()
	}
}
