package cache

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/sirupsen/logrus"
)

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,63}$`)

// ClickHouseConfig configures the swap archive.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	Logger   *logrus.Logger
}

// ClickHouseStore archives swap records. Status changes are written as new
// row versions; ReplacingMergeTree keeps the latest by updated_at.
type ClickHouseStore struct {
	conn     driver.Conn
	database string
	logger   *logrus.Logger
}

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if !identRe.MatchString(cfg.Database) {
		return nil, fmt.Errorf("invalid ClickHouse database name %q", cfg.Database)
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	cfg.Logger.WithFields(logrus.Fields{
		"addr":     cfg.Addr,
		"database": cfg.Database,
	}).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, database: cfg.Database, logger: cfg.Logger}, nil
}

// SwapRecordsDDL returns the statements that create the archive.
func SwapRecordsDDL(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.swap_records (
			id             String,
			wallet_address String,
			chain_id       LowCardinality(String),
			timestamp      DateTime64(3, 'UTC'),
			from_address   String,
			from_symbol    LowCardinality(String),
			from_amount    UInt256,
			to_address     String,
			to_symbol      LowCardinality(String),
			to_amount      UInt256,
			fee_amount     UInt256,
			fee_formatted  String,
			tx_hash        String,
			status         LowCardinality(String),
			updated_at     DateTime64(3, 'UTC')
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY (wallet_address, id)`, database),
	}
}

// EnsureSchema creates the database and table when missing.
func (c *ClickHouseStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range SwapRecordsDDL(c.database) {
		if err := c.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply ClickHouse schema: %w", err)
		}
	}
	return nil
}

func (c *ClickHouseStore) InsertSwap(ctx context.Context, swap *models.SwapRecord) error {
	return c.write(ctx, swap)
}

func (c *ClickHouseStore) UpdateSwapStatus(ctx context.Context, swap *models.SwapRecord) error {
	return c.write(ctx, swap)
}

func (c *ClickHouseStore) write(ctx context.Context, swap *models.SwapRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.swap_records (
			id, wallet_address, chain_id, timestamp,
			from_address, from_symbol, from_amount,
			to_address, to_symbol, to_amount,
			fee_amount, fee_formatted, tx_hash, status, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.database)

	err := c.conn.Exec(ctx, query,
		swap.ID,
		swap.WalletAddress,
		swap.ChainID,
		time.UnixMilli(swap.Timestamp).UTC(),
		swap.FromToken.Address,
		swap.FromToken.Symbol,
		baseUnits(swap.FromToken.Amount),
		swap.ToToken.Address,
		swap.ToToken.Symbol,
		baseUnits(swap.ToToken.Amount),
		baseUnits(swap.FeeAmount),
		swap.FeeFormatted,
		swap.TxHash,
		string(swap.Status),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert swap record: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	c.logger.Debug("closing ClickHouse connection")
	return c.conn.Close()
}

// baseUnits parses an integer amount for a UInt256 column; anything else
// is stored as zero.
func baseUnits(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return new(big.Int)
	}
	return v
}
