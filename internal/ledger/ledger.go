package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/aman-zulfiqar/multichain-swap/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidRecord = errors.New("invalid swap record")
	ErrInvalidStatus = errors.New("invalid swap status")
)

// NewRecord is a swap submission; the ledger assigns id and timestamp.
type NewRecord struct {
	WalletAddress string            `json:"walletAddress"`
	ChainID       string            `json:"chainId"`
	FromToken     models.TokenLeg   `json:"fromToken"`
	ToToken       models.TokenLeg   `json:"toToken"`
	FeeAmount     string            `json:"feeAmount"`
	FeeFormatted  string            `json:"feeFormatted"`
	TxHash        string            `json:"txHash,omitempty"`
	Status        models.SwapStatus `json:"status,omitempty"`
}

// WalletStats are per-wallet swap counts.
type WalletStats struct {
	TotalSwaps int            `json:"totalSwaps"`
	ByChain    map[string]int `json:"byChain"`
}

// ChainStats aggregates one chain. Volume and Fees are exact base-unit sums.
type ChainStats struct {
	Swaps  int    `json:"swaps"`
	Volume string `json:"volume"`
	Fees   string `json:"fees"`
}

// GlobalStats aggregates every recorded swap.
type GlobalStats struct {
	TotalSwaps int                   `json:"totalSwaps"`
	ByChain    map[string]ChainStats `json:"byChain"`
}

type chainTotals struct {
	swaps  int
	volume *big.Int
	fees   *big.Int
}

// Config holds optional collaborators for a Ledger.
type Config struct {
	Archive   storage.SwapArchive
	Publisher storage.SwapPublisher
	Logger    *logrus.Logger
	Clock     func() time.Time
}

// Ledger is the in-memory swap history, keyed by wallet and newest first.
// Counters only grow; status updates never touch them.
type Ledger struct {
	mu     sync.RWMutex
	swaps  map[string][]models.SwapRecord
	totals map[string]*chainTotals
	count  int

	archive   storage.SwapArchive
	publisher storage.SwapPublisher
	logger    *logrus.Logger
	clock     func() time.Time
}

func New(cfg Config) *Ledger {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Ledger{
		swaps:     make(map[string][]models.SwapRecord),
		totals:    make(map[string]*chainTotals),
		archive:   cfg.Archive,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		clock:     cfg.Clock,
	}
}

// Append stores a new record and returns it with its generated id.
func (l *Ledger) Append(ctx context.Context, in NewRecord) (models.SwapRecord, error) {
	rec, volume, fee, err := l.build(in)
	if err != nil {
		return models.SwapRecord{}, err
	}

	l.mu.Lock()
	l.swaps[rec.WalletAddress] = append([]models.SwapRecord{rec}, l.swaps[rec.WalletAddress]...)
	t := l.totals[rec.ChainID]
	if t == nil {
		t = &chainTotals{volume: new(big.Int), fees: new(big.Int)}
		l.totals[rec.ChainID] = t
	}
	t.swaps++
	t.volume.Add(t.volume, volume)
	t.fees.Add(t.fees, fee)
	l.count++
	l.mu.Unlock()

	l.logger.WithFields(logrus.Fields{
		"id":     rec.ID,
		"wallet": rec.WalletAddress,
		"chain":  rec.ChainID,
		"status": rec.Status,
	}).Info("swap recorded")

	l.archiveInsert(ctx, rec)
	l.publish(ctx, rec)
	return rec, nil
}

func (l *Ledger) build(in NewRecord) (models.SwapRecord, *big.Int, *big.Int, error) {
	wallet := strings.TrimSpace(in.WalletAddress)
	chainID := strings.TrimSpace(in.ChainID)
	if wallet == "" || chainID == "" {
		return models.SwapRecord{}, nil, nil, fmt.Errorf("%w: walletAddress and chainId are required", ErrInvalidRecord)
	}

	volume, ok := new(big.Int).SetString(in.FromToken.Amount, 10)
	if !ok || volume.Sign() < 0 {
		return models.SwapRecord{}, nil, nil, fmt.Errorf("%w: fromToken.amount %q is not a base-unit integer", ErrInvalidRecord, in.FromToken.Amount)
	}

	feeAmount := strings.TrimSpace(in.FeeAmount)
	if feeAmount == "" {
		feeAmount = "0"
	}
	fee, ok := new(big.Int).SetString(feeAmount, 10)
	if !ok || fee.Sign() < 0 {
		return models.SwapRecord{}, nil, nil, fmt.Errorf("%w: feeAmount %q is not a base-unit integer", ErrInvalidRecord, in.FeeAmount)
	}

	status := in.Status
	if status == "" {
		status = models.SwapPending
	}
	if !status.Valid() {
		return models.SwapRecord{}, nil, nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	feeFormatted := in.FeeFormatted
	if feeFormatted == "" {
		feeFormatted = "0"
	}

	return models.SwapRecord{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		ChainID:       chainID,
		Timestamp:     l.clock().UnixMilli(),
		FromToken:     in.FromToken,
		ToToken:       in.ToToken,
		FeeAmount:     fee.String(),
		FeeFormatted:  feeFormatted,
		TxHash:        in.TxHash,
		Status:        status,
	}, volume, fee, nil
}

// UpdateStatus sets the status (and the hash, when given) of record id under
// wallet. It reports whether the record was found; a miss is a no-op.
func (l *Ledger) UpdateStatus(ctx context.Context, wallet, id string, status models.SwapStatus, txHash string) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	wallet = strings.TrimSpace(wallet)

	l.mu.Lock()
	var updated models.SwapRecord
	found := false
	list := l.swaps[wallet]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Status = status
		if txHash != "" {
			list[i].TxHash = txHash
		}
		updated = list[i]
		found = true
		break
	}
	l.mu.Unlock()

	if !found {
		return false, nil
	}

	l.logger.WithFields(logrus.Fields{
		"id":     id,
		"wallet": wallet,
		"status": status,
	}).Info("swap status updated")

	l.archiveUpdate(ctx, updated)
	l.publish(ctx, updated)
	return true, nil
}

// ListForWallet returns a newest-first page. limit <= 0 uses the default page
// size; limit is capped and a negative offset is treated as zero.
func (l *Ledger) ListForWallet(wallet string, limit, offset int) []models.SwapRecord {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	if limit > constants.MaxHistoryLimit {
		limit = constants.MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	wallet = strings.TrimSpace(wallet)

	l.mu.RLock()
	defer l.mu.RUnlock()

	list := l.swaps[wallet]
	if offset >= len(list) {
		return []models.SwapRecord{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return append([]models.SwapRecord{}, list[offset:end]...)
}

// WalletStats counts a wallet's swaps per chain.
func (l *Ledger) WalletStats(wallet string) WalletStats {
	wallet = strings.TrimSpace(wallet)

	l.mu.RLock()
	defer l.mu.RUnlock()

	list := l.swaps[wallet]
	out := WalletStats{TotalSwaps: len(list), ByChain: make(map[string]int)}
	for _, r := range list {
		out.ByChain[r.ChainID]++
	}
	return out
}

// GlobalStats returns the running totals across all wallets.
func (l *Ledger) GlobalStats() GlobalStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.globalStatsLocked()
}

func (l *Ledger) globalStatsLocked() GlobalStats {
	out := GlobalStats{TotalSwaps: l.count, ByChain: make(map[string]ChainStats, len(l.totals))}
	for chainID, t := range l.totals {
		out.ByChain[chainID] = ChainStats{
			Swaps:  t.swaps,
			Volume: t.volume.String(),
			Fees:   t.fees.String(),
		}
	}
	return out
}

func (l *Ledger) archiveInsert(ctx context.Context, rec models.SwapRecord) {
	if l.archive == nil {
		return
	}
	if err := l.archive.InsertSwap(ctx, &rec); err != nil {
		l.logger.WithError(err).WithField("id", rec.ID).Warn("failed to archive swap")
	}
}

func (l *Ledger) archiveUpdate(ctx context.Context, rec models.SwapRecord) {
	if l.archive == nil {
		return
	}
	if err := l.archive.UpdateSwapStatus(ctx, &rec); err != nil {
		l.logger.WithError(err).WithField("id", rec.ID).Warn("failed to archive swap status")
	}
}

func (l *Ledger) publish(ctx context.Context, rec models.SwapRecord) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishSwap(ctx, &rec); err != nil {
		l.logger.WithError(err).WithField("id", rec.ID).Warn("failed to publish swap")
	}
}
