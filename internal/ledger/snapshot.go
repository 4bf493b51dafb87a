package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/aman-zulfiqar/multichain-swap/internal/storage"
)

// SnapshotVersion is the current snapshot format.
const SnapshotVersion = 1

// Snapshot is the serialized ledger: per-wallet histories in wallet order
// plus the running totals.
type Snapshot struct {
	Version int             `json:"version"`
	Wallets []WalletHistory `json:"wallets"`
	Stats   GlobalStats     `json:"stats"`
}

// WalletHistory is one wallet's records, newest first.
type WalletHistory struct {
	Wallet string              `json:"wallet"`
	Swaps  []models.SwapRecord `json:"swaps"`
}

// Snapshot captures the current state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	wallets := make([]string, 0, len(l.swaps))
	for w := range l.swaps {
		wallets = append(wallets, w)
	}
	sort.Strings(wallets)

	out := Snapshot{
		Version: SnapshotVersion,
		Wallets: make([]WalletHistory, 0, len(wallets)),
		Stats:   l.globalStatsLocked(),
	}
	for _, w := range wallets {
		out.Wallets = append(out.Wallets, WalletHistory{
			Wallet: w,
			Swaps:  append([]models.SwapRecord{}, l.swaps[w]...),
		})
	}
	return out
}

// Restore replaces the current state with s. The state is left untouched
// when s is invalid.
func (l *Ledger) Restore(s Snapshot) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}

	swaps := make(map[string][]models.SwapRecord, len(s.Wallets))
	for _, wh := range s.Wallets {
		if wh.Wallet == "" {
			return errors.New("snapshot wallet with empty address")
		}
		if _, dup := swaps[wh.Wallet]; dup {
			return fmt.Errorf("snapshot wallet %q listed twice", wh.Wallet)
		}
		swaps[wh.Wallet] = append([]models.SwapRecord{}, wh.Swaps...)
	}

	totals := make(map[string]*chainTotals, len(s.Stats.ByChain))
	for chainID, cs := range s.Stats.ByChain {
		volume, ok := new(big.Int).SetString(orZero(cs.Volume), 10)
		if !ok {
			return fmt.Errorf("snapshot volume for %s: invalid integer %q", chainID, cs.Volume)
		}
		fees, ok := new(big.Int).SetString(orZero(cs.Fees), 10)
		if !ok {
			return fmt.Errorf("snapshot fees for %s: invalid integer %q", chainID, cs.Fees)
		}
		totals[chainID] = &chainTotals{swaps: cs.Swaps, volume: volume, fees: fees}
	}

	l.mu.Lock()
	l.swaps = swaps
	l.totals = totals
	l.count = s.Stats.TotalSwaps
	l.mu.Unlock()
	return nil
}

// Export serializes the ledger to JSON.
func (l *Ledger) Export() ([]byte, error) {
	return json.Marshal(l.Snapshot())
}

// Import restores the ledger from Export output.
func (l *Ledger) Import(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode ledger snapshot: %w", err)
	}
	return l.Restore(s)
}

// Load restores from store. A missing snapshot leaves the ledger empty and
// is not an error.
func (l *Ledger) Load(ctx context.Context, store storage.SnapshotStore) error {
	data, err := store.LoadSnapshot(ctx)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		l.logger.Info("no ledger snapshot found, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load ledger snapshot: %w", err)
	}
	if err := l.Import(data); err != nil {
		return err
	}

	st := l.GlobalStats()
	l.logger.WithField("swaps", st.TotalSwaps).Info("ledger snapshot restored")
	return nil
}

// Save writes the current snapshot to store.
func (l *Ledger) Save(ctx context.Context, store storage.SnapshotStore) error {
	data, err := l.Export()
	if err != nil {
		return fmt.Errorf("failed to encode ledger snapshot: %w", err)
	}
	if err := store.SaveSnapshot(ctx, data); err != nil {
		return fmt.Errorf("failed to save ledger snapshot: %w", err)
	}
	return nil
}

// RunSnapshots saves to store every interval until ctx is done.
func (l *Ledger) RunSnapshots(ctx context.Context, store storage.SnapshotStore, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.Save(ctx, store); err != nil {
				l.logger.WithError(err).Warn("periodic ledger snapshot failed")
			}
		}
	}
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
