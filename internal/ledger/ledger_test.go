package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/aman-zulfiqar/multichain-swap/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wallet = "0x1111111111111111111111111111111111111111"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func fixedClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newLedger(cfg Config) *Ledger {
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	if cfg.Clock == nil {
		cfg.Clock = fixedClock()
	}
	return New(cfg)
}

func record(chainID, amount, fee string) NewRecord {
	return NewRecord{
		WalletAddress: wallet,
		ChainID:       chainID,
		FromToken:     models.TokenLeg{Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "ETH", Amount: amount, AmountFormatted: "x"},
		ToToken:       models.TokenLeg{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Amount: "1"},
		FeeAmount:     fee,
		FeeFormatted:  "0.000800 ETH",
	}
}

func TestLedger_ThreeSwapsAcrossTwoChains(t *testing.T) {
	l := newLedger(Config{})
	ctx := context.Background()

	inputs := []NewRecord{
		record("ethereum", "1000000000000000000", "800000000000000"),
		record("ethereum", "123456789012345678901234567890", "98765432109876543210987"),
		record("solana", "2500000000", "2000000"),
	}
	for _, in := range inputs {
		_, err := l.Append(ctx, in)
		require.NoError(t, err)
	}

	st := l.GlobalStats()
	assert.Equal(t, 3, st.TotalSwaps)
	require.Len(t, st.ByChain, 2)

	wantVolume := new(big.Int)
	wantVolume.SetString("123456789013345678901234567890", 10)
	wantFees := new(big.Int)
	wantFees.SetString("98765432909876543210987", 10)

	eth := st.ByChain["ethereum"]
	assert.Equal(t, 2, eth.Swaps)
	assert.Equal(t, wantVolume.String(), eth.Volume)
	assert.Equal(t, wantFees.String(), eth.Fees)

	sol := st.ByChain["solana"]
	assert.Equal(t, 1, sol.Swaps)
	assert.Equal(t, "2500000000", sol.Volume)
	assert.Equal(t, "2000000", sol.Fees)

	ws := l.WalletStats(wallet)
	assert.Equal(t, 3, ws.TotalSwaps)
	assert.Equal(t, map[string]int{"ethereum": 2, "solana": 1}, ws.ByChain)
}

func TestLedger_AppendDefaults(t *testing.T) {
	l := newLedger(Config{})

	in := record("base", "10", "")
	in.FeeFormatted = ""
	rec, err := l.Append(context.Background(), in)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.SwapPending, rec.Status)
	assert.Equal(t, "0", rec.FeeAmount)
	assert.Equal(t, "0", rec.FeeFormatted)
	assert.Equal(t, int64(1_700_000_001_000), rec.Timestamp)
}

func TestLedger_AppendRejectsInvalid(t *testing.T) {
	l := newLedger(Config{})
	ctx := context.Background()

	_, err := l.Append(ctx, NewRecord{ChainID: "ethereum", FromToken: models.TokenLeg{Amount: "1"}})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = l.Append(ctx, record("ethereum", "1.5", "0"))
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = l.Append(ctx, record("ethereum", "1", "-3"))
	assert.ErrorIs(t, err, ErrInvalidRecord)

	bad := record("ethereum", "1", "0")
	bad.Status = "done"
	_, err = l.Append(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.Zero(t, l.GlobalStats().TotalSwaps)
	assert.Empty(t, l.ListForWallet(wallet, 0, 0))
}

func TestLedger_ListNewestFirstWithPaging(t *testing.T) {
	l := newLedger(Config{})
	ctx := context.Background()

	var ids []string
	for i := 0; i < 60; i++ {
		rec, err := l.Append(ctx, record("ethereum", fmt.Sprint(i), "0"))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	page := l.ListForWallet(wallet, 0, 0)
	require.Len(t, page, 50)
	assert.Equal(t, ids[59], page[0].ID)
	assert.Equal(t, ids[10], page[49].ID)

	page = l.ListForWallet(wallet, 5, 57)
	require.Len(t, page, 3)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[0], page[2].ID)

	assert.Empty(t, l.ListForWallet(wallet, 10, 60))
	assert.NotNil(t, l.ListForWallet("nobody", 10, 0))
	assert.Len(t, l.ListForWallet(wallet, 10, -4), 10)

	page[0].Status = models.SwapFailed
	assert.Equal(t, models.SwapPending, l.ListForWallet(wallet, 5, 57)[0].Status)
}

func TestLedger_UpdateStatus(t *testing.T) {
	l := newLedger(Config{})
	ctx := context.Background()

	rec, err := l.Append(ctx, record("ethereum", "100", "1"))
	require.NoError(t, err)

	ok, err := l.UpdateStatus(ctx, wallet, rec.ID, models.SwapSuccess, "0xabc")
	require.NoError(t, err)
	assert.True(t, ok)

	got := l.ListForWallet(wallet, 1, 0)[0]
	assert.Equal(t, models.SwapSuccess, got.Status)
	assert.Equal(t, "0xabc", got.TxHash)

	ok, err = l.UpdateStatus(ctx, wallet, rec.ID, models.SwapFailed, "")
	require.NoError(t, err)
	assert.True(t, ok)
	got = l.ListForWallet(wallet, 1, 0)[0]
	assert.Equal(t, models.SwapFailed, got.Status)
	assert.Equal(t, "0xabc", got.TxHash)

	ok, err = l.UpdateStatus(ctx, "0xother", rec.ID, models.SwapSuccess, "")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.UpdateStatus(ctx, wallet, "missing", models.SwapSuccess, "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = l.UpdateStatus(ctx, wallet, rec.ID, "bogus", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	st := l.GlobalStats()
	assert.Equal(t, 1, st.TotalSwaps)
	assert.Equal(t, "100", st.ByChain["ethereum"].Volume)
}

func TestLedger_PaddedWalletAddress(t *testing.T) {
	l := newLedger(Config{})
	ctx := context.Background()

	in := record("ethereum", "100", "1")
	in.WalletAddress = " 0xabc "
	rec, err := l.Append(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", rec.WalletAddress)

	ok, err := l.UpdateStatus(ctx, " 0xabc ", rec.ID, models.SwapSuccess, "")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, w := range []string{"0xabc", " 0xabc ", "\t0xabc\n"} {
		page := l.ListForWallet(w, 10, 0)
		require.Len(t, page, 1, "wallet %q", w)
		assert.Equal(t, models.SwapSuccess, page[0].Status)
		assert.Equal(t, 1, l.WalletStats(w).TotalSwaps, "wallet %q", w)
	}
}

func TestLedger_ConcurrentAppends(t *testing.T) {
	l := newLedger(Config{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := record("ethereum", "10", "1")
			in.WalletAddress = fmt.Sprintf("0x%040d", i%7)
			_, err := l.Append(ctx, in)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	st := l.GlobalStats()
	assert.Equal(t, 100, st.TotalSwaps)
	assert.Equal(t, "1000", st.ByChain["ethereum"].Volume)
	assert.Equal(t, "100", st.ByChain["ethereum"].Fees)
}

type recordingArchive struct {
	mu       sync.Mutex
	inserted []models.SwapRecord
	updated  []models.SwapRecord
	err      error
}

func (a *recordingArchive) InsertSwap(_ context.Context, s *models.SwapRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inserted = append(a.inserted, *s)
	return a.err
}

func (a *recordingArchive) UpdateSwapStatus(_ context.Context, s *models.SwapRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updated = append(a.updated, *s)
	return a.err
}

func (a *recordingArchive) Ping(context.Context) error { return nil }
func (a *recordingArchive) Close() error               { return nil }

type recordingPublisher struct {
	published []models.SwapRecord
	err       error
}

func (p *recordingPublisher) PublishSwap(_ context.Context, s *models.SwapRecord) error {
	p.published = append(p.published, *s)
	return p.err
}

func TestLedger_Sinks(t *testing.T) {
	arch := &recordingArchive{}
	pub := &recordingPublisher{}
	l := newLedger(Config{Archive: arch, Publisher: pub})
	ctx := context.Background()

	rec, err := l.Append(ctx, record("optimism", "5", "0"))
	require.NoError(t, err)
	_, err = l.UpdateStatus(ctx, wallet, rec.ID, models.SwapSuccess, "0xfeed")
	require.NoError(t, err)

	require.Len(t, arch.inserted, 1)
	assert.Equal(t, rec.ID, arch.inserted[0].ID)
	require.Len(t, arch.updated, 1)
	assert.Equal(t, models.SwapSuccess, arch.updated[0].Status)
	assert.Equal(t, "0xfeed", arch.updated[0].TxHash)
	assert.Len(t, pub.published, 2)
}

func TestLedger_SinkFailuresDoNotFailRequests(t *testing.T) {
	boom := errors.New("boom")
	l := newLedger(Config{Archive: &recordingArchive{err: boom}, Publisher: &recordingPublisher{err: boom}})
	ctx := context.Background()

	rec, err := l.Append(ctx, record("optimism", "5", "0"))
	require.NoError(t, err)

	ok, err := l.UpdateStatus(ctx, wallet, rec.ID, models.SwapFailed, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

type memoryStore struct {
	data []byte
	err  error
}

func (m *memoryStore) SaveSnapshot(_ context.Context, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memoryStore) LoadSnapshot(context.Context) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.data == nil {
		return nil, storage.ErrSnapshotNotFound
	}
	return m.data, nil
}

func TestLedger_ExportImportRoundTrip(t *testing.T) {
	src := newLedger(Config{})
	ctx := context.Background()

	_, err := src.Append(ctx, record("ethereum", "1000", "8"))
	require.NoError(t, err)
	other := record("solana", "77", "0")
	other.WalletAddress = "HeNZH4vEc2htjYSPU9drniGkjbm9h1LotSKkVnb3VWed"
	_, err = src.Append(ctx, other)
	require.NoError(t, err)
	rec, err := src.Append(ctx, record("ethereum", "2000", "16"))
	require.NoError(t, err)
	_, err = src.UpdateStatus(ctx, wallet, rec.ID, models.SwapSuccess, "0x01")
	require.NoError(t, err)

	data, err := src.Export()
	require.NoError(t, err)

	dst := newLedger(Config{})
	require.NoError(t, dst.Import(data))

	assert.Equal(t, src.Snapshot(), dst.Snapshot())
	assert.Equal(t, src.GlobalStats(), dst.GlobalStats())
	assert.Equal(t, src.ListForWallet(wallet, 0, 0), dst.ListForWallet(wallet, 0, 0))

	again, err := dst.Export()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	snap := dst.Snapshot()
	require.Len(t, snap.Wallets, 2)
	assert.Equal(t, wallet, snap.Wallets[0].Wallet)

	_, err = dst.Append(ctx, record("ethereum", "1", "0"))
	require.NoError(t, err)
	assert.Equal(t, "3001", dst.GlobalStats().ByChain["ethereum"].Volume)
}

func TestLedger_ImportRejectsInvalid(t *testing.T) {
	l := newLedger(Config{})
	_, err := l.Append(context.Background(), record("ethereum", "1", "0"))
	require.NoError(t, err)

	assert.Error(t, l.Import([]byte(`not json`)))
	assert.Error(t, l.Import([]byte(`{"version":2}`)))
	assert.Error(t, l.Import([]byte(`{"version":1,"wallets":[{"wallet":"a"},{"wallet":"a"}]}`)))
	assert.Error(t, l.Import([]byte(`{"version":1,"stats":{"totalSwaps":1,"byChain":{"ethereum":{"swaps":1,"volume":"1.5","fees":"0"}}}}`)))

	assert.Equal(t, 1, l.GlobalStats().TotalSwaps)
}

func TestLedger_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}

	empty := newLedger(Config{})
	require.NoError(t, empty.Load(ctx, store))
	assert.Zero(t, empty.GlobalStats().TotalSwaps)

	src := newLedger(Config{})
	_, err := src.Append(ctx, record("linea", "42", "0"))
	require.NoError(t, err)
	require.NoError(t, src.Save(ctx, store))

	dst := newLedger(Config{})
	require.NoError(t, dst.Load(ctx, store))
	assert.Equal(t, 1, dst.GlobalStats().TotalSwaps)

	failing := &memoryStore{err: errors.New("down")}
	assert.Error(t, src.Save(ctx, failing))
	assert.Error(t, dst.Load(ctx, failing))
}

func TestLedger_RunSnapshots(t *testing.T) {
	store := &syncStore{}
	l := newLedger(Config{})
	_, err := l.Append(context.Background(), record("base", "9", "0"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.RunSnapshots(ctx, store, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.saves() > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

type syncStore struct {
	mu sync.Mutex
	n  int
}

func (s *syncStore) SaveSnapshot(context.Context, []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func (s *syncStore) LoadSnapshot(context.Context) ([]byte, error) {
	return nil, storage.ErrSnapshotNotFound
}

func (s *syncStore) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
