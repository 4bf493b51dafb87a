package quote

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aman-zulfiqar/multichain-swap/internal/assets"
	"github.com/aman-zulfiqar/multichain-swap/internal/chains"
	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/fees"
	"github.com/aman-zulfiqar/multichain-swap/internal/jupiter"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/aman-zulfiqar/multichain-swap/internal/zerox"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usdcEthereum = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	usdcSolana   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	solMint      = "So11111111111111111111111111111111111111112"
	suiNative    = "0x2::sui::SUI"
	usdcSui      = "0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN"
	oneEther     = "1000000000000000000"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type staticSwitches map[string]bool

func (s staticSwitches) Enabled(_ context.Context, key string, def bool) bool {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

func newAggregator(t *testing.T, zx ZeroXQuoter, jup JupiterQuoter, sw Switches) *Aggregator {
	t.Helper()
	log := quietLogger()
	return NewAggregator(Deps{
		Chains:     chains.Default(),
		Assets:     assets.NewDirectory(assets.DefaultSeed(), assets.Config{Logger: log}),
		Fees:       fees.Default(),
		Strategies: DefaultStrategies(zx, jup, sw, log),
		Logger:     log,
	})
}

func zeroXServer(t *testing.T, handler http.HandlerFunc) *zerox.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := zerox.NewClient("test")
	c.BaseURL = map[int64]string{1: srv.URL}
	return c
}

func jupiterServer(t *testing.T, handler http.HandlerFunc) *jupiter.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return jupiter.NewClient(srv.URL, "")
}

func assertFeeSplit(t *testing.T, fc models.FeeCalculation) {
	t.Helper()
	in := bigInt(t, fc.InputAmount)
	fee := bigInt(t, fc.FeeAmount)
	net := bigInt(t, fc.NetAmount)
	assert.Zero(t, new(big.Int).Add(fee, net).Cmp(in))
}

func TestGetQuote_EVMMockPricing(t *testing.T) {
	agg := newAggregator(t, nil, nil, nil)

	q, err := agg.GetQuote(context.Background(), Request{
		ChainID:    "ethereum",
		SellToken:  constants.NativeTokenSentinel,
		BuyToken:   usdcEthereum,
		SellAmount: oneEther,
	})
	require.NoError(t, err)

	assert.Equal(t, "ethereum", q.ChainID)
	assert.Equal(t, "ETH", q.SellToken.Symbol)
	assert.Equal(t, "USDC", q.BuyToken.Symbol)
	assert.Equal(t, oneEther, q.SellAmount)
	assert.Equal(t, "800000000000000", q.Fee.FeeAmount)
	assert.Equal(t, "999200000000000000", q.Fee.NetAmount)
	assert.Equal(t, constants.FeeWalletEVM, q.Fee.FeeWallet)
	assert.Equal(t, "3497200000", q.BuyAmount)
	assert.Equal(t, "3500", q.Price)
	assert.Equal(t, "0.1", q.PriceImpact)
	assert.Equal(t, "150000", q.EstimatedGas)
	assert.Equal(t, "Uniswap V3", q.Route)
	assert.Equal(t, []string{"Uniswap V3"}, q.Sources)
	assert.Empty(t, q.Error)
	assertFeeSplit(t, q.Fee)
}

func TestGetQuote_EVMLiveForwardsNetAmount(t *testing.T) {
	var calls atomic.Int32
	var query map[string][]string
	zx := zeroXServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"price":"3501.5",
			"buyAmount":"3498698800",
			"estimatedGas":"181000",
			"estimatedPriceImpact":"0.03",
			"allowanceTarget":"0x0000000000000000000000000000000000000000",
			"to":"0xdef1c0ded9bec7f1a1670819833240f027b25eff",
			"data":"0xd9627aa4",
			"value":"999200000000000000",
			"sources":[{"name":"Uniswap_V3","proportion":"0.7"},{"name":"Curve","proportion":"0.3"}]
		}`))
	})
	agg := newAggregator(t, zx, nil, nil)

	slippage := 100
	q, err := agg.GetQuote(context.Background(), Request{
		ChainID:     "ethereum",
		SellToken:   "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
		BuyToken:    "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		SellAmount:  oneEther,
		SlippageBps: &slippage,
		UserAddress: "0x1111111111111111111111111111111111111111",
	})
	require.NoError(t, err)

	require.EqualValues(t, 1, calls.Load())
	assert.Equal(t, []string{"999200000000000000"}, query["sellAmount"])
	assert.Equal(t, []string{constants.NativeTokenSentinel}, query["sellToken"])
	assert.Equal(t, []string{usdcEthereum}, query["buyToken"])
	assert.Equal(t, []string{"0.01"}, query["slippagePercentage"])

	assert.Equal(t, "3498698800", q.BuyAmount)
	assert.Equal(t, "3501.5", q.Price)
	assert.Equal(t, "0.03", q.PriceImpact)
	assert.Equal(t, "181000", q.EstimatedGas)
	assert.Equal(t, "Uniswap_V3 -> Curve", q.Route)
	assert.Equal(t, []string{"Uniswap_V3", "Curve"}, q.Sources)
	assert.Equal(t, "0xd9627aa4", q.Data)
	assert.Equal(t, "800000000000000", q.Fee.FeeAmount)
}

func TestGetQuote_EVMLiveMissingFieldsDefault(t *testing.T) {
	zx := zeroXServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"buyAmount":"42"}`))
	})
	agg := newAggregator(t, zx, nil, nil)

	q, err := agg.GetQuote(context.Background(), Request{
		ChainID: "ethereum", SellToken: constants.NativeTokenSentinel, BuyToken: usdcEthereum, SellAmount: oneEther,
	})
	require.NoError(t, err)

	assert.Equal(t, "42", q.BuyAmount)
	assert.Equal(t, "0", q.Price)
	assert.Equal(t, "0", q.PriceImpact)
	assert.Equal(t, "150000", q.EstimatedGas)
	assert.Equal(t, "Direct", q.Route)
	assert.NotNil(t, q.Sources)
	assert.Empty(t, q.Sources)
}

func TestGetQuote_EVMUpstreamFailureFallsBack(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		"bad json":     func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{`)) },
		"bad amount":   func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"buyAmount":"1.5"}`)) },
	} {
		t.Run(name, func(t *testing.T) {
			agg := newAggregator(t, zeroXServer(t, handler), nil, nil)

			q, err := agg.GetQuote(context.Background(), Request{
				ChainID: "ethereum", SellToken: constants.NativeTokenSentinel, BuyToken: usdcEthereum, SellAmount: oneEther,
			})
			require.NoError(t, err)
			assert.Equal(t, "3497200000", q.BuyAmount)
			assert.Equal(t, "Uniswap V3", q.Route)
		})
	}
}

func TestGetQuote_EVMChainWithoutEndpointUsesMock(t *testing.T) {
	var calls atomic.Int32
	zx := zeroXServer(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	agg := newAggregator(t, zx, nil, nil)

	q, err := agg.GetQuote(context.Background(), Request{
		ChainID: "arbitrum", SellToken: constants.NativeTokenSentinel,
		BuyToken: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", SellAmount: oneEther,
	})
	require.NoError(t, err)
	assert.Zero(t, calls.Load())
	assert.Equal(t, "3497200000", q.BuyAmount)
}

func TestGetQuote_LiveSwitchOff(t *testing.T) {
	var calls atomic.Int32
	zx := zeroXServer(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	agg := newAggregator(t, zx, nil, staticSwitches{LiveSwitchKey(models.FamilyEVM): false})

	q, err := agg.GetQuote(context.Background(), Request{
		ChainID: "ethereum", SellToken: constants.NativeTokenSentinel, BuyToken: usdcEthereum, SellAmount: oneEther,
	})
	require.NoError(t, err)
	assert.Zero(t, calls.Load())
	assert.Equal(t, "Uniswap V3", q.Route)
}

func TestGetQuote_SolanaLive(t *testing.T) {
	var query map[string][]string
	jup := jupiterServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"inAmount":"999200000",
			"outAmount":"179856000",
			"priceImpactPct":"0.0004",
			"routePlan":[{"swapInfo":{"label":"Whirlpool"}},{"swapInfo":{"label":"Raydium CLMM"}}]
		}`))
	})
	agg := newAggregator(t, nil, jup, nil)

	q, err := agg.GetQuote(context.Background(), Request{
		ChainID: "solana", SellToken: solMint, BuyToken: usdcSolana, SellAmount: "1000000000",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"999200000"}, query["amount"])
	assert.Equal(t, []string{solMint}, query["inputMint"])
	assert.Equal(t, []string{"50"}, query["slippageBps"])

	assert.Equal(t, "179856000", q.BuyAmount)
	assert.Equal(t, "0.18", q.Price)
	assert.Equal(t, "0.0004", q.PriceImpact)
	assert.Equal(t, "Whirlpool -> Raydium CLMM", q.Route)
	assert.Equal(t, []string{"Jupiter"}, q.Sources)
	assert.Equal(t, constants.FeeWalletSolana, q.Fee.FeeWallet)
	assert.Equal(t, models.FamilySolana, q.Fee.ChainType)
}

func TestGetQuote_SolanaFallback(t *testing.T) {
	jup := jupiterServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	agg := newAggregator(t, nil, jup, nil)

	q, err := agg.GetQuote(context.Background(), Request{
		ChainID: "solana", SellToken: solMint, BuyToken: usdcSolana, SellAmount: "1000000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "179856000", q.BuyAmount)
	assert.Equal(t, "180", q.Price)
	assert.Equal(t, "0.05", q.PriceImpact)
	assert.Equal(t, "Jupiter", q.Route)
	assert.Empty(t, q.EstimatedGas)
	assert.Empty(t, q.Error)
}

func TestGetQuote_SuiIsPricedButNotExecutable(t *testing.T) {
	agg := newAggregator(t, nil, nil, nil)

	q, err := agg.GetQuote(context.Background(), Request{
		ChainID: "sui", SellToken: suiNative, BuyToken: usdcSui, SellAmount: "1000000000",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, q.Error)
	assert.Equal(t, "Cetus (Coming Soon)", q.Route)
	assert.Equal(t, "3497200", q.BuyAmount)
	assert.Equal(t, "800000", q.Fee.FeeAmount)
	assert.Equal(t, "999200000", q.Fee.NetAmount)
	assert.Equal(t, constants.FeeWalletSui, q.Fee.FeeWallet)
	assertFeeSplit(t, q.Fee)
}

func TestGetQuote_Failures(t *testing.T) {
	agg := newAggregator(t, nil, nil, nil)
	ctx := context.Background()

	_, err := agg.GetQuote(ctx, Request{ChainID: "polygon", SellToken: "a", BuyToken: "b", SellAmount: "1"})
	assert.ErrorIs(t, err, ErrUnsupportedChain)

	_, err = agg.GetQuote(ctx, Request{
		ChainID: "ethereum", SellToken: constants.NativeTokenSentinel,
		BuyToken: "0x0000000000000000000000000000000000000001", SellAmount: "1",
	})
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = agg.GetQuote(ctx, Request{
		ChainID: "ethereum", SellToken: constants.NativeTokenSentinel, BuyToken: usdcEthereum, SellAmount: "1.5",
	})
	assert.ErrorIs(t, err, ErrMalformedAmount)
	assert.ErrorIs(t, err, fees.ErrMalformedAmount)

	bad := 10001
	_, err = agg.GetQuote(ctx, Request{
		ChainID: "ethereum", SellToken: constants.NativeTokenSentinel, BuyToken: usdcEthereum, SellAmount: "1", SlippageBps: &bad,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	var qerr *Error
	require.ErrorAs(t, err, &qerr)
	assert.NotEmpty(t, qerr.Message)
}

func TestGetQuote_UnsupportedFamily(t *testing.T) {
	log := quietLogger()
	cosmos := models.Chain{ID: "cosmos", ChainID: "cosmoshub-4", Family: models.Family("cosmos")}
	dir := assets.NewDirectory(map[string][]models.Asset{
		"cosmos": {{Address: "uatom", Symbol: "ATOM", Decimals: 6}, {Address: "uosmo", Symbol: "OSMO", Decimals: 6}},
	}, assets.Config{Logger: log})

	agg := NewAggregator(Deps{
		Chains:     chains.NewDirectory([]models.Chain{cosmos}),
		Assets:     dir,
		Fees:       fees.Default(),
		Strategies: DefaultStrategies(nil, nil, nil, log),
		Logger:     log,
	})

	_, err := agg.GetQuote(context.Background(), Request{ChainID: "cosmos", SellToken: "uatom", BuyToken: "uosmo", SellAmount: "100"})
	assert.ErrorIs(t, err, ErrUnsupportedChainFamily)
}

type fakeAssets struct {
	known      map[string]models.Asset
	discovered *models.Asset
	discovers  int
}

func (f *fakeAssets) Find(_, address string) (models.Asset, bool) {
	a, ok := f.known[address]
	return a, ok
}

func (f *fakeAssets) DiscoverOnChain(_ context.Context, chain models.Chain, address string) (models.Asset, bool) {
	f.discovers++
	if f.discovered == nil {
		return models.Asset{}, false
	}
	return *f.discovered, true
}

func TestValidateToken(t *testing.T) {
	ctx := context.Background()
	link := models.Asset{Address: "0x514910771AF9Ca656af840dff83E8264EcF986CA", Symbol: "LINK", Decimals: 18, UserAdded: true}
	fa := &fakeAssets{
		known:      map[string]models.Asset{usdcEthereum: {Address: usdcEthereum, Symbol: "USDC"}},
		discovered: &link,
	}
	agg := NewAggregator(Deps{Chains: chains.Default(), Assets: fa, Fees: fees.Default(), Logger: quietLogger()})

	a, ok, err := agg.ValidateToken(ctx, "ethereum", usdcEthereum)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "USDC", a.Symbol)
	assert.Zero(t, fa.discovers)

	a, ok, err = agg.ValidateToken(ctx, "ethereum", link.Address)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "LINK", a.Symbol)
	assert.Equal(t, 1, fa.discovers)

	_, ok, err = agg.ValidateToken(ctx, "solana", "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, fa.discovers)

	fa.discovered = nil
	_, ok, err = agg.ValidateToken(ctx, "base", "0x0000000000000000000000000000000000000002")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = agg.ValidateToken(ctx, "polygon", usdcEthereum)
	assert.ErrorIs(t, err, ErrUnsupportedChain)
}
