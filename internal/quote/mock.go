package quote

import (
	"math/big"

	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/shopspring/decimal"
)

// Reference prices in an abstract unit. Lookup is by exact symbol; symbols
// not listed, including lowercase variants, price at 1.
var referencePrices = map[string]string{
	"ETH":  "3500",
	"WETH": "3500",
	"SOL":  "180",
	"SUI":  "3.5",
	"USDC": "1",
	"USDT": "1",
	"DAI":  "1",
	"WBTC": "95000",
	"ARB":  "1.2",
	"OP":   "2.5",
	"JUP":  "1.1",
}

// Labels are the fixed descriptive fields attached to a mock quote.
type Labels struct {
	Route        string
	Sources      []string
	PriceImpact  string
	EstimatedGas string
	Error        string
}

var (
	evmMockLabels = Labels{
		Route:        "Uniswap V3",
		Sources:      []string{"Uniswap V3"},
		PriceImpact:  "0.1",
		EstimatedGas: "150000",
	}
	solanaMockLabels = Labels{
		Route:       "Jupiter",
		Sources:     []string{"Jupiter"},
		PriceImpact: "0.05",
	}
	suiMockLabels = Labels{
		Route:       "Cetus (Coming Soon)",
		Sources:     []string{"Cetus"},
		PriceImpact: "0.1",
		Error:       "Sui swaps coming soon",
	}
)

// MockPricer prices pairs from the reference table in exact rational
// arithmetic.
type MockPricer struct {
	prices map[string]*big.Rat
}

func NewMockPricer() *MockPricer {
	return NewMockPricerWithPrices(referencePrices)
}

// NewMockPricerWithPrices builds a pricer from symbol -> decimal price strings.
// Symbols match exactly; unparseable entries are skipped.
func NewMockPricerWithPrices(prices map[string]string) *MockPricer {
	m := &MockPricer{prices: make(map[string]*big.Rat, len(prices))}
	for sym, p := range prices {
		r, ok := new(big.Rat).SetString(p)
		if !ok || r.Sign() <= 0 {
			continue
		}
		m.prices[sym] = r
	}
	return m
}

func (m *MockPricer) price(symbol string) *big.Rat {
	if p, ok := m.prices[symbol]; ok {
		return p
	}
	return big.NewRat(1, 1)
}

// Rate is sellPrice / buyPrice.
func (m *MockPricer) Rate(sellSymbol, buySymbol string) *big.Rat {
	return new(big.Rat).Quo(m.price(sellSymbol), m.price(buySymbol))
}

// BuyAmount converts net sell base units into buy base units:
// floor(net * rate * 10^buyDecimals / 10^sellDecimals).
func (m *MockPricer) BuyAmount(net *big.Int, sell, buy models.Asset) *big.Int {
	r := new(big.Rat).SetInt(net)
	r.Mul(r, m.Rate(sell.Symbol, buy.Symbol))
	r.Mul(r, new(big.Rat).SetInt(pow10(buy.Decimals)))
	r.Quo(r, new(big.Rat).SetInt(pow10(sell.Decimals)))
	return new(big.Int).Quo(r.Num(), r.Denom())
}

// Quote builds a complete quote for in using the reference table.
func (m *MockPricer) Quote(in PriceInput, l Labels) (models.Quote, error) {
	net, ok := new(big.Int).SetString(in.Fee.NetAmount, 10)
	if !ok {
		return models.Quote{}, newError(ErrMalformedAmount, "invalid net amount %q", in.Fee.NetAmount)
	}

	return models.Quote{
		ChainID:      in.Chain.ID,
		SellToken:    in.Sell,
		BuyToken:     in.Buy,
		SellAmount:   in.SellAmount,
		BuyAmount:    m.BuyAmount(net, in.Sell, in.Buy).String(),
		Price:        ratString(m.Rate(in.Sell.Symbol, in.Buy.Symbol)),
		PriceImpact:  l.PriceImpact,
		Fee:          in.Fee,
		EstimatedGas: l.EstimatedGas,
		Route:        l.Route,
		Sources:      append([]string{}, l.Sources...),
		Error:        l.Error,
	}, nil
}

func pow10(n int) *big.Int {
	if n < 0 {
		n = 0
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

const priceScale = 18

func ratString(r *big.Rat) string {
	num := decimal.NewFromBigInt(r.Num(), 0)
	den := decimal.NewFromBigInt(r.Denom(), 0)
	return num.DivRound(den, priceScale).String()
}

// impliedPrice is out/in, or "0" when in is zero.
func impliedPrice(out, in *big.Int) string {
	if in.Sign() == 0 {
		return "0"
	}
	return ratString(new(big.Rat).SetFrac(out, in))
}
