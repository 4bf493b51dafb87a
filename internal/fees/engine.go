package fees

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is returned for amounts that are not non-negative base-10 integers.
var ErrMalformedAmount = errors.New("malformed amount")

// Wallets are the fee destinations per chain family.
type Wallets struct {
	EVMDefault string `json:"evmDefault"`
	Solana     string `json:"solana"`
	Sui        string `json:"sui"`
}

// DefaultWallets returns the production fee wallets.
func DefaultWallets() Wallets {
	return Wallets{
		EVMDefault: constants.FeeWalletEVM,
		Solana:     constants.FeeWalletSolana,
		Sui:        constants.FeeWalletSui,
	}
}

// Config is the public fee configuration.
type Config struct {
	FeePercent        float64 `json:"feePercent"`
	FeePercentDisplay string  `json:"feePercentDisplay"`
	FeeWallets        Wallets `json:"feeWallets"`
}

// Engine applies the protocol fee in fixed-point integer arithmetic.
type Engine struct {
	percent     float64
	numerator   *big.Int
	denominator *big.Int
	wallets     Wallets
}

// NewEngine builds an engine for fraction percent (e.g. 0.0008).
func NewEngine(percent float64, wallets Wallets) *Engine {
	return &Engine{
		percent:     percent,
		numerator:   big.NewInt(int64(math.Round(percent * constants.FeeScale))),
		denominator: big.NewInt(constants.FeeScale),
		wallets:     wallets,
	}
}

// Default returns the production engine (8 bps, default wallets).
func Default() *Engine {
	return NewEngine(constants.FeePercent, DefaultWallets())
}

// Percent returns the fee fraction.
func (e *Engine) Percent() float64 {
	return e.percent
}

// Wallet returns the fee destination for family. Any family that is not
// solana or sui is treated as EVM.
func (e *Engine) Wallet(family models.Family) string {
	switch family {
	case models.FamilySolana:
		return e.wallets.Solana
	case models.FamilySui:
		return e.wallets.Sui
	default:
		return e.wallets.EVMDefault
	}
}

// Compute splits inputAmount into fee and net parts. The fee is
// floor(input * numerator / denominator); net is the exact remainder, so
// fee + net == input. decimals does not affect the split.
func (e *Engine) Compute(inputAmount string, decimals int, family models.Family) (models.FeeCalculation, error) {
	in, err := ParseAmount(inputAmount)
	if err != nil {
		return models.FeeCalculation{}, err
	}

	fee := new(big.Int).Mul(in, e.numerator)
	fee.Quo(fee, e.denominator)
	net := new(big.Int).Sub(in, fee)

	return models.FeeCalculation{
		InputAmount: in.String(),
		FeeAmount:   fee.String(),
		FeePercent:  e.percent,
		NetAmount:   net.String(),
		FeeWallet:   e.Wallet(family),
		ChainType:   family,
	}, nil
}

// Config returns the fee configuration for display.
func (e *Engine) Config() Config {
	return Config{
		FeePercent:        e.percent,
		FeePercentDisplay: decimal.NewFromFloat(e.percent*100).StringFixed(2) + "%",
		FeeWallets:        e.wallets,
	}
}

// FormatDisplay renders a raw base-unit amount as "0.000800 ETH". For display
// only, never for settlement.
func FormatDisplay(amount string, decimals int, symbol string) (string, error) {
	v, err := ParseAmount(amount)
	if err != nil {
		return "", err
	}
	d := decimal.NewFromBigInt(v, -int32(decimals))
	return fmt.Sprintf("%s %s", d.StringFixed(6), symbol), nil
}

// ParseAmount parses a non-negative base-10 integer string.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is negative", ErrMalformedAmount, s)
	}
	return v, nil
}
