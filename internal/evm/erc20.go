package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// ERC-20 metadata ABI. Packing these methods yields the standard selectors
// symbol() 0x95d89b41, name() 0x06fdde03 and decimals() 0x313ce567.
const erc20MetadataABI = `[
	{"constant": true, "inputs": [], "name": "name", "outputs": [{"name": "", "type": "string"}], "type": "function"},
	{"constant": true, "inputs": [], "name": "symbol", "outputs": [{"name": "", "type": "string"}], "type": "function"},
	{"constant": true, "inputs": [], "name": "decimals", "outputs": [{"name": "", "type": "uint8"}], "type": "function"}
]`

const defaultDecimals = 18

var (
	// ErrInvalidAddress is returned for inputs that are not 20-byte hex addresses.
	ErrInvalidAddress = errors.New("invalid evm address")
	// ErrNotAToken is returned when symbol() yields nothing usable.
	ErrNotAToken = errors.New("address is not an erc20 token contract")
)

var (
	parsedABI  = mustParseABI()
	stringArgs = mustStringArgs()
)

func mustParseABI() abi.ABI {
	a, err := abi.JSON(strings.NewReader(erc20MetadataABI))
	if err != nil {
		panic(fmt.Sprintf("parse erc20 abi: %v", err))
	}
	return a
}

func mustStringArgs() abi.Arguments {
	t, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(fmt.Sprintf("abi string type: %v", err))
	}
	return abi.Arguments{{Type: t}}
}

// TokenMetadata is what a contract reports about itself.
type TokenMetadata struct {
	Address  string
	Symbol   string
	Name     string
	Decimals int
}

// Caller is the subset of ethclient.Client used for read-only calls.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

// Dialer opens a Caller for an RPC endpoint.
type Dialer func(ctx context.Context, rpcURL string) (Caller, error)

// DialEthclient is the production Dialer.
func DialEthclient(ctx context.Context, rpcURL string) (Caller, error) {
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// TokenInspector reads ERC-20 metadata straight from a chain. Every call is
// a single attempt; callers decide what a failure means.
type TokenInspector struct {
	dial   Dialer
	logger *logrus.Logger
}

// NewTokenInspector creates an inspector. A nil dial uses DialEthclient.
func NewTokenInspector(dial Dialer, logger *logrus.Logger) *TokenInspector {
	if dial == nil {
		dial = DialEthclient
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &TokenInspector{dial: dial, logger: logger}
}

// Inspect issues symbol(), name() and decimals() against address.
func (i *TokenInspector) Inspect(ctx context.Context, rpcURL, address string) (*TokenMetadata, error) {
	if !common.IsHexAddress(address) {
		return nil, ErrInvalidAddress
	}
	contract := common.HexToAddress(address)

	client, err := i.dial(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	rawSymbol, err := i.call(ctx, client, contract, "symbol")
	if err != nil {
		return nil, fmt.Errorf("call symbol: %w", err)
	}
	symbol, ok := DecodeString(rawSymbol)
	if !ok {
		return nil, ErrNotAToken
	}

	// name() and decimals() are optional in the standard.
	name := symbol
	if rawName, err := i.call(ctx, client, contract, "name"); err != nil {
		i.logger.WithError(err).WithField("token", address).Debug("name() call failed")
	} else if n, ok := DecodeString(rawName); ok {
		name = n
	}

	decimals := defaultDecimals
	if rawDecimals, err := i.call(ctx, client, contract, "decimals"); err != nil {
		i.logger.WithError(err).WithField("token", address).Debug("decimals() call failed")
	} else if d, ok := DecodeDecimals(rawDecimals); ok {
		decimals = d
	}

	return &TokenMetadata{
		Address:  address,
		Symbol:   symbol,
		Name:     name,
		Decimals: decimals,
	}, nil
}

func (i *TokenInspector) call(ctx context.Context, client Caller, to common.Address, method string) ([]byte, error) {
	data, err := parsedABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	return client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

// DecodeString decodes a string return value. Payloads of 64 bytes or more
// are read as an ABI dynamic string (offset, length, UTF-8 bytes); shorter
// ones, or dynamic payloads that fail to decode, as a legacy bytes32 with
// trailing NULs. An empty result reports false.
func DecodeString(raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	if len(raw) >= 64 {
		if vals, err := stringArgs.Unpack(raw); err == nil && len(vals) == 1 {
			if s, ok := vals[0].(string); ok {
				return cleanString(s)
			}
		}
	}

	fixed := raw
	if len(fixed) > 32 {
		fixed = fixed[:32]
	}
	return cleanString(string(fixed))
}

// DecodeDecimals reads a uint8-range decimals() result. An empty payload
// reports false so the caller can apply its default.
func DecodeDecimals(raw []byte) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	v := new(big.Int).SetBytes(raw)
	if !v.IsInt64() || v.Int64() > 255 {
		return 0, false
	}
	return int(v.Int64()), true
}

func cleanString(s string) (string, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
	if s == "" || !utf8.ValidString(s) {
		return "", false
	}
	return s, true
}
