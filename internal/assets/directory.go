package assets

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aman-zulfiqar/multichain-swap/internal/evm"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/sirupsen/logrus"
)

// Discoverer reads token metadata from a chain.
type Discoverer interface {
	Inspect(ctx context.Context, rpcURL, address string) (*evm.TokenMetadata, error)
}

// Directory is the per-chain token catalog. Built-in assets are seeded at
// construction; user-added assets are appended at runtime and live for the
// process lifetime.
type Directory struct {
	mu     sync.RWMutex
	tokens map[string][]models.Asset // chain id -> ordered assets

	discoverer Discoverer
	logger     *logrus.Logger
}

// Config holds optional collaborators for a Directory.
type Config struct {
	Discoverer Discoverer
	Logger     *logrus.Logger
}

// NewDirectory copies seed into a new directory.
func NewDirectory(seed map[string][]models.Asset, cfg Config) *Directory {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	tokens := make(map[string][]models.Asset, len(seed))
	for chainID, list := range seed {
		tokens[chainID] = append([]models.Asset(nil), list...)
	}
	return &Directory{
		tokens:     tokens,
		discoverer: cfg.Discoverer,
		logger:     cfg.Logger,
	}
}

// ListForChain returns the chain's assets, built-ins first. The slice is a copy.
func (d *Directory) ListForChain(chainID string) []models.Asset {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]models.Asset{}, d.tokens[chainID]...)
}

// All returns a copy of every chain's asset list.
func (d *Directory) All() map[string][]models.Asset {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string][]models.Asset, len(d.tokens))
	for chainID, list := range d.tokens {
		out[chainID] = append([]models.Asset{}, list...)
	}
	return out
}

// Find looks an asset up by address, ignoring case.
func (d *Directory) Find(chainID, address string) (models.Asset, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := indexOf(d.tokens[chainID], address)
	if i < 0 {
		return models.Asset{}, false
	}
	return d.tokens[chainID][i], true
}

// Search returns assets whose symbol, name or address contains query,
// ignoring case, in directory order.
func (d *Directory) Search(chainID, query string) []models.Asset {
	q := strings.ToLower(query)

	d.mu.RLock()
	defer d.mu.RUnlock()

	out := []models.Asset{}
	for _, a := range d.tokens[chainID] {
		if strings.Contains(strings.ToLower(a.Symbol), q) ||
			strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Address), q) {
			out = append(out, a)
		}
	}
	return out
}

// Register appends asset to chainID unless an asset with the same address
// (ignoring case) already exists. It reports whether the asset was inserted.
func (d *Directory) Register(chainID string, asset models.Asset) bool {
	asset.ChainID = chainID
	asset.UserAdded = true

	d.mu.Lock()
	defer d.mu.Unlock()

	if indexOf(d.tokens[chainID], asset.Address) >= 0 {
		return false
	}
	d.tokens[chainID] = append(d.tokens[chainID], asset)
	return true
}

// DiscoverOnChain reads symbol, name and decimals for an unlisted EVM
// contract. Non-EVM chains, invalid contracts and network failures all
// report absence.
func (d *Directory) DiscoverOnChain(ctx context.Context, chain models.Chain, address string) (models.Asset, bool) {
	if chain.Family != models.FamilyEVM || d.discoverer == nil {
		return models.Asset{}, false
	}

	md, err := d.discoverer.Inspect(ctx, chain.RPCURL, address)
	if err != nil {
		entry := d.logger.WithFields(logrus.Fields{
			"chain":   chain.ID,
			"address": address,
		}).WithError(err)
		if errors.Is(err, evm.ErrNotAToken) || errors.Is(err, evm.ErrInvalidAddress) {
			entry.Debug("token discovery found no contract")
		} else {
			entry.Warn("token discovery failed")
		}
		return models.Asset{}, false
	}

	return models.Asset{
		Address:   address,
		Symbol:    md.Symbol,
		Name:      md.Name,
		Decimals:  md.Decimals,
		ChainID:   chain.ID,
		UserAdded: true,
	}, true
}

func indexOf(list []models.Asset, address string) int {
	for i, a := range list {
		if strings.EqualFold(a.Address, address) {
			return i
		}
	}
	return -1
}
