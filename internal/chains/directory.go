package chains

import (
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
)

// Directory is a read-only registry of supported chains. It is safe for
// concurrent use because nothing mutates it after construction.
type Directory struct {
	order []string
	byID  map[string]models.Chain
}

// Option customizes a Directory at construction time.
type Option func(*models.Chain)

// WithRPCOverrides replaces the RPC endpoint of chains listed in overrides.
func WithRPCOverrides(overrides map[string]string) Option {
	return func(c *models.Chain) {
		if u, ok := overrides[c.ID]; ok && u != "" {
			c.RPCURL = u
		}
	}
}

// NewDirectory builds a directory from chain definitions. Later entries with
// a duplicate id are ignored.
func NewDirectory(list []models.Chain, opts ...Option) *Directory {
	d := &Directory{
		order: make([]string, 0, len(list)),
		byID:  make(map[string]models.Chain, len(list)),
	}
	for _, c := range list {
		if _, exists := d.byID[c.ID]; exists {
			continue
		}
		for _, opt := range opts {
			opt(&c)
		}
		d.order = append(d.order, c.ID)
		d.byID[c.ID] = c
	}
	return d
}

// Get looks a chain up by its internal id (exact match).
func (d *Directory) Get(id string) (models.Chain, bool) {
	c, ok := d.byID[id]
	return c, ok
}

// GetByChainID looks a chain up by its native identifier, either a numeric
// EVM chain id or a symbolic network name.
func (d *Directory) GetByChainID(chainID any) (models.Chain, bool) {
	want, ok := normalizeChainID(chainID)
	if !ok {
		return models.Chain{}, false
	}
	for _, id := range d.order {
		c := d.byID[id]
		if have, ok := normalizeChainID(c.ChainID); ok && have == want {
			return c, true
		}
	}
	return models.Chain{}, false
}

// All returns every chain in definition order.
func (d *Directory) All() []models.Chain {
	out := make([]models.Chain, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// ByFamily returns the chains belonging to family f.
func (d *Directory) ByFamily(f models.Family) []models.Chain {
	var out []models.Chain
	for _, id := range d.order {
		if c := d.byID[id]; c.Family == f {
			out = append(out, c)
		}
	}
	return out
}

// IsFamily reports whether chain id exists and belongs to family f.
func (d *Directory) IsFamily(id string, f models.Family) bool {
	c, ok := d.byID[id]
	return ok && c.Family == f
}

func (d *Directory) IsEVM(id string) bool {
	return d.IsFamily(id, models.FamilyEVM)
}

// normalizeChainID folds the integer kinds into int64 so that 1, int64(1)
// and uint(1) compare equal. Strings compare as-is.
func normalizeChainID(v any) (any, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
		return nil, false
	case string:
		return t, true
	}
	return nil, false
}
