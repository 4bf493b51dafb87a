package quote

import (
	"context"

	"github.com/aman-zulfiqar/multichain-swap/internal/models"
)

// SuiStrategy has no live integration yet. Quotes are fully priced from the
// reference table and carry an advisory error marking them not executable.
type SuiStrategy struct {
	Mock *MockPricer
}

func (s *SuiStrategy) Price(_ context.Context, in PriceInput) (models.Quote, error) {
	return s.Mock.Quote(in, suiMockLabels)
}
