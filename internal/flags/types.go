package flags

import (
	"errors"
	"time"

	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/aman-zulfiqar/multichain-swap/internal/quote"
)

var (
	ErrNotFound   = errors.New("flag not found")
	ErrInvalidKey = errors.New("invalid flag key")
)

// Flag is an operator switch stored in Redis.
type Flag struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PricingKeys are the live-pricing switches read by the quote strategies.
// A missing switch means live pricing is on.
func PricingKeys() []string {
	return []string{
		quote.LiveSwitchKey(models.FamilyEVM),
		quote.LiveSwitchKey(models.FamilySolana),
		quote.LiveSwitchKey(models.FamilySui),
	}
}
