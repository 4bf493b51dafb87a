package assets

import (
	"strings"

	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

// ValidAddress checks that address has the right shape for family. It does
// not check that anything exists at the address.
func ValidAddress(family models.Family, address string) bool {
	address = strings.TrimSpace(address)
	if address == "" {
		return false
	}

	switch family {
	case models.FamilyEVM:
		return common.IsHexAddress(address)
	case models.FamilySolana:
		b, err := base58.Decode(address)
		return err == nil && len(b) == 32
	case models.FamilySui:
		// Coin types look like 0x2::sui::SUI; plain object ids are 0x-hex.
		head := strings.SplitN(address, "::", 2)[0]
		if !strings.HasPrefix(head, "0x") || len(head) < 3 {
			return false
		}
		for _, r := range head[2:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return false
			}
		}
		return true
	}
	return false
}
