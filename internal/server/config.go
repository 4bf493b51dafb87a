package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ListChains lists every supported chain
func (h *Handlers) ListChains(c echo.Context) error {
	return h.ok(c, h.Chains.All())
}

// GetChain returns one chain by its internal id
func (h *Handlers) GetChain(c echo.Context) error {
	chain, ok := h.Chains.Get(c.Param("chainId"))
	if !ok {
		return h.err(c, http.StatusNotFound, "Chain not found", nil)
	}
	return h.ok(c, chain)
}

// ListTokens lists the tokens of one chain, or every chain's tokens keyed by
// chain id when no chainId is given.
func (h *Handlers) ListTokens(c echo.Context) error {
	if chainID := strings.TrimSpace(c.QueryParam("chainId")); chainID != "" {
		return h.ok(c, h.Assets.ListForChain(chainID))
	}
	return h.ok(c, h.Assets.All())
}

// SearchTokens matches query against symbol, name and address
func (h *Handlers) SearchTokens(c echo.Context) error {
	chainID := strings.TrimSpace(c.QueryParam("chainId"))
	query := strings.TrimSpace(c.QueryParam("query"))
	if chainID == "" || query == "" {
		return h.err(c, http.StatusBadRequest, "chainId and query are required", nil)
	}
	return h.ok(c, h.Assets.Search(chainID, query))
}

// FeeConfig reports the protocol fee and its collection wallets
func (h *Handlers) FeeConfig(c echo.Context) error {
	return h.ok(c, h.Fees.Config())
}
