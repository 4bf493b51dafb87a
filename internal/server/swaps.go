package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/multichain-swap/internal/assets"
	"github.com/aman-zulfiqar/multichain-swap/internal/quote"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Quote prices a swap on any supported chain
func (h *Handlers) Quote(c echo.Context) error {
	var req quote.Request
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if strings.TrimSpace(req.ChainID) == "" || strings.TrimSpace(req.SellToken) == "" ||
		strings.TrimSpace(req.BuyToken) == "" || strings.TrimSpace(req.SellAmount) == "" {
		return h.err(c, http.StatusBadRequest, "Missing required fields: chainId, sellToken, buyToken, sellAmount", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.QuoteTimeout)
	defer cancel()

	q, err := h.Quotes.GetQuote(ctx, req)
	if err != nil {
		return h.domainErr(c, err, "Failed to get quote")
	}
	return h.ok(c, q)
}

// ValidateToken resolves a token address, discovering it on-chain for EVM
// chains, and registers it so later quotes can use it.
func (h *Handlers) ValidateToken(c echo.Context) error {
	var req ValidateTokenRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.ChainID = strings.TrimSpace(req.ChainID)
	req.Address = strings.TrimSpace(req.Address)
	if req.ChainID == "" || req.Address == "" {
		return h.err(c, http.StatusBadRequest, "Missing required fields: chainId, address", nil)
	}

	// Malformed addresses never reach the RPC node
	if chain, ok := h.Chains.Get(req.ChainID); ok && !assets.ValidAddress(chain.Family, req.Address) {
		return h.err(c, http.StatusNotFound, "Token not found or invalid", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.QuoteTimeout)
	defer cancel()

	asset, found, err := h.Quotes.ValidateToken(ctx, req.ChainID, req.Address)
	if err != nil {
		return h.domainErr(c, err, "Failed to validate token")
	}
	if !found {
		return h.err(c, http.StatusNotFound, "Token not found or invalid", nil)
	}

	if h.Assets.Register(req.ChainID, asset) {
		h.log().WithFields(logrus.Fields{
			"chain":   req.ChainID,
			"address": asset.Address,
			"symbol":  asset.Symbol,
		}).Info("token registered")
	}
	return h.ok(c, asset)
}

// CalculateFee previews the fee split for an amount
func (h *Handlers) CalculateFee(c echo.Context) error {
	var req CalculateFeeRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if strings.TrimSpace(req.Amount) == "" || req.Decimals == nil || req.ChainType == "" {
		return h.err(c, http.StatusBadRequest, "Missing required fields: amount, decimals, chainType", nil)
	}

	out, err := h.Fees.Compute(req.Amount, *req.Decimals, req.ChainType)
	if err != nil {
		return h.domainErr(c, err, "Failed to calculate fee")
	}
	return h.ok(c, out)
}

// RecordSwap appends a swap to the ledger
func (h *Handlers) RecordSwap(c echo.Context) error {
	var req RecordSwapRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if strings.TrimSpace(req.WalletAddress) == "" || strings.TrimSpace(req.ChainID) == "" ||
		req.FromToken == nil || req.ToToken == nil {
		return h.err(c, http.StatusBadRequest, "Missing required fields", nil)
	}

	rec, err := h.Ledger.Append(c.Request().Context(), req.toRecord())
	if err != nil {
		return h.domainErr(c, err, "Failed to record swap")
	}
	return h.ok(c, rec)
}

// UpdateSwapStatus sets the status of a recorded swap. An unknown id is not
// an error; the response reports whether anything changed.
func (h *Handlers) UpdateSwapStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if strings.TrimSpace(req.WalletAddress) == "" || req.Status == "" {
		return h.err(c, http.StatusBadRequest, "Missing required fields: walletAddress, status", nil)
	}

	updated, err := h.Ledger.UpdateStatus(c.Request().Context(), req.WalletAddress, c.Param("id"), req.Status, req.TxHash)
	if err != nil {
		return h.domainErr(c, err, "Failed to update swap status")
	}
	return h.ok(c, UpdateStatusResponse{Updated: updated})
}

// History pages through a wallet's swaps, newest first
func (h *Handlers) History(c echo.Context) error {
	wallet := strings.TrimSpace(c.QueryParam("walletAddress"))
	if wallet == "" {
		return h.err(c, http.StatusBadRequest, "walletAddress is required", nil)
	}
	limit := queryInt(c, "limit")
	offset := queryInt(c, "offset")
	return h.ok(c, h.Ledger.ListForWallet(wallet, limit, offset))
}

// Stats returns per-wallet counts when walletAddress is given, else the
// global aggregates.
func (h *Handlers) Stats(c echo.Context) error {
	if wallet := strings.TrimSpace(c.QueryParam("walletAddress")); wallet != "" {
		return h.ok(c, h.Ledger.WalletStats(wallet))
	}
	return h.ok(c, h.Ledger.GlobalStats())
}

// queryInt parses an optional integer query parameter. Anything unparsable
// reads as 0, which the ledger treats as "use the default".
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return 0
	}
	return n
}
