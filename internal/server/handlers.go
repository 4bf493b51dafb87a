package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aman-zulfiqar/multichain-swap/internal/ai"
	"github.com/aman-zulfiqar/multichain-swap/internal/fees"
	"github.com/aman-zulfiqar/multichain-swap/internal/flags"
	"github.com/aman-zulfiqar/multichain-swap/internal/ledger"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/aman-zulfiqar/multichain-swap/internal/quote"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// QuoteService prices swaps and validates tokens.
type QuoteService interface {
	GetQuote(ctx context.Context, req quote.Request) (models.Quote, error)
	ValidateToken(ctx context.Context, chainID, address string) (models.Asset, bool, error)
}

type ChainCatalog interface {
	All() []models.Chain
	Get(id string) (models.Chain, bool)
}

type AssetCatalog interface {
	All() map[string][]models.Asset
	ListForChain(chainID string) []models.Asset
	Search(chainID, query string) []models.Asset
	Register(chainID string, asset models.Asset) bool
}

type FeeCalculator interface {
	Compute(inputAmount string, decimals int, family models.Family) (models.FeeCalculation, error)
	Config() fees.Config
}

// SwapLedger is the swap bookkeeping surface used by the swap endpoints.
type SwapLedger interface {
	Append(ctx context.Context, in ledger.NewRecord) (models.SwapRecord, error)
	UpdateStatus(ctx context.Context, wallet, id string, status models.SwapStatus, txHash string) (bool, error)
	ListForWallet(wallet string, limit, offset int) []models.SwapRecord
	WalletStats(wallet string) ledger.WalletStats
	GlobalStats() ledger.GlobalStats
}

// FlagStore is the feature flag CRUD surface.
type FlagStore interface {
	Upsert(ctx context.Context, key string, value bool) (*flags.Flag, error)
	Get(ctx context.Context, key string) (*flags.Flag, error)
	List(ctx context.Context) ([]*flags.Flag, error)
	Delete(ctx context.Context, key string) error
}

// Asker answers natural language questions.
type Asker interface {
	Ask(ctx context.Context, question string) (*ai.AskResult, error)
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Quotes QuoteService
	Chains ChainCatalog
	Assets AssetCatalog
	Fees   FeeCalculator
	Ledger SwapLedger

	Flags FlagStore // optional, Redis-backed
	AI    Asker     // optional

	QuoteTimeout time.Duration
	DevMode      bool // include error details in responses
	Logger       *logrus.Logger
}

// ok writes a successful envelope
func (h *Handlers) ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// err returns a failed envelope. Details are only included in dev mode.
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := Envelope{Error: msg}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// domainErr maps a service error onto the envelope.
func (h *Handlers) domainErr(c echo.Context, err error, fallback string) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.log().WithError(err).WithField("path", c.Path()).Error(fallback)
	}
	return h.err(c, code, messageFor(err, fallback), map[string]any{"err": err.Error()})
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

func (h *Handlers) log() *logrus.Logger {
	if h.Logger == nil {
		return logrus.StandardLogger()
	}
	return h.Logger
}

// Health reports liveness
func (h *Handlers) Health(c echo.Context) error {
	return h.ok(c, HealthResponse{Status: "ok", Service: "multichain-swap", Timestamp: time.Now().UTC()})
}

// FlagsUpsert creates or updates a feature flag with the given key and value
func (h *Handlers) FlagsUpsert(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusServiceUnavailable, "flags are not configured", nil)
	}
	var req FlagUpsertRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := flags.ValidateKey(req.Key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, req.Key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to upsert flag", nil)
	}
	return h.ok(c, out)
}

// FlagsUpdate updates the flag named by the path
func (h *Handlers) FlagsUpdate(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusServiceUnavailable, "flags are not configured", nil)
	}
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}
	var req FlagUpdateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to update flag", nil)
	}
	return h.ok(c, out)
}

// FlagsGet returns one flag, 404 when it does not exist
func (h *Handlers) FlagsGet(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusServiceUnavailable, "flags are not configured", nil)
	}
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Get(ctx, key)
	if err != nil {
		if errors.Is(err, flags.ErrNotFound) {
			return h.err(c, http.StatusNotFound, "flag not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get flag", nil)
	}
	return h.ok(c, out)
}

// FlagsList returns all feature flags
func (h *Handlers) FlagsList(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusServiceUnavailable, "flags are not configured", nil)
	}
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Flags.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list flags", nil)
	}
	return h.ok(c, items)
}

// FlagsDelete removes a feature flag by its key
func (h *Handlers) FlagsDelete(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusServiceUnavailable, "flags are not configured", nil)
	}
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Flags.Delete(ctx, key); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete flag", nil)
	}
	return c.NoContent(http.StatusNoContent)
}

// AIAsk answers a question about recorded swaps
func (h *Handlers) AIAsk(c echo.Context) error {
	if h.AI == nil {
		return h.err(c, http.StatusServiceUnavailable, "ai is not configured", nil)
	}

	var req AIAskRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return h.err(c, http.StatusBadRequest, "question is required", map[string]any{"question": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 45*time.Second)
	defer cancel()

	start := time.Now()
	res, err := h.AI.Ask(ctx, req.Question)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "ai ask failed", map[string]any{"err": err.Error()})
	}

	return h.ok(c, AIAskResponse{SQL: res.SQL, Answer: res.Answer, Rows: res.Rows, TookMs: time.Since(start).Milliseconds()})
}
