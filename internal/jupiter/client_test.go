package jupiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Quote(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"inputMint":"So11111111111111111111111111111111111111112",
			"outputMint":"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			"inAmount":"999200000",
			"outAmount":"179856000",
			"priceImpactPct":"0.0012",
			"routePlan":[{"swapInfo":{"label":"Orca"},"percent":100},{"swapInfo":{"label":""}},{"swapInfo":{"label":"Raydium"}}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	slippage := 100
	res, err := c.Quote(context.Background(), QuoteRequest{
		InputMint:   "So11111111111111111111111111111111111111112",
		OutputMint:  "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Amount:      "999200000",
		SlippageBps: &slippage,
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/quote", got.URL.Path)
	assert.Equal(t, "999200000", got.URL.Query().Get("amount"))
	assert.Equal(t, "100", got.URL.Query().Get("slippageBps"))
	assert.Equal(t, "secret", got.Header.Get("x-api-key"))

	assert.Equal(t, "179856000", res.OutAmount)
	assert.Equal(t, []string{"Orca", "Raydium"}, res.RouteLabels())
}

func TestClient_QuoteDefaultSlippage(t *testing.T) {
	var slippage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slippage = r.URL.Query().Get("slippageBps")
		_, _ = w.Write([]byte(`{"outAmount":"1"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Quote(context.Background(), QuoteRequest{InputMint: "a", OutputMint: "b", Amount: "1"})
	require.NoError(t, err)
	assert.Equal(t, "50", slippage)
}

func TestClient_QuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Could not find any route"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Quote(context.Background(), QuoteRequest{InputMint: "a", OutputMint: "b", Amount: "1"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Contains(t, httpErr.Error(), "Could not find any route")
}

func TestClient_QuoteMissingOutAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"inAmount":"1"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Quote(context.Background(), QuoteRequest{InputMint: "a", OutputMint: "b", Amount: "1"})
	assert.Error(t, err)
}

func TestClient_QuoteRequiresFields(t *testing.T) {
	c := NewClient("", "")
	assert.Equal(t, "https://quote-api.jup.ag/v6", c.BaseURL)

	_, err := c.Quote(context.Background(), QuoteRequest{OutputMint: "b", Amount: "1"})
	assert.Error(t, err)
	_, err = c.Quote(context.Background(), QuoteRequest{InputMint: "a", Amount: "1"})
	assert.Error(t, err)
	_, err = c.Quote(context.Background(), QuoteRequest{InputMint: "a", OutputMint: "b"})
	assert.Error(t, err)
}
