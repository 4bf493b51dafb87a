package zerox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
)

// Client talks to the 0x swap/v1 quote API. One client serves every EVM
// chain; the base URL is picked per request from the numeric chain id.
type Client struct {
	APIKey  string
	BaseURL map[int64]string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	urls := make(map[int64]string, len(constants.ZeroXAPIURLs))
	for id, u := range constants.ZeroXAPIURLs {
		urls[id] = u
	}
	return &Client{
		APIKey:  strings.TrimSpace(apiKey),
		BaseURL: urls,
		HTTP: &http.Client{
			Timeout: constants.UpstreamTimeout,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("0x http %d", e.StatusCode)
	}
	return fmt.Sprintf("0x http %d: %s", e.StatusCode, b)
}

// Supports reports whether a 0x endpoint is known for chainID.
func (c *Client) Supports(chainID int64) bool {
	_, ok := c.BaseURL[chainID]
	return ok
}

func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	base, ok := c.BaseURL[req.ChainID]
	if !ok {
		return nil, fmt.Errorf("0x: no endpoint for chain %d", req.ChainID)
	}
	if strings.TrimSpace(req.SellToken) == "" || strings.TrimSpace(req.BuyToken) == "" {
		return nil, fmt.Errorf("sellToken and buyToken are required")
	}
	if strings.TrimSpace(req.SellAmount) == "" {
		return nil, fmt.Errorf("sellAmount is required")
	}

	q := url.Values{}
	q.Set("sellToken", req.SellToken)
	q.Set("buyToken", req.BuyToken)
	q.Set("sellAmount", req.SellAmount)
	q.Set("slippagePercentage", strconv.FormatFloat(float64(req.SlippageBps)/10000, 'f', -1, 64))
	if req.TakerAddress != "" {
		q.Set("takerAddress", req.TakerAddress)
	}

	u := strings.TrimRight(base, "/") + "/swap/v1/quote?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("accept", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("0x-api-key", c.APIKey)
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var out QuoteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode 0x quote response: %w", err)
	}
	if strings.TrimSpace(out.BuyAmount) == "" {
		return nil, fmt.Errorf("0x quote response missing buyAmount")
	}
	return &out, nil
}
