package jupiter

import "strings"

type QuoteRequest struct {
	InputMint  string
	OutputMint string
	Amount     string // raw integer as string (u64)

	SlippageBps      *int
	OnlyDirectRoutes *bool
}

type QuoteResponse struct {
	InputMint      string          `json:"inputMint"`
	OutputMint     string          `json:"outputMint"`
	InAmount       string          `json:"inAmount"`
	OutAmount      string          `json:"outAmount"`
	SwapMode       string          `json:"swapMode"`
	SlippageBps    int             `json:"slippageBps"`
	PriceImpactPct string          `json:"priceImpactPct"`
	RoutePlan      []RoutePlanStep `json:"routePlan"`
}

type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  int      `json:"percent"`
}

type SwapInfo struct {
	AmmKey    string `json:"ammKey"`
	Label     string `json:"label,omitempty"`
	InAmount  string `json:"inAmount"`
	OutAmount string `json:"outAmount"`
}

// RouteLabels returns the non-empty AMM labels of the route plan in order.
func (r *QuoteResponse) RouteLabels() []string {
	out := make([]string, 0, len(r.RoutePlan))
	for _, step := range r.RoutePlan {
		if l := strings.TrimSpace(step.SwapInfo.Label); l != "" {
			out = append(out, l)
		}
	}
	return out
}
