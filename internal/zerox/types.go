package zerox

type QuoteRequest struct {
	ChainID      int64
	SellToken    string
	BuyToken     string
	SellAmount   string // base units, after fee
	SlippageBps  int
	TakerAddress string
}

type QuoteResponse struct {
	Price                string   `json:"price"`
	GuaranteedPrice      string   `json:"guaranteedPrice"`
	To                   string   `json:"to"`
	Data                 string   `json:"data"`
	Value                string   `json:"value"`
	Gas                  string   `json:"gas"`
	EstimatedGas         string   `json:"estimatedGas"`
	BuyAmount            string   `json:"buyAmount"`
	SellAmount           string   `json:"sellAmount"`
	AllowanceTarget      string   `json:"allowanceTarget"`
	EstimatedPriceImpact string   `json:"estimatedPriceImpact"`
	Sources              []Source `json:"sources"`
}

// Source is one liquidity source; 0x lists every source with its share,
// including zero-share ones.
type Source struct {
	Name       string `json:"name"`
	Proportion string `json:"proportion"`
}

// ActiveSources returns the names of sources with a non-zero share. A missing
// proportion counts as active.
func (r *QuoteResponse) ActiveSources() []string {
	out := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		if s.Name == "" {
			continue
		}
		switch s.Proportion {
		case "0", "0.0", "0.00":
			continue
		}
		out = append(out, s.Name)
	}
	return out
}
