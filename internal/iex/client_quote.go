package iex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Quote is a raw quote record as returned by the upstream API.
// Unknown fields in the payload are ignored.
type Quote struct {
	Symbol          string  `json:"symbol"`
	CompanyName     string  `json:"companyName"`
	PrimaryExchange string  `json:"primaryExchange"`
	LatestPrice     float64 `json:"latestPrice"`
	Change          float64 `json:"change"`
	ChangePercent   float64 `json:"changePercent"`
	Open            float64 `json:"open"`
	High            float64 `json:"high"`
	Low             float64 `json:"low"`
	PreviousClose   float64 `json:"previousClose"`
	LatestVolume    int64   `json:"latestVolume"`
	MarketCap       int64   `json:"marketCap"`
	// LatestUpdate is the quote time in epoch milliseconds.
	LatestUpdate int64 `json:"latestUpdate"`
}

// GetQuote retrieves the live quote for a single symbol.
// A quote that comes back empty or without a symbol is reported as
// ErrSymbolNotFound.
func (c *Client) GetQuote(ctx context.Context, symbol string, opts ...ClientOption) (*Quote, error) {
	override := c.override(opts)

	u := fmt.Sprintf("%s/stock/%s/quote?%s", override.baseURL, url.PathEscape(symbol), override.query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		if err == ErrSymbolNotFound {
			return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
		}
		return nil, err
	}

	var quote Quote
	if err := json.NewDecoder(res.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("decoding quote response: %w", err)
	}
	if quote.Symbol == "" {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return &quote, nil
}
