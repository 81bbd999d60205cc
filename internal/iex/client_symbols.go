package iex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Symbol is a raw symbol listing record. Unknown fields are ignored.
type Symbol struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// GetSymbols retrieves the full symbol universe from the listing endpoint.
func (c *Client) GetSymbols(ctx context.Context, opts ...ClientOption) ([]Symbol, error) {
	override := c.override(opts)

	u := fmt.Sprintf("%s/ref-data/symbols?%s", override.baseURL, override.query.Encode())
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
		return nil, err
	}

	var symbols []Symbol
	if err := json.NewDecoder(res.Body).Decode(&symbols); err != nil {
		return nil, fmt.Errorf("decoding symbols response: %w", err)
	}
	return symbols, nil
}
