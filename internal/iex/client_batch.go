package iex

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// batchEntry wraps the per-symbol payload of the batch endpoint.
type batchEntry struct {
	Quote *Quote `json:"quote"`
}

// GetBatchQuotes retrieves quotes for multiple symbols in a single request.
// The result is keyed by symbol; symbols the upstream does not know are
// simply absent from the map, which is not an error.
func (c *Client) GetBatchQuotes(ctx context.Context, symbols []string, opts ...ClientOption) (map[string]Quote, error) {
	override := c.override(opts)

	query := maps.Clone(override.query)
	query.Add("symbols", strings.Join(symbols, ","))
	query.Add("types", "quote")

	u := fmt.Sprintf("%s/stock/market/batch?%s", override.baseURL, query.Encode())
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

	var body map[string]batchEntry
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding batch response: %w", err)
	}

	quotes := make(map[string]Quote, len(body))
	for symbol, entry := range body {
		if entry.Quote == nil {
			continue
		}
		quotes[symbol] = *entry.Quote
	}
	return quotes, nil
}
