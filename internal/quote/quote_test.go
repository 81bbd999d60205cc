package quote

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteservice/internal/iex"
)

func TestFailed_JSONCarriesOnlySymbolAndStatus(t *testing.T) {
	b, err := json.Marshal(Failed("AAPL"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"AAPL","status":"FAILED"}`, string(b))
}

func TestFromUpstream(t *testing.T) {
	q := FromUpstream(&iex.Quote{
		Symbol:          "MSFT",
		CompanyName:     "Microsoft Corporation",
		PrimaryExchange: "NASDAQ",
		LatestPrice:     420.55,
		Change:          2.1,
		ChangePercent:   0.005,
		Open:            418.0,
		High:            421.3,
		Low:             417.2,
		PreviousClose:   418.45,
		LatestVolume:    23_000_000,
		MarketCap:       3_100_000_000_000,
		LatestUpdate:    1735849800000,
	})

	assert.Equal(t, StatusOK, q.Status)
	assert.Equal(t, "MSFT", q.Symbol)
	assert.Equal(t, "Microsoft Corporation", q.Name)
	assert.InDelta(t, 420.55, q.LastPrice, 1e-9)
	assert.Equal(t, int64(23_000_000), q.Volume)
	assert.Equal(t, time.Date(2025, 1, 2, 20, 30, 0, 0, time.UTC), q.UpdatedAt)
}

func TestFromUpstream_NoTimestamp(t *testing.T) {
	q := FromUpstream(&iex.Quote{Symbol: "MSFT"})
	assert.True(t, q.UpdatedAt.IsZero())

	b, err := json.Marshal(q)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "updated_at")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "upstream_error", OutcomeUpstreamError.String())
}
