package iex_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"quoteservice/internal/iex"
)

func TestGetSymbols(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Contains(t, req.URL.Path, "/ref-data/symbols")
			require.Equal(t, "test-key", req.URL.Query().Get("token"))

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode([]map[string]any{
				{"symbol": "AAPL", "name": "Apple Inc.", "exchange": "NASDAQ", "isEnabled": true},
				{"symbol": "MSFT", "name": "Microsoft Corporation", "exchange": "NASDAQ"},
			}))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	client, err := iex.NewClient("test-key", iex.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call GetSymbols
	symbols, err := client.GetSymbols(t.Context())
	require.NoError(t, err)

	// Assert: records decoded, unknown fields ignored
	require.Len(t, symbols, 2)
	require.Equal(t, iex.Symbol{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"}, symbols[0])
	require.Equal(t, iex.Symbol{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"}, symbols[1])
}

func TestGetSymbols_Unauthorized(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusForbidden,
			Body:       io.NopCloser(bytes.NewBufferString("")),
		}, nil).
		Times(1)

	client, err := iex.NewClient("bad-key", iex.WithHTTPClient(httpClient))
	require.NoError(t, err)

	symbols, err := client.GetSymbols(t.Context())
	require.Error(t, err)
	require.Nil(t, symbols)
}
