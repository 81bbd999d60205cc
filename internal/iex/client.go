package iex

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// defaultBaseURL is the public IEX-compatible API root.
const defaultBaseURL = "https://cloud.iexapis.com/v1"

// ErrSymbolNotFound is returned when the upstream API has no data for a
// requested symbol, either as a 404 or as a response carrying no symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=iex_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for an IEX-style market data API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// ClientOption is a configuration option for the client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient creates a new upstream API client. The token, when set, is sent
// as a query parameter on every request.
func NewClient(token string, options ...ClientOption) (*Client, error) {
	var client = &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	if token != "" {
		client.query.Add("token", token)
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// override returns a shallow copy of the client with per-call options applied.
func (c *Client) override(opts []ClientOption) *Client {
	var override = &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}
	return override
}

// checkStatus maps non-2xx upstream statuses to errors. 404 means the
// requested resource does not exist and is reported as ErrSymbolNotFound.
func checkStatus(res *http.Response) error {
	switch res.StatusCode {
	case http.StatusOK:
		return nil

	case http.StatusNotFound:
		return ErrSymbolNotFound

	case http.StatusForbidden, http.StatusUnauthorized:
		return fmt.Errorf("unauthorized")

	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited")

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return fmt.Errorf("unexpected status code %d: %s", res.StatusCode, string(b))
	}
}
