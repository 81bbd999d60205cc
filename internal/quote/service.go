package quote

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"quoteservice/internal/iex"
)

// BreakerSettings configures the per-endpoint circuit breakers.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker once reached. Defaults to 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
	// HalfOpenRequests limits probe requests in the half-open state.
	HalfOpenRequests uint32
}

// Service fetches quotes from the upstream client and maps them to the
// public shape. Upstream failures never surface as errors: callers get a
// FAILED placeholder instead, so one bad upstream cycle degrades responses
// rather than failing them.
type Service struct {
	client  *iex.Client
	quoteCB *gobreaker.CircuitBreaker
	batchCB *gobreaker.CircuitBreaker
}

func NewService(client *iex.Client, bs BreakerSettings) *Service {
	if bs.ConsecutiveFailures == 0 {
		bs.ConsecutiveFailures = 5
	}
	if bs.OpenTimeout <= 0 {
		bs.OpenTimeout = 30 * time.Second
	}
	return &Service{
		client:  client,
		quoteCB: newBreaker("upstream-quote", bs),
		batchCB: newBreaker("upstream-batch", bs),
	}
}

func newBreaker(name string, bs BreakerSettings) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: bs.HalfOpenRequests,
		Timeout:     bs.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.ConsecutiveFailures
		},
		// An unknown symbol is a valid upstream answer and must not trip
		// the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, iex.ErrSymbolNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			zap.L().Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Lookup retrieves a quote for one symbol and reports how the lookup went.
// The returned quote is FAILED unless the outcome is OutcomeOK.
func (s *Service) Lookup(ctx context.Context, symbol string) (Quote, Outcome) {
	v, err := s.quoteCB.Execute(func() (interface{}, error) {
		return s.client.GetQuote(ctx, symbol)
	})
	if err != nil {
		if errors.Is(err, iex.ErrSymbolNotFound) {
			zap.L().Debug("symbol not found upstream", zap.String("symbol", symbol))
			return Failed(symbol), OutcomeNotFound
		}
		zap.L().Warn("quote lookup degraded",
			zap.String("symbol", symbol),
			zap.Error(err))
		return Failed(symbol), OutcomeUpstreamError
	}
	return FromUpstream(v.(*iex.Quote)), OutcomeOK
}

// GetQuote retrieves a quote for one symbol, degrading to a FAILED
// placeholder on any upstream problem.
func (s *Service) GetQuote(ctx context.Context, symbol string) Quote {
	q, _ := s.Lookup(ctx, symbol)
	return q
}

// GetQuotes retrieves quotes for a comma-separated symbol list with a single
// upstream batch call. The result has one entry per requested symbol in
// request order; symbols missing from the upstream response come back as
// FAILED placeholders, and a failed batch call yields all-FAILED results.
func (s *Service) GetQuotes(ctx context.Context, csvSymbols string) []Quote {
	symbols := splitSymbols(csvSymbols)
	if len(symbols) == 0 {
		return nil
	}

	var bySymbol map[string]iex.Quote
	v, err := s.batchCB.Execute(func() (interface{}, error) {
		return s.client.GetBatchQuotes(ctx, symbols)
	})
	if err != nil {
		zap.L().Warn("batch quote lookup degraded",
			zap.Strings("symbols", symbols),
			zap.Error(err))
	} else {
		bySymbol = v.(map[string]iex.Quote)
	}

	out := make([]Quote, 0, len(symbols))
	for _, symbol := range symbols {
		q, ok := bySymbol[symbol]
		if !ok {
			if err == nil {
				zap.L().Warn("quote missing from batch response", zap.String("symbol", symbol))
			}
			out = append(out, Failed(symbol))
			continue
		}
		out = append(out, FromUpstream(&q))
	}
	return out
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
