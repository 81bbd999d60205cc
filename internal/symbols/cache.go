package symbols

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"quoteservice/internal/iex"
	"quoteservice/internal/quote"
)

// maxSearchResults caps how many companies a search may return.
const maxSearchResults = 10

// Lister is the part of the upstream client the cache needs.
type Lister interface {
	GetSymbols(ctx context.Context, opts ...iex.ClientOption) ([]iex.Symbol, error)
}

// Cache holds the full company universe, loaded once at startup.
// It is read-only after Load returns, so lookups need no locking; a fresh
// universe requires a process restart.
type Cache struct {
	companies []quote.CompanyInfo
}

// Load fetches the symbol universe with a single blocking call and builds
// the cache from it.
func Load(ctx context.Context, lister Lister) (*Cache, error) {
	zap.L().Info("initializing symbols into memory")
	listed, err := lister.GetSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}

	companies := make([]quote.CompanyInfo, 0, len(listed))
	for _, s := range listed {
		companies = append(companies, quote.FromSymbol(s))
	}
	zap.L().Info("finished initializing symbols into memory", zap.Int("companies", len(companies)))
	return &Cache{companies: companies}, nil
}

// Search returns up to 10 companies whose name contains the given string,
// case-insensitively.
func (c *Cache) Search(name string) []quote.CompanyInfo {
	needle := strings.ToLower(name)
	out := make([]quote.CompanyInfo, 0, maxSearchResults)
	for _, company := range c.companies {
		if !strings.Contains(strings.ToLower(company.Name), needle) {
			continue
		}
		out = append(out, company)
		if len(out) == maxSearchResults {
			break
		}
	}
	return out
}

// Len reports how many companies are loaded.
func (c *Cache) Len() int {
	return len(c.companies)
}
