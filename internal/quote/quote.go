package quote

import (
	"time"

	"quoteservice/internal/iex"
)

// Status marks whether a quote carries live data.
type Status string

const (
	StatusOK     Status = "OK"
	StatusFailed Status = "FAILED"
)

// Quote is the public quote shape served by this API. A FAILED quote carries
// only the requested symbol and the status; every other field is omitted.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Status        Status    `json:"status"`
	Name          string    `json:"name,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	LastPrice     float64   `json:"last_price,omitempty"`
	Change        float64   `json:"change,omitempty"`
	ChangePercent float64   `json:"change_percent,omitempty"`
	Open          float64   `json:"open,omitempty"`
	High          float64   `json:"high,omitempty"`
	Low           float64   `json:"low,omitempty"`
	PreviousClose float64   `json:"previous_close,omitempty"`
	Volume        int64     `json:"volume,omitempty"`
	MarketCap     int64     `json:"market_cap,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// CompanyInfo is a single entry of the symbol universe.
type CompanyInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// Outcome classifies the result of a quote lookup.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeUpstreamError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUpstreamError:
		return "upstream_error"
	}
	return "unknown"
}

// Failed builds the degraded placeholder for a symbol.
func Failed(symbol string) Quote {
	return Quote{Symbol: symbol, Status: StatusFailed}
}

// FromUpstream maps a raw upstream quote to the public shape.
func FromUpstream(q *iex.Quote) Quote {
	out := Quote{
		Symbol:        q.Symbol,
		Status:        StatusOK,
		Name:          q.CompanyName,
		Exchange:      q.PrimaryExchange,
		LastPrice:     q.LatestPrice,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		Open:          q.Open,
		High:          q.High,
		Low:           q.Low,
		PreviousClose: q.PreviousClose,
		Volume:        q.LatestVolume,
		MarketCap:     q.MarketCap,
	}
	if q.LatestUpdate > 0 {
		out.UpdatedAt = time.UnixMilli(q.LatestUpdate).UTC()
	}
	return out
}

// FromSymbol maps a raw listing record to a CompanyInfo.
func FromSymbol(s iex.Symbol) CompanyInfo {
	return CompanyInfo{Symbol: s.Symbol, Name: s.Name, Exchange: s.Exchange}
}
