package models

import (
	"encoding/json"
	"time"
)

// Quote is the authoritative per-symbol market data record, resolved from
// one or more providers and persisted in the stocks table.
//
// All numeric fields are pointers: nil means "unknown", never zero-as-placeholder.
// Raw holds the opaque per-provider payloads retained for audit; it is produced
// exclusively by the merge resolver and never mutated afterwards.
type Quote struct {
	Symbol         string          `json:"symbol" example:"AAPL"`
	Name           *string         `json:"name,omitempty" example:"Apple Inc"`
	Price          *float64        `json:"price,omitempty" example:"189.84"`
	ChangePercent  *float64        `json:"change_percent,omitempty" example:"1.25"`
	Volume         *int64          `json:"volume,omitempty" example:"53000000"`
	MarketCap      *float64        `json:"market_cap,omitempty" example:"2950000000000"`
	SharesFloat    *float64        `json:"shares_float,omitempty" example:"15500000000"`
	RelativeVolume *float64        `json:"relative_volume,omitempty" example:"1.32"`
	Raw            json.RawMessage `json:"-" swaggerignore:"true"`
	UpdatedAt      time.Time       `json:"updated_at,omitempty"`
}

// Screenable reports whether the quote carries enough data to be screened.
// A quote is only valid for screening when price and volume are known and positive.
func (q *Quote) Screenable() bool {
	return q.Price != nil && *q.Price > 0 && q.Volume != nil && *q.Volume > 0
}

// Field returns the named numeric field as a float pointer, or nil when the
// field is unknown (or the name does not map to a numeric field). Volume is
// widened to float64 so filters and comparisons share one code path.
func (q *Quote) Field(name string) *float64 {
	switch name {
	case "price":
		return q.Price
	case "change_percent":
		return q.ChangePercent
	case "volume":
		if q.Volume == nil {
			return nil
		}
		v := float64(*q.Volume)
		return &v
	case "market_cap":
		return q.MarketCap
	case "shares_float":
		return q.SharesFloat
	case "relative_volume":
		return q.RelativeVolume
	default:
		return nil
	}
}

// PartialQuote is what a single provider managed to resolve for one symbol.
// Each adapter fills only the fields its upstream actually serves, already
// normalized to canonical units (absolute currency for market cap, ratio for
// relative volume). The merge resolver combines partials into a Quote.
type PartialQuote struct {
	Symbol         string
	Name           *string
	Price          *float64
	ChangePercent  *float64
	Volume         *int64
	MarketCap      *float64
	SharesFloat    *float64
	RelativeVolume *float64
	Raw            json.RawMessage
}

// F boxes a float64 literal. Convenience for adapters and tests.
func F(v float64) *float64 { return &v }

// I boxes an int64 literal.
func I(v int64) *int64 { return &v }

// S boxes a string literal.
func S(v string) *string { return &v }
