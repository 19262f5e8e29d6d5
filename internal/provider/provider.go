package provider

import (
	"context"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Canonical provider names, also used as merge precedence keys and as the
// labels under which raw payloads are retained for audit.
const (
	NameYahoo      = "yahoo"
	NameTwelveData = "twelvedata"
	NameFinnhub    = "finnhub"
	NameFMP        = "fmp"
)

// BatchFetcher is a quote provider that resolves many symbols per HTTP call.
//
// Contract: the returned map contains an entry for every symbol the upstream
// could serve; symbols it could not serve are simply absent. Transport errors,
// non-success statuses and malformed payloads surface as a *Error, and callers
// (the orchestrator) translate that into a circuit-breaker increment and move
// on, never aborting the request.
type BatchFetcher interface {
	Name() string
	FetchBatch(ctx context.Context, symbols []string) (map[string]models.PartialQuote, error)
}

// SingleFetcher is a quote provider that resolves one symbol per call,
// typically behind a strict per-minute quota. A nil result with nil error
// means the upstream answered but had nothing usable for the symbol.
type SingleFetcher interface {
	Name() string
	FetchOne(ctx context.Context, symbol string) (*models.PartialQuote, error)
}

// pctChange computes the percent change from previous close, matching the
// convention used by every adapter: nil when either input is unknown or the
// previous close is zero.
func pctChange(price, prevClose *float64) *float64 {
	if price == nil || prevClose == nil || *prevClose == 0 {
		return nil
	}
	v := (*price - *prevClose) / *prevClose * 100
	return &v
}

// relVolume computes current volume over trailing average volume.
func relVolume(volume *int64, avg *float64) *float64 {
	if volume == nil || avg == nil || *avg <= 0 {
		return nil
	}
	v := float64(*volume) / *avg
	return &v
}
