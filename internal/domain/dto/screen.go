package dto

import (
	"github.com/guttosm/stockpulse/internal/domain/models"
)

// ScreenRequest is the body accepted by POST /api/v1/screener.
//
// Callers either name symbols directly, or supply filters and let the service
// discover candidates from the tracked ticker universe. Comparisons relate two
// fields of the same quote (e.g. volume > shares_float).
type ScreenRequest struct {
	Symbols     []string             `json:"symbols,omitempty"`
	Filters     models.FilterSpec    `json:"filters"`
	Comparisons []models.Comparison  `json:"comparisons,omitempty"`
	Options     models.ScreenOptions `json:"options"`
}

// EnrichStats describes how the enrichment pipeline behaved for one request,
// so partial provider failure is observable without aborting the response.
type EnrichStats struct {
	Candidates       int            `json:"candidates" example:"100"`
	CacheHits        int            `json:"cache_hits" example:"63"`
	CacheHitRate     float64        `json:"cache_hit_rate" example:"0.63"`
	Enriched         int            `json:"enriched" example:"31"`
	Dropped          int            `json:"dropped" example:"6"`
	DurationMs       int64          `json:"duration_ms" example:"1840"`
	ProviderFailures map[string]int `json:"provider_failures"`
}

// ScreenResponse is returned by POST /api/v1/screener.
//
// Source reports where the data came from: "cache" (every symbol served from
// the store), "live" (every symbol freshly resolved), or "hybrid".
type ScreenResponse struct {
	Stocks       []models.Quote `json:"stocks"`
	Count        int            `json:"count" example:"25"`
	TotalMatched int            `json:"total_matched" example:"40"`
	TotalChecked int            `json:"total_checked" example:"94"`
	Source       string         `json:"source" example:"hybrid" enums:"cache,live,hybrid"`
	Stats        EnrichStats    `json:"stats"`
}

// UpdateRequest is the body accepted by POST /api/v1/update.
//
// Mode selects the symbol set: "manual" is implied when Symbols is non-empty,
// otherwise "delta" (movers, most active, untracked) or "full" (the whole
// tracked universe).
type UpdateRequest struct {
	Mode    string   `json:"mode,omitempty" example:"delta" enums:"delta,full,manual"`
	Symbols []string `json:"symbols,omitempty"`
}

// UpdateResponse is returned by POST /api/v1/update.
type UpdateResponse struct {
	Mode      string      `json:"mode" example:"delta"`
	Requested int         `json:"requested" example:"500"`
	Updated   int         `json:"updated" example:"482"`
	Failed    int         `json:"failed" example:"18"`
	Stats     EnrichStats `json:"stats"`
}

// QuoteResponse is returned by GET /api/v1/quote.
type QuoteResponse struct {
	Quote  models.Quote `json:"quote"`
	Source string       `json:"source" example:"cache" enums:"cache,live,hybrid"`
}
