package dto

import (
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// MarketSnapshot carries the headline movers for the monitoring endpoint.
type MarketSnapshot struct {
	TopGainers []models.Quote `json:"top_gainers"`
	TopLosers  []models.Quote `json:"top_losers"`
	MostActive []models.Quote `json:"most_active"`
}

// MonitorResponse is returned by GET /api/v1/monitor.
type MonitorResponse struct {
	Timestamp      time.Time               `json:"timestamp"`
	Freshness      models.FreshnessBuckets `json:"freshness"`
	Coverage       models.Coverage         `json:"coverage"`
	MarketSnapshot MarketSnapshot          `json:"market_snapshot"`
}
