package models

// FreshnessBuckets counts tracked stocks by the age of their last successful
// resolution, mirroring the two-window cache model (minutes for prices,
// hours for fundamentals) plus the long tail.
type FreshnessBuckets struct {
	VeryFresh5Min int64 `json:"very_fresh_5min"`
	Fresh1Hour    int64 `json:"fresh_1hour"`
	Stale1Day     int64 `json:"stale_1day"`
	VeryStale     int64 `json:"very_stale"`
	NeverUpdated  int64 `json:"never_updated"`
}

// Coverage relates the tracked-quote table to the full ticker universe.
type Coverage struct {
	TotalTickers    int64   `json:"total_tickers"`
	StocksTracked   int64   `json:"stocks_tracked"`
	CoveragePercent float64 `json:"coverage_percent"`
}
