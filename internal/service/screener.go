package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/enrich"
	"github.com/guttosm/stockpulse/internal/screen"
	"github.com/guttosm/stockpulse/internal/storage"
)

// quoteEnricher is the slice of the enrichment pipeline the services need.
type quoteEnricher interface {
	Enrich(ctx context.Context, symbols []string, maxAge time.Duration) (*enrich.Result, error)
}

// ScreenerService defines the business logic for screening and single-symbol
// quote lookups.
type ScreenerService interface {
	// Screen enriches a candidate set of symbols, applies the request's
	// filters and comparisons, and returns one ranked page of matches.
	Screen(ctx context.Context, req dto.ScreenRequest) (*dto.ScreenResponse, error)

	// Quote resolves one symbol through the same cache-first pipeline.
	Quote(ctx context.Context, symbol string) (*dto.QuoteResponse, error)
}

type screenerService struct {
	repo              storage.StocksRepository
	enricher          quoteEnricher
	realtimeFreshness time.Duration
	defaultSymbols    int
}

// NewScreenerService builds the screener. realtimeFreshness is the cache age
// accepted for price-sensitive reads; defaultSymbols is the candidate-set
// size used when a request does not set maxSymbols.
func NewScreenerService(repo storage.StocksRepository, enricher quoteEnricher, realtimeFreshness time.Duration, defaultSymbols int) ScreenerService {
	if defaultSymbols <= 0 {
		defaultSymbols = models.DefaultSymbols
	}
	return &screenerService{
		repo:              repo,
		enricher:          enricher,
		realtimeFreshness: realtimeFreshness,
		defaultSymbols:    defaultSymbols,
	}
}

func (s *screenerService) Screen(ctx context.Context, req dto.ScreenRequest) (*dto.ScreenResponse, error) {
	if err := screen.ValidateComparisons(req.Comparisons); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	opts := req.Options
	if opts.MaxSymbols <= 0 {
		opts.MaxSymbols = s.defaultSymbols
	}
	opts.Normalize()

	symbols := req.Symbols
	if len(symbols) == 0 {
		universe, err := s.repo.TickerSymbols(ctx, opts.Exchange)
		if err != nil {
			return nil, fmt.Errorf("discover candidate symbols: %w", err)
		}
		symbols = universe
	}
	if len(symbols) > opts.MaxSymbols {
		symbols = symbols[:opts.MaxSymbols]
	}

	result, err := s.enricher.Enrich(ctx, symbols, s.realtimeFreshness)
	if err != nil {
		return nil, fmt.Errorf("enrich candidates: %w", err)
	}

	matched := make([]models.Quote, 0, len(result.Quotes))
	for _, q := range result.Quotes {
		if screen.Passes(q, req.Filters, req.Comparisons) {
			matched = append(matched, q)
		}
	}

	screen.Rank(matched, opts.OrderBy)
	page := screen.Paginate(matched, opts.Offset, opts.Limit)

	return &dto.ScreenResponse{
		Stocks:       page,
		Count:        len(page),
		TotalMatched: len(matched),
		TotalChecked: len(result.Quotes),
		Source:       result.Source,
		Stats:        toEnrichStats(result.Stats),
	}, nil
}

func (s *screenerService) Quote(ctx context.Context, symbol string) (*dto.QuoteResponse, error) {
	result, err := s.enricher.Enrich(ctx, []string{symbol}, s.realtimeFreshness)
	if err != nil {
		return nil, fmt.Errorf("enrich %s: %w", symbol, err)
	}
	if len(result.Quotes) == 0 {
		return nil, nil
	}
	return &dto.QuoteResponse{
		Quote:  result.Quotes[0],
		Source: result.Source,
	}, nil
}

// toEnrichStats maps internal run stats onto the response shape.
func toEnrichStats(s enrich.Stats) dto.EnrichStats {
	var hitRate float64
	if s.Candidates > 0 {
		hitRate = float64(s.CacheHits) / float64(s.Candidates)
	}
	return dto.EnrichStats{
		Candidates:       s.Candidates,
		CacheHits:        s.CacheHits,
		CacheHitRate:     hitRate,
		Enriched:         s.Enriched,
		Dropped:          s.Dropped,
		DurationMs:       s.Duration.Milliseconds(),
		ProviderFailures: s.ProviderFailures,
	}
}
