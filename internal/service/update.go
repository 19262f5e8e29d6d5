package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/enrich"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/storage"
)

// Update modes.
const (
	ModeManual = "manual"
	ModeDelta  = "delta"
	ModeFull   = "full"
)

// UpdateService refreshes the quote store outside the request path: on
// demand for given symbols, for a prioritized delta of the universe, or for
// the whole universe.
type UpdateService interface {
	Update(ctx context.Context, req dto.UpdateRequest) (*dto.UpdateResponse, error)
}

type updateService struct {
	repo                  storage.StocksRepository
	enricher              quoteEnricher
	batchSize             int
	deltaTopN             int
	fundamentalsFreshness time.Duration
}

// NewUpdateService builds the updater. batchSize caps symbols per enrichment
// pass, deltaTopN sizes the delta candidate set, and fundamentalsFreshness is
// the cache age accepted before a symbol is refreshed.
func NewUpdateService(repo storage.StocksRepository, enricher quoteEnricher, batchSize, deltaTopN int, fundamentalsFreshness time.Duration) UpdateService {
	if batchSize <= 0 {
		batchSize = 100
	}
	if deltaTopN <= 0 {
		deltaTopN = 500
	}
	return &updateService{
		repo:                  repo,
		enricher:              enricher,
		batchSize:             batchSize,
		deltaTopN:             deltaTopN,
		fundamentalsFreshness: fundamentalsFreshness,
	}
}

func (s *updateService) Update(ctx context.Context, req dto.UpdateRequest) (*dto.UpdateResponse, error) {
	mode, symbols, err := s.candidates(ctx, req)
	if err != nil {
		return nil, err
	}

	log := logger.With("update")
	log.Info().Str("mode", mode).Int("symbols", len(symbols)).Msg("starting stock update")

	total := enrich.Stats{ProviderFailures: make(map[string]int)}
	updated := 0
	for start := 0; start < len(symbols); start += s.batchSize {
		end := start + s.batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		result, err := s.enricher.Enrich(ctx, symbols[start:end], s.fundamentalsFreshness)
		if err != nil {
			return nil, fmt.Errorf("update batch %d-%d: %w", start, end, err)
		}
		updated += len(result.Quotes)
		accumulate(&total, result.Stats)
	}
	total.Enriched = updated

	return &dto.UpdateResponse{
		Mode:      mode,
		Requested: len(symbols),
		Updated:   updated,
		Failed:    len(symbols) - updated,
		Stats:     toEnrichStats(total),
	}, nil
}

// candidates resolves the symbol set for the requested mode. An empty mode
// with explicit symbols means a manual update; without symbols it means delta.
func (s *updateService) candidates(ctx context.Context, req dto.UpdateRequest) (string, []string, error) {
	mode := req.Mode
	if mode == "" {
		if len(req.Symbols) > 0 {
			mode = ModeManual
		} else {
			mode = ModeDelta
		}
	}
	switch mode {
	case ModeManual:
		if len(req.Symbols) == 0 {
			return mode, nil, fmt.Errorf("%w: manual update requires symbols", ErrInvalidRequest)
		}
		return mode, req.Symbols, nil
	case ModeDelta:
		symbols, err := s.repo.DeltaSymbols(ctx, s.deltaTopN)
		if err != nil {
			return mode, nil, fmt.Errorf("select delta symbols: %w", err)
		}
		return mode, symbols, nil
	case ModeFull:
		symbols, err := s.repo.TickerSymbols(ctx, "")
		if err != nil {
			return mode, nil, fmt.Errorf("list ticker universe: %w", err)
		}
		return mode, symbols, nil
	default:
		return mode, nil, fmt.Errorf("%w: unknown update mode %q", ErrInvalidRequest, mode)
	}
}

func accumulate(total *enrich.Stats, s enrich.Stats) {
	total.Candidates += s.Candidates
	total.CacheHits += s.CacheHits
	total.Dropped += s.Dropped
	total.Duration += s.Duration
	for name, n := range s.ProviderFailures {
		total.ProviderFailures[name] += n
	}
}
