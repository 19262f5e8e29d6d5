package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/storage"
)

// snapshotSize is the number of rows per market snapshot list.
const snapshotSize = 10

// MonitorService reports the health of the quote store: freshness
// distribution, universe coverage, and a small market snapshot.
type MonitorService interface {
	Snapshot(ctx context.Context) (*dto.MonitorResponse, error)
}

type monitorService struct {
	repo storage.StocksRepository
}

func NewMonitorService(repo storage.StocksRepository) MonitorService {
	return &monitorService{repo: repo}
}

func (s *monitorService) Snapshot(ctx context.Context) (*dto.MonitorResponse, error) {
	freshness, err := s.repo.FreshnessBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("freshness buckets: %w", err)
	}
	coverage, err := s.repo.Coverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("coverage: %w", err)
	}
	gainers, err := s.repo.TopMovers(ctx, snapshotSize, false)
	if err != nil {
		return nil, fmt.Errorf("top gainers: %w", err)
	}
	losers, err := s.repo.TopMovers(ctx, snapshotSize, true)
	if err != nil {
		return nil, fmt.Errorf("top losers: %w", err)
	}
	active, err := s.repo.MostActive(ctx, snapshotSize)
	if err != nil {
		return nil, fmt.Errorf("most active: %w", err)
	}

	return &dto.MonitorResponse{
		Timestamp: time.Now().UTC(),
		Freshness: freshness,
		Coverage:  coverage,
		MarketSnapshot: dto.MarketSnapshot{
			TopGainers: gainers,
			TopLosers:  losers,
			MostActive: active,
		},
	}, nil
}
