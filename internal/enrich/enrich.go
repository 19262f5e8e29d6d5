package enrich

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/provider"
	"github.com/guttosm/stockpulse/internal/storage"
)

// Source labels describing where a result's quotes came from.
const (
	SourceCache  = "cache"
	SourceLive   = "live"
	SourceHybrid = "hybrid"
)

// Stats summarizes one enrichment run.
type Stats struct {
	Candidates       int
	CacheHits        int
	Enriched         int
	Dropped          int
	Duration         time.Duration
	ProviderFailures map[string]int
}

// Result carries the resolved quotes of one run together with its stats.
type Result struct {
	Quotes []models.Quote
	Source string
	Stats  Stats
}

// Enricher resolves quotes cache-first, falling back to a cascade of external
// providers for the misses, and writes fresh results back to the store.
type Enricher struct {
	repo         storage.StocksRepository
	registry     *provider.StateRegistry
	batch        []provider.BatchFetcher
	single       provider.SingleFetcher
	fundamentals provider.BatchFetcher
	batchSize    int
	concurrency  int
	now          func() time.Time
}

// Options configures an Enricher. Batch providers are tried in order; Single
// is the per-symbol fallback for batch misses; Fundamentals backfills market
// cap, float and name on symbols that already resolved a price. BatchSize
// caps how many symbols go into one batch-provider round trip.
type Options struct {
	Repo         storage.StocksRepository
	Registry     *provider.StateRegistry
	Batch        []provider.BatchFetcher
	Single       provider.SingleFetcher
	Fundamentals provider.BatchFetcher
	BatchSize    int
	Concurrency  int
}

// New builds an Enricher from Options, applying defaults for the optional
// knobs.
func New(opts Options) *Enricher {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	registry := opts.Registry
	if registry == nil {
		registry = provider.NewStateRegistry()
	}
	return &Enricher{
		repo:         opts.Repo,
		registry:     registry,
		batch:        opts.Batch,
		single:       opts.Single,
		fundamentals: opts.Fundamentals,
		batchSize:    batchSize,
		concurrency:  concurrency,
		now:          time.Now,
	}
}

// Enrich resolves quotes for symbols, serving anything younger than maxAge
// from the store and fetching the rest live. Symbols no provider could price
// are dropped from the result. The store write for live quotes is best effort;
// a persistence failure degrades the cache but not the response.
func (e *Enricher) Enrich(ctx context.Context, symbols []string, maxAge time.Duration) (*Result, error) {
	start := e.now()
	log := logger.With("enrich")

	symbols = normalizeSymbols(symbols)
	stats := Stats{
		Candidates:       len(symbols),
		ProviderFailures: make(map[string]int),
	}

	// A broken cache degrades every symbol to a miss; the providers can still
	// serve the request.
	cached, err := e.repo.LookupFresh(ctx, symbols, maxAge)
	if err != nil {
		log.Warn().Err(err).Int("symbols", len(symbols)).Msg("cache lookup failed, treating all symbols as misses")
		cached = nil
	}
	stats.CacheHits = len(cached)

	var misses []string
	for _, s := range symbols {
		if _, hit := cached[s]; !hit {
			misses = append(misses, s)
		}
	}

	quotes := make([]models.Quote, 0, len(symbols))
	var fetched []models.Quote
	if len(misses) > 0 {
		fetched = e.fetch(ctx, misses, &stats)
		stats.Dropped = len(misses) - len(fetched)
	}

	// Preserve request order: cache hits and live results slot back into the
	// caller's symbol order.
	fetchedBySymbol := make(map[string]models.Quote, len(fetched))
	for _, q := range fetched {
		fetchedBySymbol[q.Symbol] = q
	}
	for _, s := range symbols {
		if q, ok := cached[s]; ok {
			quotes = append(quotes, q)
		} else if q, ok := fetchedBySymbol[s]; ok {
			quotes = append(quotes, q)
		}
	}
	stats.Enriched = len(quotes)

	if len(fetched) > 0 {
		if err := e.repo.UpsertQuotes(ctx, fetched); err != nil {
			log.Warn().Err(err).Int("quotes", len(fetched)).Msg("quote upsert failed, serving uncached result")
		}
	}

	stats.Duration = e.now().Sub(start)
	return &Result{
		Quotes: quotes,
		Source: source(stats.CacheHits, len(fetched)),
		Stats:  stats,
	}, nil
}

// fetch runs the provider cascade for symbols with no fresh cache entry and
// merges each symbol's partial quotes into final ones.
func (e *Enricher) fetch(ctx context.Context, symbols []string, stats *Stats) []models.Quote {
	parts := make(map[string]map[string]models.PartialQuote, len(symbols))
	record := func(source, symbol string, p models.PartialQuote) {
		if parts[symbol] == nil {
			parts[symbol] = make(map[string]models.PartialQuote, 2)
		}
		parts[symbol][source] = p
	}
	unresolved := func() []string {
		var out []string
		for _, s := range symbols {
			if !hasPrice(parts[s]) {
				out = append(out, s)
			}
		}
		return out
	}

	// Batch cascade: each provider only sees the symbols its predecessors
	// left without a price.
	remaining := symbols
	for _, p := range e.batch {
		if len(remaining) == 0 {
			break
		}
		batch := e.callBatch(ctx, p, remaining, stats)
		for sym, part := range batch {
			record(p.Name(), sym, part)
		}
		remaining = unresolved()
	}

	// Per-symbol fallback, bounded fan-out.
	if e.single != nil && len(remaining) > 0 {
		e.fallback(ctx, remaining, record, stats)
	}

	// Fundamentals backfill for priced symbols still missing cap, float or
	// name.
	if e.fundamentals != nil {
		var needy []string
		for _, s := range symbols {
			if hasPrice(parts[s]) && missingFundamentals(parts[s]) {
				needy = append(needy, s)
			}
		}
		if len(needy) > 0 {
			batch := e.callBatch(ctx, e.fundamentals, needy, stats)
			for sym, part := range batch {
				record(e.fundamentals.Name(), sym, part)
			}
		}
	}

	now := e.now().UTC()
	out := make([]models.Quote, 0, len(symbols))
	for _, s := range symbols {
		if q := Merge(s, parts[s], now); q != nil {
			out = append(out, *q)
		}
	}
	return out
}

// callBatch invokes one batch provider behind its circuit breaker, chunking
// symbols so no single round trip exceeds the batch size, and records each
// call's outcome against the breaker.
func (e *Enricher) callBatch(ctx context.Context, p provider.BatchFetcher, symbols []string, stats *Stats) map[string]models.PartialQuote {
	log := logger.With("enrich")
	br := e.registry.Breaker(p.Name())
	out := make(map[string]models.PartialQuote, len(symbols))

	for start := 0; start < len(symbols); start += e.batchSize {
		end := start + e.batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		chunk := symbols[start:end]

		if !br.Allow() {
			log.Warn().Str("provider", p.Name()).Msg("circuit open, skipping provider")
			stats.ProviderFailures[p.Name()] += len(chunk)
			continue
		}

		result, err := p.FetchBatch(ctx, chunk)
		if err != nil {
			br.Failure()
			stats.ProviderFailures[p.Name()] += len(chunk)
			log.Warn().Err(err).Str("provider", p.Name()).Int("symbols", len(chunk)).Msg("batch fetch failed")
			continue
		}
		br.Success()
		for sym, part := range result {
			out[sym] = part
		}
	}
	return out
}

// fallback resolves symbols one at a time through the single-symbol provider,
// with a bounded worker pool. Results land in an index-addressed slice so no
// locking is needed.
func (e *Enricher) fallback(ctx context.Context, symbols []string, record func(string, string, models.PartialQuote), stats *Stats) {
	log := logger.With("enrich")
	name := e.single.Name()
	br := e.registry.Breaker(name)

	results := make([]*models.PartialQuote, len(symbols))
	failures := make([]bool, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, sym := range symbols {
		if !br.Allow() {
			failures[i] = true
			continue
		}
		i, sym := i, sym
		g.Go(func() error {
			p, err := e.single.FetchOne(gctx, sym)
			if err != nil {
				br.Failure()
				failures[i] = true
				log.Warn().Err(err).Str("provider", name).Str("symbol", sym).Msg("single fetch failed")
				return nil
			}
			br.Success()
			results[i] = p
			return nil
		})
	}
	_ = g.Wait()

	for i, sym := range symbols {
		if failures[i] {
			stats.ProviderFailures[name]++
		}
		if results[i] != nil {
			record(name, sym, *results[i])
		}
	}
}

func hasPrice(parts map[string]models.PartialQuote) bool {
	for _, p := range parts {
		if p.Price != nil && *p.Price > 0 {
			return true
		}
	}
	return false
}

func missingFundamentals(parts map[string]models.PartialQuote) bool {
	var mcap, flt, name bool
	for _, p := range parts {
		if p.MarketCap != nil {
			mcap = true
		}
		if p.SharesFloat != nil {
			flt = true
		}
		if p.Name != nil && *p.Name != "" {
			name = true
		}
	}
	return !mcap || !flt || !name
}

// normalizeSymbols uppercases, trims and de-duplicates while keeping the
// caller's order.
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func source(cacheHits, fetched int) string {
	switch {
	case fetched == 0:
		return SourceCache
	case cacheHits == 0:
		return SourceLive
	default:
		return SourceHybrid
	}
}
