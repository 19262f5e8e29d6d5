package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/provider"
)

func init() { logger.Init() }

type fakeRepo struct {
	fresh     map[string]models.Quote
	lookupErr error
	upserted  [][]models.Quote
	upsertErr error
}

func (r *fakeRepo) LookupFresh(_ context.Context, symbols []string, _ time.Duration) (map[string]models.Quote, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	out := make(map[string]models.Quote)
	for _, s := range symbols {
		if q, ok := r.fresh[s]; ok {
			out[s] = q
		}
	}
	return out, nil
}

func (r *fakeRepo) UpsertQuotes(_ context.Context, quotes []models.Quote) error {
	r.upserted = append(r.upserted, quotes)
	return r.upsertErr
}

func (r *fakeRepo) TickerSymbols(context.Context, string) ([]string, error) { return nil, nil }
func (r *fakeRepo) DeltaSymbols(context.Context, int) ([]string, error)    { return nil, nil }
func (r *fakeRepo) FreshnessBuckets(context.Context) (models.FreshnessBuckets, error) {
	return models.FreshnessBuckets{}, nil
}
func (r *fakeRepo) Coverage(context.Context) (models.Coverage, error) {
	return models.Coverage{}, nil
}
func (r *fakeRepo) TopMovers(context.Context, int, bool) ([]models.Quote, error) {
	return nil, nil
}
func (r *fakeRepo) MostActive(context.Context, int) ([]models.Quote, error) { return nil, nil }

// fakeBatch serves canned partial quotes and records what it was asked for.
type fakeBatch struct {
	name  string
	data  map[string]models.PartialQuote
	err   error
	calls [][]string
}

func (f *fakeBatch) Name() string { return f.name }

func (f *fakeBatch) FetchBatch(_ context.Context, symbols []string) (map[string]models.PartialQuote, error) {
	f.calls = append(f.calls, symbols)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]models.PartialQuote)
	for _, s := range symbols {
		if p, ok := f.data[s]; ok {
			out[s] = p
		}
	}
	return out, nil
}

type fakeSingle struct {
	name  string
	data  map[string]*models.PartialQuote
	err   error
	calls []string
}

func (f *fakeSingle) Name() string { return f.name }

func (f *fakeSingle) FetchOne(_ context.Context, symbol string) (*models.PartialQuote, error) {
	f.calls = append(f.calls, symbol)
	if f.err != nil {
		return nil, f.err
	}
	return f.data[symbol], nil
}

func cachedQuote(symbol string, price float64) models.Quote {
	return models.Quote{Symbol: symbol, Price: models.F(price), Volume: models.I(1), UpdatedAt: time.Now()}
}

func priced(price float64) models.PartialQuote {
	return models.PartialQuote{Price: models.F(price), Volume: models.I(100)}
}

func TestEnrich_AllCacheHitsSkipProviders(t *testing.T) {
	repo := &fakeRepo{fresh: map[string]models.Quote{
		"AAA": cachedQuote("AAA", 1.0),
		"BBB": cachedQuote("BBB", 2.0),
	}}
	primary := &fakeBatch{name: provider.NameYahoo}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary}})

	res, err := e.Enrich(context.Background(), []string{"aaa", "bbb"}, 5*time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(primary.calls) != 0 {
		t.Fatalf("provider called %v on full cache hit", primary.calls)
	}
	if res.Source != SourceCache {
		t.Fatalf("source=%q, want cache", res.Source)
	}
	if res.Stats.CacheHits != 2 || res.Stats.Candidates != 2 {
		t.Fatalf("stats=%+v", res.Stats)
	}
	if len(repo.upserted) != 0 {
		t.Fatalf("nothing fetched, nothing should be written")
	}
}

func TestEnrich_CacheLookupFailureDegradesToMiss(t *testing.T) {
	repo := &fakeRepo{lookupErr: errors.New("store down")}
	primary := &fakeBatch{
		name: provider.NameYahoo,
		data: map[string]models.PartialQuote{"AAA": priced(10.0)},
	}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary}})

	res, err := e.Enrich(context.Background(), []string{"AAA"}, 5*time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v, a broken cache must not fail the request", err)
	}
	if len(res.Quotes) != 1 || res.Quotes[0].Symbol != "AAA" {
		t.Fatalf("quotes=%v, want AAA served live", res.Quotes)
	}
	if res.Source != SourceLive {
		t.Fatalf("source=%q, want live when every symbol is a miss", res.Source)
	}
	if res.Stats.CacheHits != 0 {
		t.Fatalf("cache hits=%d, want 0 on lookup failure", res.Stats.CacheHits)
	}
}

func TestEnrich_BatchCallsAreChunked(t *testing.T) {
	repo := &fakeRepo{}
	data := make(map[string]models.PartialQuote)
	symbols := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	for _, s := range symbols {
		data[s] = priced(1.0)
	}
	primary := &fakeBatch{name: provider.NameYahoo, data: data}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary}, BatchSize: 2})

	res, err := e.Enrich(context.Background(), symbols, time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(primary.calls) != 3 {
		t.Fatalf("calls=%v, want 5 symbols split into 3 round trips", primary.calls)
	}
	for i, want := range []int{2, 2, 1} {
		if len(primary.calls[i]) != want {
			t.Fatalf("call %d carried %d symbols, want %d", i, len(primary.calls[i]), want)
		}
	}
	if len(res.Quotes) != len(symbols) {
		t.Fatalf("quotes=%d, want all symbols resolved", len(res.Quotes))
	}
}

func TestEnrich_CascadeOnlyPassesUnresolvedSymbols(t *testing.T) {
	repo := &fakeRepo{}
	primary := &fakeBatch{
		name: provider.NameYahoo,
		data: map[string]models.PartialQuote{"AAA": priced(10.0)},
	}
	secondary := &fakeBatch{
		name: provider.NameTwelveData,
		data: map[string]models.PartialQuote{"BBB": priced(20.0)},
	}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary, secondary}})

	res, err := e.Enrich(context.Background(), []string{"AAA", "BBB"}, time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(primary.calls) != 1 || len(primary.calls[0]) != 2 {
		t.Fatalf("primary calls=%v", primary.calls)
	}
	if len(secondary.calls) != 1 || len(secondary.calls[0]) != 1 || secondary.calls[0][0] != "BBB" {
		t.Fatalf("secondary calls=%v, want just BBB", secondary.calls)
	}
	if res.Source != SourceLive {
		t.Fatalf("source=%q, want live", res.Source)
	}
	if len(res.Quotes) != 2 || res.Quotes[0].Symbol != "AAA" || res.Quotes[1].Symbol != "BBB" {
		t.Fatalf("quotes=%v, want request order preserved", res.Quotes)
	}
	if len(repo.upserted) != 1 || len(repo.upserted[0]) != 2 {
		t.Fatalf("upserts=%v", repo.upserted)
	}
}

func TestEnrich_SingleFallbackForBatchMisses(t *testing.T) {
	repo := &fakeRepo{}
	primary := &fakeBatch{
		name: provider.NameYahoo,
		data: map[string]models.PartialQuote{"AAA": priced(10.0)},
	}
	single := &fakeSingle{
		name: provider.NameFinnhub,
		data: map[string]*models.PartialQuote{"BBB": {Price: models.F(7.0), Volume: models.I(50)}},
	}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary}, Single: single, Concurrency: 2})

	res, err := e.Enrich(context.Background(), []string{"AAA", "BBB", "CCC"}, time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(single.calls) != 2 {
		t.Fatalf("single calls=%v, want BBB and CCC", single.calls)
	}
	if len(res.Quotes) != 2 {
		t.Fatalf("quotes=%v, want AAA and BBB", res.Quotes)
	}
	if res.Stats.Dropped != 1 {
		t.Fatalf("dropped=%d, want CCC dropped", res.Stats.Dropped)
	}
}

func TestEnrich_BreakerTripsAndSkipsProvider(t *testing.T) {
	repo := &fakeRepo{}
	registry := provider.NewStateRegistry()
	failing := &fakeBatch{name: provider.NameYahoo, err: errors.New("upstream down")}
	e := New(Options{Repo: repo, Registry: registry, Batch: []provider.BatchFetcher{failing}})

	for i := 0; i < provider.DefaultBreakerThreshold; i++ {
		if _, err := e.Enrich(context.Background(), []string{"AAA"}, time.Minute); err != nil {
			t.Fatalf("Enrich %d: %v", i, err)
		}
	}
	if got := len(failing.calls); got != provider.DefaultBreakerThreshold {
		t.Fatalf("calls=%d, want %d before the breaker trips", got, provider.DefaultBreakerThreshold)
	}

	res, err := e.Enrich(context.Background(), []string{"AAA"}, time.Minute)
	if err != nil {
		t.Fatalf("Enrich after trip: %v", err)
	}
	if got := len(failing.calls); got != provider.DefaultBreakerThreshold {
		t.Fatalf("calls=%d, tripped breaker must skip the provider", got)
	}
	if res.Stats.ProviderFailures[provider.NameYahoo] == 0 {
		t.Fatalf("skip should still count as a provider failure")
	}
}

func TestEnrich_FundamentalsBackfillOnlyForNeedySymbols(t *testing.T) {
	repo := &fakeRepo{}
	complete := models.PartialQuote{
		Price: models.F(10.0), Volume: models.I(100),
		MarketCap: models.F(1e9), SharesFloat: models.F(1e7), Name: models.S("Full Corp"),
	}
	primary := &fakeBatch{
		name: provider.NameYahoo,
		data: map[string]models.PartialQuote{"FULL": complete, "BARE": priced(5.0)},
	}
	fundamentals := &fakeBatch{
		name: provider.NameFMP,
		data: map[string]models.PartialQuote{"BARE": {MarketCap: models.F(2e9), Name: models.S("Bare Inc")}},
	}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary}, Fundamentals: fundamentals})

	res, err := e.Enrich(context.Background(), []string{"FULL", "BARE"}, time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(fundamentals.calls) != 1 || len(fundamentals.calls[0]) != 1 || fundamentals.calls[0][0] != "BARE" {
		t.Fatalf("fundamentals calls=%v, want just BARE", fundamentals.calls)
	}
	var bare *models.Quote
	for i := range res.Quotes {
		if res.Quotes[i].Symbol == "BARE" {
			bare = &res.Quotes[i]
		}
	}
	if bare == nil || bare.MarketCap == nil || *bare.MarketCap != 2e9 {
		t.Fatalf("BARE quote=%+v, want backfilled market cap", bare)
	}
}

func TestEnrich_UpsertFailureDoesNotFailRequest(t *testing.T) {
	repo := &fakeRepo{upsertErr: errors.New("db gone")}
	primary := &fakeBatch{name: provider.NameYahoo, data: map[string]models.PartialQuote{"AAA": priced(1.0)}}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary}})

	res, err := e.Enrich(context.Background(), []string{"AAA"}, time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(res.Quotes) != 1 {
		t.Fatalf("quotes=%v", res.Quotes)
	}
}

func TestEnrich_HybridSource(t *testing.T) {
	repo := &fakeRepo{fresh: map[string]models.Quote{"AAA": cachedQuote("AAA", 1.0)}}
	primary := &fakeBatch{name: provider.NameYahoo, data: map[string]models.PartialQuote{"BBB": priced(2.0)}}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary}})

	res, err := e.Enrich(context.Background(), []string{"AAA", "BBB"}, time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if res.Source != SourceHybrid {
		t.Fatalf("source=%q, want hybrid", res.Source)
	}
	// Only the live quote is written back; the cache hit is already stored.
	if len(repo.upserted) != 1 || len(repo.upserted[0]) != 1 || repo.upserted[0][0].Symbol != "BBB" {
		t.Fatalf("upserts=%v", repo.upserted)
	}
}

func TestEnrich_NormalizesAndDeduplicatesSymbols(t *testing.T) {
	repo := &fakeRepo{}
	primary := &fakeBatch{name: provider.NameYahoo, data: map[string]models.PartialQuote{"AAA": priced(1.0)}}
	e := New(Options{Repo: repo, Batch: []provider.BatchFetcher{primary}})

	res, err := e.Enrich(context.Background(), []string{" aaa ", "AAA", "", "aaa"}, time.Minute)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if res.Stats.Candidates != 1 {
		t.Fatalf("candidates=%d, want 1 after dedupe", res.Stats.Candidates)
	}
	if len(primary.calls) != 1 || len(primary.calls[0]) != 1 || primary.calls[0][0] != "AAA" {
		t.Fatalf("calls=%v", primary.calls)
	}
}
