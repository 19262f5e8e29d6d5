package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/lib/pq"
)

// defaultUpsertChunk bounds rows per upsert round trip, to respect store-side
// payload limits.
const defaultUpsertChunk = 100

// StocksRepository defines the contract for quote cache reads/writes and for
// candidate-symbol discovery against the ticker universe.
type StocksRepository interface {
	// LookupFresh returns the cached quotes whose updated_at age is within
	// maxAge. Symbols without a row, or with an older row, are simply absent
	// from the result ("miss"). Callers choose maxAge per purpose: a short
	// window for price-sensitive reads, a long one for fundamentals.
	LookupFresh(ctx context.Context, symbols []string, maxAge time.Duration) (map[string]models.Quote, error)

	// UpsertQuotes writes quotes keyed by symbol (replace-on-conflict),
	// chunked to a bounded batch size per round trip.
	UpsertQuotes(ctx context.Context, quotes []models.Quote) error

	// TickerSymbols lists the tracked universe, optionally narrowed to one
	// exchange ("" means all).
	TickerSymbols(ctx context.Context, exchange string) ([]string, error)

	// DeltaSymbols selects the symbols most worth refreshing: the most
	// traded, the strongest movers in both directions, and tickers not yet
	// present in the stocks table, capped at topN.
	DeltaSymbols(ctx context.Context, topN int) ([]string, error)

	// Monitoring reads.
	FreshnessBuckets(ctx context.Context) (models.FreshnessBuckets, error)
	Coverage(ctx context.Context) (models.Coverage, error)
	TopMovers(ctx context.Context, limit int, ascending bool) ([]models.Quote, error)
	MostActive(ctx context.Context, limit int) ([]models.Quote, error)
}

type stocksRepository struct {
	db        *sql.DB
	chunkSize int
}

// NewStocksRepository builds the Postgres-backed repository. chunkSize caps
// rows per upsert round trip; non-positive values use the default.
func NewStocksRepository(db *sql.DB, chunkSize int) StocksRepository {
	if chunkSize <= 0 {
		chunkSize = defaultUpsertChunk
	}
	return &stocksRepository{db: db, chunkSize: chunkSize}
}

const quoteColumns = "symbol, name, price, change_percent, volume, market_cap, shares_float, relative_volume, raw, updated_at"

// LookupFresh fetches all requested symbols younger than maxAge in one round
// trip using an ANY($1) array match.
func (r *stocksRepository) LookupFresh(ctx context.Context, symbols []string, maxAge time.Duration) (map[string]models.Quote, error) {
	out := make(map[string]models.Quote, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}
	cutoff := time.Now().UTC().Add(-maxAge)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+quoteColumns+`
		FROM stocks
		WHERE symbol = ANY($1) AND updated_at >= $2
	`, pq.Array(symbols), cutoff)
	if err != nil {
		return nil, fmt.Errorf("lookup fresh quotes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		out[q.Symbol] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote rows: %w", err)
	}
	return out, nil
}

// UpsertQuotes writes quotes in chunks with replace-on-conflict semantics on
// the symbol key.
func (r *stocksRepository) UpsertQuotes(ctx context.Context, quotes []models.Quote) error {
	for start := 0; start < len(quotes); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(quotes) {
			end = len(quotes)
		}
		if err := r.upsertChunk(ctx, quotes[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stocksRepository) upsertChunk(ctx context.Context, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	const cols = 10
	placeholders := make([]string, 0, len(quotes))
	args := make([]interface{}, 0, len(quotes)*cols)

	for i, q := range quotes {
		base := i * cols
		ph := make([]string, cols)
		for j := 0; j < cols; j++ {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")

		updatedAt := q.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now().UTC()
		}
		args = append(args,
			q.Symbol,
			q.Name,
			q.Price,
			q.ChangePercent,
			q.Volume,
			q.MarketCap,
			q.SharesFloat,
			q.RelativeVolume,
			nullableRaw(q.Raw),
			updatedAt,
		)
	}

	query := `
		INSERT INTO stocks (` + quoteColumns + `)
		VALUES ` + strings.Join(placeholders, ", ") + `
		ON CONFLICT (symbol)
		DO UPDATE SET name = EXCLUDED.name,
					  price = EXCLUDED.price,
					  change_percent = EXCLUDED.change_percent,
					  volume = EXCLUDED.volume,
					  market_cap = EXCLUDED.market_cap,
					  shares_float = EXCLUDED.shares_float,
					  relative_volume = EXCLUDED.relative_volume,
					  raw = EXCLUDED.raw,
					  updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d quotes: %w", len(quotes), err)
	}
	return nil
}

// TickerSymbols lists symbols from the ticker universe table.
func (r *stocksRepository) TickerSymbols(ctx context.Context, exchange string) ([]string, error) {
	query := `SELECT symbol FROM stock_tickers`
	var args []interface{}
	if exchange != "" {
		query += ` WHERE exchange = $1`
		args = append(args, exchange)
	}
	query += ` ORDER BY symbol`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ticker symbols: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan ticker symbol: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeltaSymbols picks refresh candidates: 50% of the budget from the most
// traded, 30% from the top gainers, 20% from the top losers, plus up to 100
// tickers that have never been resolved. Duplicates collapse; first source
// wins the slot.
func (r *stocksRepository) DeltaSymbols(ctx context.Context, topN int) ([]string, error) {
	if topN <= 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, topN)
	var out []string
	add := func(symbols []string) {
		for _, s := range symbols {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}

	topVolume, err := r.symbolQuery(ctx, `
		SELECT symbol FROM stocks
		WHERE volume IS NOT NULL
		ORDER BY volume DESC
		LIMIT $1
	`, topN/2)
	if err != nil {
		return nil, err
	}
	add(topVolume)

	gainers, err := r.symbolQuery(ctx, `
		SELECT symbol FROM stocks
		WHERE change_percent IS NOT NULL
		ORDER BY change_percent DESC
		LIMIT $1
	`, topN*3/10)
	if err != nil {
		return nil, err
	}
	add(gainers)

	losers, err := r.symbolQuery(ctx, `
		SELECT symbol FROM stocks
		WHERE change_percent IS NOT NULL
		ORDER BY change_percent ASC
		LIMIT $1
	`, topN/5)
	if err != nil {
		return nil, err
	}
	add(losers)

	untracked, err := r.symbolQuery(ctx, `
		SELECT t.symbol FROM stock_tickers t
		LEFT JOIN stocks s ON s.symbol = t.symbol
		WHERE s.symbol IS NULL
		LIMIT $1
	`, 100)
	if err != nil {
		return nil, err
	}
	add(untracked)

	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

func (r *stocksRepository) symbolQuery(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("delta symbol query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan delta symbol: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FreshnessBuckets counts stocks by updated_at age in one aggregate query.
func (r *stocksRepository) FreshnessBuckets(ctx context.Context) (models.FreshnessBuckets, error) {
	var b models.FreshnessBuckets
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE updated_at >= NOW() - INTERVAL '5 minutes') AS very_fresh,
			COUNT(*) FILTER (WHERE updated_at >= NOW() - INTERVAL '1 hour' AND updated_at < NOW() - INTERVAL '5 minutes') AS fresh,
			COUNT(*) FILTER (WHERE updated_at >= NOW() - INTERVAL '1 day' AND updated_at < NOW() - INTERVAL '1 hour') AS stale,
			COUNT(*) FILTER (WHERE updated_at < NOW() - INTERVAL '1 day') AS very_stale,
			COUNT(*) FILTER (WHERE updated_at IS NULL) AS never_updated
		FROM stocks
	`).Scan(&b.VeryFresh5Min, &b.Fresh1Hour, &b.Stale1Day, &b.VeryStale, &b.NeverUpdated)
	if err != nil {
		return models.FreshnessBuckets{}, fmt.Errorf("freshness buckets: %w", err)
	}
	return b, nil
}

// Coverage compares tracked stocks against the full ticker universe.
func (r *stocksRepository) Coverage(ctx context.Context) (models.Coverage, error) {
	var c models.Coverage
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM stock_tickers) AS total_tickers,
			(SELECT COUNT(*) FROM stocks) AS stocks_tracked
	`).Scan(&c.TotalTickers, &c.StocksTracked)
	if err != nil {
		return models.Coverage{}, fmt.Errorf("coverage counts: %w", err)
	}
	if c.TotalTickers > 0 {
		c.CoveragePercent = float64(c.StocksTracked) / float64(c.TotalTickers) * 100
	}
	return c, nil
}

// TopMovers returns stocks ordered by change_percent, descending for gainers
// or ascending for losers.
func (r *stocksRepository) TopMovers(ctx context.Context, limit int, ascending bool) ([]models.Quote, error) {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	return r.quoteQuery(ctx, `
		SELECT `+quoteColumns+`
		FROM stocks
		WHERE change_percent IS NOT NULL
		ORDER BY change_percent `+dir+`
		LIMIT $1
	`, limit)
}

// MostActive returns stocks ordered by traded volume.
func (r *stocksRepository) MostActive(ctx context.Context, limit int) ([]models.Quote, error) {
	return r.quoteQuery(ctx, `
		SELECT `+quoteColumns+`
		FROM stocks
		WHERE volume IS NOT NULL
		ORDER BY volume DESC
		LIMIT $1
	`, limit)
}

func (r *stocksRepository) quoteQuery(ctx context.Context, query string, limit int) ([]models.Quote, error) {
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("quote query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// scanQuote maps one stocks row onto a Quote, translating SQL NULLs into nil
// pointers (unknown, never zero-as-placeholder).
func scanQuote(rows *sql.Rows) (models.Quote, error) {
	var (
		q         models.Quote
		name      sql.NullString
		price     sql.NullFloat64
		change    sql.NullFloat64
		volume    sql.NullInt64
		marketCap sql.NullFloat64
		flt       sql.NullFloat64
		relVol    sql.NullFloat64
		raw       []byte
		updatedAt sql.NullTime
	)
	if err := rows.Scan(&q.Symbol, &name, &price, &change, &volume, &marketCap, &flt, &relVol, &raw, &updatedAt); err != nil {
		return models.Quote{}, err
	}
	if name.Valid {
		q.Name = &name.String
	}
	if price.Valid {
		q.Price = &price.Float64
	}
	if change.Valid {
		q.ChangePercent = &change.Float64
	}
	if volume.Valid {
		q.Volume = &volume.Int64
	}
	if marketCap.Valid {
		q.MarketCap = &marketCap.Float64
	}
	if flt.Valid {
		q.SharesFloat = &flt.Float64
	}
	if relVol.Valid {
		q.RelativeVolume = &relVol.Float64
	}
	if len(raw) > 0 {
		q.Raw = json.RawMessage(raw)
	}
	if updatedAt.Valid {
		q.UpdatedAt = updatedAt.Time
	}
	return q, nil
}

// nullableRaw maps an empty raw payload to SQL NULL instead of an empty blob.
func nullableRaw(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
