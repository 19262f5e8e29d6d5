package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// finnhubMaxRetries bounds how often a throttled call is retried before the
// adapter gives up and reports the provider rate-limited for this symbol.
const finnhubMaxRetries = 3

// Finnhub is the single-symbol, rate-limited quote provider. Resolving one
// symbol costs three upstream calls (quote, profile, metrics), each charged
// against the shared sliding-window budget.
type Finnhub struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *SlidingWindow

	// injectable for tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFinnhub builds the adapter. The limiter is shared process-wide (owned by
// the orchestrator's state registry); an empty apiKey disables the adapter.
func NewFinnhub(baseURL, apiKey string, limiter *SlidingWindow) *Finnhub {
	return &Finnhub{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
		sleep:   sleepCtx,
	}
}

func (f *Finnhub) Name() string { return NameFinnhub }

type finnhubQuote struct {
	Current       *float64 `json:"c"`
	PreviousClose *float64 `json:"pc"`
	Volume        *float64 `json:"v"`
}

type finnhubProfile struct {
	Name             *string  `json:"name"`
	MarketCapMillion *float64 `json:"marketCapitalization"`
	ShareOutstanding *float64 `json:"shareOutstanding"`
}

type finnhubMetrics struct {
	Metric struct {
		AvgVolume10Day *float64 `json:"10DayAverageTradingVolume"`
	} `json:"metric"`
}

// FetchOne resolves a single symbol from the quote, profile and metric
// endpoints. The quote call is mandatory; profile and metric failures degrade
// to missing fundamentals rather than failing the symbol.
func (f *Finnhub) FetchOne(ctx context.Context, symbol string) (*models.PartialQuote, error) {
	if f.apiKey == "" {
		return nil, errUnavailable(NameFinnhub, "no API key configured", nil)
	}

	var quote finnhubQuote
	quoteRaw, err := f.get(ctx, "quote", url.Values{"symbol": {symbol}}, &quote)
	if err != nil {
		return nil, err
	}

	var profile finnhubProfile
	if _, perr := f.get(ctx, "stock/profile2", url.Values{"symbol": {symbol}}, &profile); perr != nil {
		profile = finnhubProfile{}
	}
	var metrics finnhubMetrics
	if _, merr := f.get(ctx, "stock/metric", url.Values{"symbol": {symbol}, "metric": {"all"}}, &metrics); merr != nil {
		metrics = finnhubMetrics{}
	}

	// Market cap arrives in millions; normalize to absolute currency units
	// here, not in the merge resolver.
	var marketCap *float64
	if profile.MarketCapMillion != nil {
		v := *profile.MarketCapMillion * 1e6
		marketCap = &v
	}

	var volume *int64
	if quote.Volume != nil {
		v := int64(*quote.Volume)
		volume = &v
	}

	pq := &models.PartialQuote{
		Symbol:         strings.ToUpper(symbol),
		Name:           profile.Name,
		Price:          quote.Current,
		ChangePercent:  pctChange(quote.Current, quote.PreviousClose),
		Volume:         volume,
		MarketCap:      marketCap,
		SharesFloat:    profile.ShareOutstanding,
		RelativeVolume: relVolume(volume, metrics.Metric.AvgVolume10Day),
		Raw:            quoteRaw,
	}
	if pq.Price == nil || *pq.Price == 0 {
		// Upstream answered but has nothing usable for this symbol.
		return nil, nil
	}
	return pq, nil
}

// get performs one budgeted call and decodes the JSON body into out. On a 429
// it honors the server-supplied Retry-After (defaulting to 60s), backing off
// exponentially across at most finnhubMaxRetries attempts before giving up
// with a rate_limited error.
func (f *Finnhub) get(ctx context.Context, path string, params url.Values, out any) (json.RawMessage, error) {
	params.Set("token", f.apiKey)
	u := fmt.Sprintf("%s/%s?%s", f.baseURL, path, params.Encode())

	backoff := 1
	for attempt := 0; attempt <= finnhubMaxRetries; attempt++ {
		if err := f.limiter.Acquire(ctx); err != nil {
			return nil, errUnavailable(NameFinnhub, "rate limit wait cancelled", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, errUnavailable(NameFinnhub, "build request", err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, errUnavailable(NameFinnhub, path+" request failed", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			_ = resp.Body.Close()
			if attempt == finnhubMaxRetries {
				break
			}
			if err := f.sleep(ctx, retryAfter*time.Duration(backoff)); err != nil {
				return nil, errUnavailable(NameFinnhub, "throttle wait cancelled", err)
			}
			backoff *= 2
			continue
		}
		if resp.StatusCode != http.StatusOK {
			code := resp.StatusCode
			_ = resp.Body.Close()
			return nil, errUnavailable(NameFinnhub, fmt.Sprintf("%s HTTP %d", path, code), nil)
		}

		var raw json.RawMessage
		err = json.NewDecoder(resp.Body).Decode(&raw)
		_ = resp.Body.Close()
		if err != nil {
			return nil, errMalformed(NameFinnhub, "decode "+path, err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, errMalformed(NameFinnhub, "parse "+path, err)
		}
		return raw, nil
	}
	return nil, errRateLimited(NameFinnhub, path+" throttled after retries")
}

// parseRetryAfter reads a Retry-After header in seconds, defaulting to 60s.
func parseRetryAfter(h string) time.Duration {
	if h == "" {
		return 60 * time.Second
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || secs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(secs) * time.Second
}
