package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Yahoo is the primary batch quote provider. One HTTP call resolves the whole
// symbol batch; it serves every quote-type field plus market cap and float,
// so for most symbols no other provider needs to be consulted.
type Yahoo struct {
	baseURL string
	client  *http.Client
}

// NewYahoo builds the adapter. baseURL is overridable for tests.
func NewYahoo(baseURL string) *Yahoo {
	return &Yahoo{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (y *Yahoo) Name() string { return NameYahoo }

// yahooQuote maps the fields we consume from one quoteResponse.result entry.
type yahooQuote struct {
	Symbol                     string   `json:"symbol"`
	LongName                   *string  `json:"longName"`
	ShortName                  *string  `json:"shortName"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketVolume        *int64   `json:"regularMarketVolume"`
	AverageDailyVolume10Day    *float64 `json:"averageDailyVolume10Day"`
	MarketCap                  *float64 `json:"marketCap"`
	FloatShares                *float64 `json:"floatShares"`
}

// FetchBatch resolves up to a full batch of symbols in one call to the
// v7 finance/quote endpoint. Symbols absent from the response are simply
// missing from the returned map.
func (y *Yahoo) FetchBatch(ctx context.Context, symbols []string) (map[string]models.PartialQuote, error) {
	out := make(map[string]models.PartialQuote, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.baseURL, url.QueryEscape(strings.Join(symbols, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errUnavailable(NameYahoo, "build request", err)
	}
	// The public endpoint rejects requests without a browser-ish agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, errUnavailable(NameYahoo, "quote request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errRateLimited(NameYahoo, "quote endpoint throttled")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errUnavailable(NameYahoo, fmt.Sprintf("quote endpoint HTTP %d", resp.StatusCode), nil)
	}

	var payload struct {
		QuoteResponse struct {
			Result []json.RawMessage `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errMalformed(NameYahoo, "decode quote response", err)
	}

	for _, raw := range payload.QuoteResponse.Result {
		var q yahooQuote
		if err := json.Unmarshal(raw, &q); err != nil || q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == nil {
			name = q.ShortName
		}
		out[strings.ToUpper(q.Symbol)] = models.PartialQuote{
			Symbol:         strings.ToUpper(q.Symbol),
			Name:           name,
			Price:          q.RegularMarketPrice,
			ChangePercent:  pctChange(q.RegularMarketPrice, q.RegularMarketPreviousClose),
			Volume:         q.RegularMarketVolume,
			MarketCap:      q.MarketCap,
			SharesFloat:    q.FloatShares,
			RelativeVolume: relVolume(q.RegularMarketVolume, q.AverageDailyVolume10Day),
			Raw:            raw,
		}
	}
	return out, nil
}
