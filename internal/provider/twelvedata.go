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

// TwelveData is the secondary batch quote provider, consulted for symbols the
// primary left without a price. It serves quote-type fields; float is not
// available on its quote endpoint.
type TwelveData struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewTwelveData builds the adapter. An empty apiKey disables it: FetchBatch
// then reports the provider unavailable so the cascade moves on.
func NewTwelveData(baseURL, apiKey string) *TwelveData {
	return &TwelveData{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TwelveData) Name() string { return NameTwelveData }

// tdQuote maps one quote object. The API encodes numbers as strings.
type tdQuote struct {
	Symbol        string      `json:"symbol"`
	Name          *string     `json:"name"`
	Close         json.Number `json:"close"`
	PreviousClose json.Number `json:"previous_close"`
	PercentChange json.Number `json:"percent_change"`
	Volume        json.Number `json:"volume"`
	AverageVolume json.Number `json:"average_volume"`
	MarketCap     json.Number `json:"market_cap"`
	Code          int         `json:"code"`   // set on error objects
	Status        string      `json:"status"` // "error" on failures
}

// FetchBatch resolves symbols via the quote endpoint. For multi-symbol
// requests the API returns a map keyed by symbol; for a single symbol it
// returns the object directly. Both shapes are handled.
func (t *TwelveData) FetchBatch(ctx context.Context, symbols []string) (map[string]models.PartialQuote, error) {
	out := make(map[string]models.PartialQuote, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}
	if t.apiKey == "" {
		return nil, errUnavailable(NameTwelveData, "no API key configured", nil)
	}

	u := fmt.Sprintf("%s/quote?symbol=%s&apikey=%s",
		t.baseURL, url.QueryEscape(strings.Join(symbols, ",")), url.QueryEscape(t.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errUnavailable(NameTwelveData, "build request", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errUnavailable(NameTwelveData, "quote request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errRateLimited(NameTwelveData, "quote endpoint throttled")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errUnavailable(NameTwelveData, fmt.Sprintf("quote endpoint HTTP %d", resp.StatusCode), nil)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errMalformed(NameTwelveData, "decode quote response", err)
	}

	// Single-symbol responses are a bare quote object.
	if len(symbols) == 1 {
		if pq, ok := t.parseQuote(symbols[0], body); ok {
			out[pq.Symbol] = pq
		}
		return out, nil
	}

	var bySymbol map[string]json.RawMessage
	if err := json.Unmarshal(body, &bySymbol); err != nil {
		return nil, errMalformed(NameTwelveData, "decode quote map", err)
	}
	for sym, raw := range bySymbol {
		if pq, ok := t.parseQuote(sym, raw); ok {
			out[pq.Symbol] = pq
		}
	}
	return out, nil
}

// parseQuote normalizes one quote object; ok is false for error placeholders
// (unknown symbols yield {"code":400,"status":"error"} entries).
func (t *TwelveData) parseQuote(symbol string, raw json.RawMessage) (models.PartialQuote, bool) {
	var q tdQuote
	if err := json.Unmarshal(raw, &q); err != nil {
		return models.PartialQuote{}, false
	}
	if q.Status == "error" || q.Code >= 400 {
		return models.PartialQuote{}, false
	}
	sym := strings.ToUpper(symbol)
	if q.Symbol != "" {
		sym = strings.ToUpper(q.Symbol)
	}

	price := numPtr(q.Close)
	change := pctChange(price, numPtr(q.PreviousClose))
	if change == nil {
		change = numPtr(q.PercentChange)
	}
	volume := intPtr(q.Volume)

	return models.PartialQuote{
		Symbol:         sym,
		Name:           q.Name,
		Price:          price,
		ChangePercent:  change,
		Volume:         volume,
		MarketCap:      numPtr(q.MarketCap),
		RelativeVolume: relVolume(volume, numPtr(q.AverageVolume)),
		Raw:            raw,
	}, true
}

func numPtr(n json.Number) *float64 {
	if n == "" {
		return nil
	}
	v, err := n.Float64()
	if err != nil {
		return nil
	}
	return &v
}

func intPtr(n json.Number) *int64 {
	if n == "" {
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		// Some feeds encode volume as a float.
		f, ferr := n.Float64()
		if ferr != nil {
			return nil
		}
		v = int64(f)
	}
	return &v
}
