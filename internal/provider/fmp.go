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

// FMP is the fundamentals/profile provider. It is consulted last, and only
// for symbols whose merged quote still lacks market cap or float; quote-type
// fields it may return are ignored by the merge resolver's field typing.
type FMP struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewFMP builds the adapter. An empty apiKey disables it.
func NewFMP(baseURL, apiKey string) *FMP {
	return &FMP{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *FMP) Name() string { return NameFMP }

type fmpProfile struct {
	Symbol            string   `json:"symbol"`
	CompanyName       *string  `json:"companyName"`
	MktCap            *float64 `json:"mktCap"`
	MarketCap         *float64 `json:"marketCap"`
	SharesOutstanding *float64 `json:"sharesOutstanding"`
}

// FetchBatch resolves fundamentals for a batch of symbols via the profile
// endpoint (comma-joined symbol list, array response).
func (f *FMP) FetchBatch(ctx context.Context, symbols []string) (map[string]models.PartialQuote, error) {
	out := make(map[string]models.PartialQuote, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}
	if f.apiKey == "" {
		return nil, errUnavailable(NameFMP, "no API key configured", nil)
	}

	u := fmt.Sprintf("%s/profile/%s?apikey=%s",
		f.baseURL, url.PathEscape(strings.Join(symbols, ",")), url.QueryEscape(f.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errUnavailable(NameFMP, "build request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errUnavailable(NameFMP, "profile request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errRateLimited(NameFMP, "profile endpoint throttled")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errUnavailable(NameFMP, fmt.Sprintf("profile endpoint HTTP %d", resp.StatusCode), nil)
	}

	var entries []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errMalformed(NameFMP, "decode profile response", err)
	}

	for _, raw := range entries {
		var p fmpProfile
		if err := json.Unmarshal(raw, &p); err != nil || p.Symbol == "" {
			continue
		}
		marketCap := p.MktCap
		if marketCap == nil {
			marketCap = p.MarketCap
		}
		sym := strings.ToUpper(p.Symbol)
		out[sym] = models.PartialQuote{
			Symbol:      sym,
			Name:        p.CompanyName,
			MarketCap:   marketCap,
			SharesFloat: p.SharesOutstanding,
			Raw:         raw,
		}
	}
	return out, nil
}
