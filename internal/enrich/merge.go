package enrich

import (
	"encoding/json"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/provider"
)

// quotePriority fixes the precedence order for price-sensitive fields. Earlier
// sources win; later sources only fill fields the earlier ones left nil.
var quotePriority = []string{provider.NameYahoo, provider.NameTwelveData, provider.NameFinnhub}

// namePriority extends the quote order with the fundamentals source, which can
// still contribute a company name when no quote source had one.
var namePriority = []string{provider.NameYahoo, provider.NameTwelveData, provider.NameFinnhub, provider.NameFMP}

// fundamentalsPriority orders sources for market cap and float. The quote
// providers are preferred when they carried the figures; the fundamentals
// provider backfills the rest.
var fundamentalsPriority = []string{provider.NameYahoo, provider.NameTwelveData, provider.NameFinnhub, provider.NameFMP}

// Merge resolves the partial quotes collected for one symbol into a single
// Quote. Each field is taken from the highest-priority source that has it;
// a symbol with no price from any source yields nil (unresolvable, the caller
// drops it). The per-source raw payloads are preserved under a JSON object
// keyed by source name.
func Merge(symbol string, parts map[string]models.PartialQuote, now time.Time) *models.Quote {
	price := firstFloat(parts, quotePriority, func(p models.PartialQuote) *float64 { return p.Price })
	if price == nil {
		return nil
	}

	q := models.Quote{
		Symbol:         symbol,
		Price:          price,
		ChangePercent:  firstFloat(parts, quotePriority, func(p models.PartialQuote) *float64 { return p.ChangePercent }),
		Volume:         firstInt(parts, quotePriority, func(p models.PartialQuote) *int64 { return p.Volume }),
		RelativeVolume: firstFloat(parts, quotePriority, func(p models.PartialQuote) *float64 { return p.RelativeVolume }),
		MarketCap:      firstFloat(parts, fundamentalsPriority, func(p models.PartialQuote) *float64 { return p.MarketCap }),
		SharesFloat:    firstFloat(parts, fundamentalsPriority, func(p models.PartialQuote) *float64 { return p.SharesFloat }),
		Name:           firstString(parts, namePriority, func(p models.PartialQuote) *string { return p.Name }),
		Raw:            mergeRaw(parts),
		UpdatedAt:      now,
	}
	return &q
}

func firstFloat(parts map[string]models.PartialQuote, order []string, pick func(models.PartialQuote) *float64) *float64 {
	for _, src := range order {
		if p, ok := parts[src]; ok {
			if v := pick(p); v != nil {
				return v
			}
		}
	}
	return nil
}

func firstInt(parts map[string]models.PartialQuote, order []string, pick func(models.PartialQuote) *int64) *int64 {
	for _, src := range order {
		if p, ok := parts[src]; ok {
			if v := pick(p); v != nil {
				return v
			}
		}
	}
	return nil
}

func firstString(parts map[string]models.PartialQuote, order []string, pick func(models.PartialQuote) *string) *string {
	for _, src := range order {
		if p, ok := parts[src]; ok {
			if v := pick(p); v != nil && *v != "" {
				return v
			}
		}
	}
	return nil
}

// mergeRaw packs the per-source raw payloads into one JSON object, keyed by
// source name, for audit and debugging.
func mergeRaw(parts map[string]models.PartialQuote) json.RawMessage {
	bySource := make(map[string]json.RawMessage, len(parts))
	for src, p := range parts {
		if len(p.Raw) > 0 {
			bySource[src] = p.Raw
		}
	}
	if len(bySource) == 0 {
		return nil
	}
	raw, err := json.Marshal(bySource)
	if err != nil {
		return nil
	}
	return raw
}
