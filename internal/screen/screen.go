package screen

import (
	"fmt"
	"math"
	"sort"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Passes reports whether a quote satisfies every bound in filters and every
// field comparison. Bounds on a field the quote does not have fail the quote:
// an unknown value cannot prove it is inside the range.
func Passes(q models.Quote, filters models.FilterSpec, comparisons []models.Comparison) bool {
	if !q.Screenable() {
		return false
	}
	if !within(q.Price, filters.PriceMin, filters.PriceMax) {
		return false
	}
	if !within(q.ChangePercent, filters.ChangeMin, filters.ChangeMax) {
		return false
	}
	if !within(floatVolume(q.Volume), filters.VolumeMin, nil) {
		return false
	}
	if !within(q.MarketCap, filters.MarketCapMin, filters.MarketCapMax) {
		return false
	}
	if !within(q.SharesFloat, filters.FloatMin, filters.FloatMax) {
		return false
	}
	if !within(q.RelativeVolume, filters.RelativeVolumeMin, nil) {
		return false
	}
	for _, c := range comparisons {
		if !compare(q, c) {
			return false
		}
	}
	return true
}

// within checks value against optional [min, max] bounds. No bounds means
// pass; any bound on a nil value means fail.
func within(value, min, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	if value == nil {
		return false
	}
	if min != nil && *value < *min {
		return false
	}
	if max != nil && *value > *max {
		return false
	}
	return true
}

// compare evaluates one field-vs-field comparison. Unknown field names and
// missing values fail the comparison.
func compare(q models.Quote, c models.Comparison) bool {
	left := q.Field(c.Left)
	right := q.Field(c.Right)
	if left == nil || right == nil {
		return false
	}
	switch c.Operator {
	case ">":
		return *left > *right
	case ">=":
		return *left >= *right
	case "<":
		return *left < *right
	case "<=":
		return *left <= *right
	case "=":
		return *left == *right
	default:
		return false
	}
}

// ValidateComparisons rejects comparisons with unknown fields or operators
// before any provider work is spent on the request.
func ValidateComparisons(comparisons []models.Comparison) error {
	for _, c := range comparisons {
		if !validField(c.Left) {
			return fmt.Errorf("unknown comparison field %q", c.Left)
		}
		if !validField(c.Right) {
			return fmt.Errorf("unknown comparison field %q", c.Right)
		}
		switch c.Operator {
		case ">", ">=", "<", "<=", "=":
		default:
			return fmt.Errorf("unknown comparison operator %q", c.Operator)
		}
	}
	return nil
}

func validField(name string) bool {
	switch name {
	case "price", "change_percent", "volume", "market_cap", "shares_float", "relative_volume":
		return true
	default:
		return false
	}
}

// Rank sorts quotes by the given field, descending, in place. Quotes missing
// the field sort last; ties keep their pre-sort order so pagination over
// repeated requests stays stable.
func Rank(quotes []models.Quote, orderBy string) {
	key := func(q models.Quote) float64 {
		if v := q.Field(orderBy); v != nil {
			return *v
		}
		return math.Inf(-1)
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return key(quotes[i]) > key(quotes[j])
	})
}

// Paginate slices quotes by offset and limit, clamping out-of-range windows
// to an empty page rather than erroring.
func Paginate(quotes []models.Quote, offset, limit int) []models.Quote {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(quotes) {
		return []models.Quote{}
	}
	end := offset + limit
	if limit <= 0 || end > len(quotes) {
		end = len(quotes)
	}
	return quotes[offset:end]
}

func floatVolume(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
