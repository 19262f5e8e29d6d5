package models

// FilterSpec is a set of optional numeric bounds applied to resolved quotes.
// A nil bound means "no constraint on this field". Every populated bound is
// an independent necessary condition; a quote missing the field a bound
// constrains fails that bound.
type FilterSpec struct {
	PriceMin          *float64 `json:"price_min,omitempty"`
	PriceMax          *float64 `json:"price_max,omitempty"`
	ChangeMin         *float64 `json:"change_min,omitempty"`
	ChangeMax         *float64 `json:"change_max,omitempty"`
	VolumeMin         *float64 `json:"volume_min,omitempty"`
	MarketCapMin      *float64 `json:"market_cap_min,omitempty"`
	MarketCapMax      *float64 `json:"market_cap_max,omitempty"`
	FloatMin          *float64 `json:"float_min,omitempty"`
	FloatMax          *float64 `json:"float_max,omitempty"`
	RelativeVolumeMin *float64 `json:"relative_volume_min,omitempty"`
}

// Comparison relates two fields of the same quote, e.g. volume > shares_float.
// A missing operand fails the comparison regardless of operator.
type Comparison struct {
	Left     string `json:"left" example:"volume"`
	Operator string `json:"operator" example:">" enums:">,>=,<,<=,="`
	Right    string `json:"right" example:"shares_float"`
}

// Sort keys accepted by ScreenOptions.OrderBy. Sorting is always descending,
// with unknown values sinking to the bottom.
const (
	OrderByChangePercent  = "change_percent"
	OrderByVolume         = "volume"
	OrderByRelativeVolume = "relative_volume"
)

// ScreenOptions controls candidate discovery, ranking and pagination.
type ScreenOptions struct {
	Exchange   string `json:"exchange,omitempty" example:"NASDAQ"`
	MaxSymbols int    `json:"maxSymbols,omitempty" example:"100"`
	OrderBy    string `json:"orderBy,omitempty" example:"change_percent"`
	Offset     int    `json:"offset,omitempty"`
	Limit      int    `json:"limit,omitempty" example:"50"`
}

// Pagination limits enforced server-side regardless of caller options.
const (
	DefaultLimit   = 50
	MaxLimit       = 200
	MaxSymbolsCap  = 200
	DefaultSymbols = 100
)

// Normalize clamps options into their allowed ranges and fills defaults.
func (o *ScreenOptions) Normalize() {
	if o.MaxSymbols <= 0 {
		o.MaxSymbols = DefaultSymbols
	}
	if o.MaxSymbols > MaxSymbolsCap {
		o.MaxSymbols = MaxSymbolsCap
	}
	switch o.OrderBy {
	case OrderByVolume, OrderByRelativeVolume:
	default:
		o.OrderBy = OrderByChangePercent
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
}
