package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const DefaultPageSize = 20

type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortYearAsc    SortKey = "year_asc"
	SortYearDesc   SortKey = "year_desc"
	SortMileageAsc SortKey = "mileage_asc"
)

var sortAliases = map[string]SortKey{
	"newest":      SortNewest,
	"created_at":  SortNewest,
	"date":        SortNewest,
	"price_asc":   SortPriceAsc,
	"priceasc":    SortPriceAsc,
	"price":       SortPriceAsc,
	"price_desc":  SortPriceDesc,
	"pricedesc":   SortPriceDesc,
	"year_asc":    SortYearAsc,
	"yearasc":     SortYearAsc,
	"year_desc":   SortYearDesc,
	"yeardesc":    SortYearDesc,
	"year":        SortYearDesc,
	"mileage_asc": SortMileageAsc,
	"mileageasc":  SortMileageAsc,
	"mileage":     SortMileageAsc,
}

// ParseSortKey resolves a caller supplied sort key. Anything unknown is newest.
func ParseSortKey(v any) SortKey {
	s, ok := v.(string)
	if !ok {
		return SortNewest
	}
	if key, found := sortAliases[strings.ToLower(strings.TrimSpace(s))]; found {
		return key
	}
	return SortNewest
}

// FilterInput is search intent as the caller sent it. Every field may be a
// scalar, a slice or nil.
type FilterInput struct {
	BrandID      any `json:"brand_id"`
	ModelID      any `json:"model_id"`
	PriceMin     any `json:"price_min"`
	PriceMax     any `json:"price_max"`
	YearMin      any `json:"year_min"`
	YearMax      any `json:"year_max"`
	City         any `json:"city"`
	BodyType     any `json:"body_type"`
	EngineType   any `json:"engine_type"`
	Transmission any `json:"transmission"`
	DriveType    any `json:"drive_type"`
	Search       any `json:"search"`
	SortBy       any `json:"sort_by"`
	Page         any `json:"page"`
	Limit        any `json:"limit"`
}

// Range is a numeric interval with optional bounds.
type Range struct {
	Min *float64
	Max *float64
}

// ListingFilter is the normalized form of FilterInput. Empty sets mean no
// constraint.
type ListingFilter struct {
	BrandIDs      []int64
	ModelIDs      []int64
	Price         Range
	Year          Range
	City          string
	BodyTypes     []string
	EngineTypes   []string
	Transmissions []string
	DriveTypes    []string
	FreeText      string

	// Catalog ids whose names match FreeText. Filled by the search usecase.
	SearchBrandIDs []int64
	SearchModelIDs []int64

	Sort     SortKey
	Page     int
	PageSize int
}

// NormalizeFilter coerces raw input into a ListingFilter. Malformed values are
// dropped, never reported.
func NormalizeFilter(in FilterInput) ListingFilter {
	return NormalizeFilterWithPageSize(in, DefaultPageSize)
}

// NormalizeFilterWithPageSize is NormalizeFilter with defaultSize used when
// Limit is absent or malformed.
func NormalizeFilterWithPageSize(in FilterInput, defaultSize int) ListingFilter {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	f := ListingFilter{
		BrandIDs:      IntSet(in.BrandID),
		ModelIDs:      IntSet(in.ModelID),
		Price:         Range{Min: Bound(in.PriceMin), Max: Bound(in.PriceMax)},
		Year:          Range{Min: Bound(in.YearMin), Max: Bound(in.YearMax)},
		City:          firstString(in.City),
		BodyTypes:     StringSet(in.BodyType),
		EngineTypes:   StringSet(in.EngineType),
		Transmissions: StringSet(in.Transmission),
		DriveTypes:    StringSet(in.DriveType),
		FreeText:      firstString(in.Search),
		Sort:          ParseSortKey(in.SortBy),
		Page:          1,
		PageSize:      defaultSize,
	}

	if page, ok := toInt(in.Page); ok && page > 1 {
		f.Page = page
	}
	if size, ok := toInt(in.Limit); ok && size > 0 {
		f.PageSize = size
	}
	return f
}

// IntSet flattens v into a deduplicated id list keeping first-seen order.
func IntSet(v any) []int64 {
	var out []int64
	seen := make(map[int64]struct{})
	add := func(x any) {
		id, ok := toInt64(x)
		if !ok {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	switch vv := v.(type) {
	case nil:
	case []any:
		for _, x := range vv {
			add(x)
		}
	case []string:
		for _, x := range vv {
			add(x)
		}
	case []int64:
		for _, x := range vv {
			add(x)
		}
	case []int:
		for _, x := range vv {
			add(x)
		}
	case []float64:
		for _, x := range vv {
			add(x)
		}
	default:
		add(vv)
	}
	return out
}

// StringSet flattens v into a deduplicated list of trimmed, non-empty strings.
func StringSet(v any) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(x any) {
		s, ok := x.(string)
		if !ok {
			return
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	switch vv := v.(type) {
	case nil:
	case []any:
		for _, x := range vv {
			add(x)
		}
	case []string:
		for _, x := range vv {
			add(x)
		}
	default:
		add(vv)
	}
	return out
}

// Bound returns v as a finite number, or nil when v is absent or malformed.
func Bound(v any) *float64 {
	if xs, ok := v.([]string); ok {
		if len(xs) == 0 {
			return nil
		}
		v = xs[0]
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

func firstString(v any) string {
	set := StringSet(v)
	if len(set) == 0 {
		return ""
	}
	return set[0]
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return id, err == nil
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

func toInt(v any) (int, bool) {
	if xs, ok := v.([]string); ok {
		if len(xs) == 0 {
			return 0, false
		}
		v = xs[0]
	}
	f, ok := toFloat(v)
	if !ok || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
