package query

import (
	"fmt"
	"testing"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var activeOnly = domain.Predicate{Field: domain.FieldStatus, Op: domain.OpEquals, Value: "active"}

func ptr(f float64) *float64 { return &f }

func countOps(preds []domain.Predicate, field string) map[domain.Operator]int {
	out := make(map[domain.Operator]int)
	for _, p := range preds {
		if p.Field == field {
			out[p.Op]++
		}
	}
	return out
}

func TestBuild_EmptyFilter(t *testing.T) {
	q := Build(domain.NormalizeFilter(domain.FilterInput{}))

	assert.Equal(t, []domain.Predicate{activeOnly}, q.Where)
	assert.Empty(t, q.AnyOf)
	assert.Equal(t, domain.Order{Field: domain.FieldCreatedAt, Direction: domain.Desc}, q.Order)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, 20, q.Limit)
}

func TestBuild_SetCoercionMatchesDedupedInput(t *testing.T) {
	inputs := []struct {
		name  string
		raw   any
		clean any
	}{
		{"ScalarVsSingleton", float64(4), []any{float64(4)}},
		{"DuplicatesVsDeduped", []any{float64(4), float64(9), float64(4)}, []any{float64(4), float64(9)}},
		{"EmptyVsAbsent", []any{}, nil},
	}
	for _, tc := range inputs {
		t.Run(tc.name, func(t *testing.T) {
			raw := Build(domain.NormalizeFilter(domain.FilterInput{BrandID: tc.raw, BodyType: tc.raw}))
			clean := Build(domain.NormalizeFilter(domain.FilterInput{BrandID: tc.clean, BodyType: tc.clean}))
			assert.Equal(t, clean, raw)
		})
	}
}

func TestBuild_EqualsVersusIn(t *testing.T) {
	q := Build(domain.ListingFilter{
		BrandIDs:    []int64{3},
		ModelIDs:    []int64{10, 11},
		EngineTypes: []string{"diesel"},
		DriveTypes:  []string{"front", "full"},
	})

	assert.Equal(t, []domain.Predicate{
		activeOnly,
		{Field: domain.FieldBrandID, Op: domain.OpEquals, Value: int64(3)},
		{Field: domain.FieldModelID, Op: domain.OpIn, Value: []int64{10, 11}},
		{Field: domain.FieldEngineType, Op: domain.OpEquals, Value: "diesel"},
		{Field: domain.FieldDriveType, Op: domain.OpIn, Value: []string{"front", "full"}},
	}, q.Where)
}

func TestBuild_RangeBoundIndependence(t *testing.T) {
	bounds := map[string]any{"absent": nil, "valid": 1000.0, "nan": "NaN", "junk": "abc"}
	for minName, minVal := range bounds {
		for maxName, maxVal := range bounds {
			t.Run(fmt.Sprintf("min_%s_max_%s", minName, maxName), func(t *testing.T) {
				q := Build(domain.NormalizeFilter(domain.FilterInput{PriceMin: minVal, PriceMax: maxVal}))
				ops := countOps(q.Where, domain.FieldPrice)

				wantGTE, wantLTE := 0, 0
				if minName == "valid" {
					wantGTE = 1
				}
				if maxName == "valid" {
					wantLTE = 1
				}
				assert.Equal(t, wantGTE, ops[domain.OpGTE])
				assert.Equal(t, wantLTE, ops[domain.OpLTE])
				assert.Equal(t, wantGTE+wantLTE, ops[domain.OpGTE]+ops[domain.OpLTE])
			})
		}
	}
}

func TestBuild_RangeOrder(t *testing.T) {
	q := Build(domain.ListingFilter{
		Price: domain.Range{Min: ptr(100), Max: ptr(200)},
		Year:  domain.Range{Max: ptr(2020)},
	})

	assert.Equal(t, []domain.Predicate{
		activeOnly,
		{Field: domain.FieldPrice, Op: domain.OpGTE, Value: 100.0},
		{Field: domain.FieldPrice, Op: domain.OpLTE, Value: 200.0},
		{Field: domain.FieldYear, Op: domain.OpLTE, Value: 2020.0},
	}, q.Where)
}

func TestBuild_Pagination(t *testing.T) {
	for page := 1; page <= 5; page++ {
		for _, size := range []int{1, 7, 20, 100} {
			q := Build(domain.ListingFilter{Page: page, PageSize: size})
			assert.Equal(t, (page-1)*size, q.Offset)
			assert.Equal(t, size, q.Limit)
		}
	}

	q := Build(domain.NormalizeFilter(domain.FilterInput{Page: -3.0, Limit: 10.0}))
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, 10, q.Limit)

	q = Build(domain.ListingFilter{Page: 0, PageSize: 0})
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, 20, q.Limit)
}

func TestBuild_CityTrimmed(t *testing.T) {
	q := Build(domain.ListingFilter{City: "   "})
	assert.Zero(t, countOps(q.Where, domain.FieldCity)[domain.OpEquals])

	q = Build(domain.ListingFilter{City: " Москва "})
	assert.Contains(t, q.Where, domain.Predicate{Field: domain.FieldCity, Op: domain.OpEquals, Value: "Москва"})
}

func TestBuild_FreeTextDisjunction(t *testing.T) {
	q := Build(domain.ListingFilter{
		FreeText:       "toyota",
		SearchBrandIDs: []int64{3},
	})

	require.Len(t, q.AnyOf, 3)
	assert.Equal(t, []domain.Predicate{
		{Field: domain.FieldTitle, Op: domain.OpILike, Value: "toyota"},
		{Field: domain.FieldDescription, Op: domain.OpILike, Value: "toyota"},
		{Field: domain.FieldBrandID, Op: domain.OpIn, Value: []int64{3}},
	}, q.AnyOf)
	assert.Equal(t, []domain.Predicate{activeOnly}, q.Where)
}

func TestBuild_FreeTextWithBothCandidates(t *testing.T) {
	q := Build(domain.ListingFilter{
		FreeText:       "x5",
		SearchBrandIDs: []int64{2},
		SearchModelIDs: []int64{40, 41},
	})

	require.Len(t, q.AnyOf, 4)
	assert.Equal(t, domain.Predicate{Field: domain.FieldModelID, Op: domain.OpIn, Value: []int64{40, 41}}, q.AnyOf[3])
}

func TestBuild_BlankFreeTextIgnored(t *testing.T) {
	q := Build(domain.ListingFilter{FreeText: "  ", SearchBrandIDs: []int64{1}})
	assert.Empty(t, q.AnyOf)
}

func TestBuild_Ordering(t *testing.T) {
	cases := map[domain.SortKey]domain.Order{
		domain.SortNewest:     {Field: domain.FieldCreatedAt, Direction: domain.Desc},
		domain.SortPriceAsc:   {Field: domain.FieldPrice, Direction: domain.Asc},
		domain.SortPriceDesc:  {Field: domain.FieldPrice, Direction: domain.Desc},
		domain.SortYearAsc:    {Field: domain.FieldYear, Direction: domain.Asc},
		domain.SortYearDesc:   {Field: domain.FieldYear, Direction: domain.Desc},
		domain.SortMileageAsc: {Field: domain.FieldMileage, Direction: domain.Asc},
		domain.SortKey("???"): {Field: domain.FieldCreatedAt, Direction: domain.Desc},
		domain.SortKey(""):    {Field: domain.FieldCreatedAt, Direction: domain.Desc},
	}
	for key, want := range cases {
		assert.Equal(t, want, Build(domain.ListingFilter{Sort: key}).Order, "sort key %q", key)
	}
}
