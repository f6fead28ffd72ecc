// Package query translates a normalized listing filter into a store query.
package query

import (
	"strings"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
)

var orderBySort = map[domain.SortKey]domain.Order{
	domain.SortNewest:     {Field: domain.FieldCreatedAt, Direction: domain.Desc},
	domain.SortPriceAsc:   {Field: domain.FieldPrice, Direction: domain.Asc},
	domain.SortPriceDesc:  {Field: domain.FieldPrice, Direction: domain.Desc},
	domain.SortYearAsc:    {Field: domain.FieldYear, Direction: domain.Asc},
	domain.SortYearDesc:   {Field: domain.FieldYear, Direction: domain.Desc},
	domain.SortMileageAsc: {Field: domain.FieldMileage, Direction: domain.Asc},
}

// Build maps f to a query. It is total: every ListingFilter yields a query.
// Predicates are emitted in a fixed order so equal filters give equal queries.
func Build(f domain.ListingFilter) domain.Query {
	q := domain.Query{
		Where: []domain.Predicate{
			{Field: domain.FieldStatus, Op: domain.OpEquals, Value: string(domain.StatusActive)},
		},
	}

	q.Where = appendIntSet(q.Where, domain.FieldBrandID, f.BrandIDs)
	q.Where = appendIntSet(q.Where, domain.FieldModelID, f.ModelIDs)
	q.Where = appendStringSet(q.Where, domain.FieldBodyType, f.BodyTypes)
	q.Where = appendStringSet(q.Where, domain.FieldEngineType, f.EngineTypes)
	q.Where = appendStringSet(q.Where, domain.FieldTransmission, f.Transmissions)
	q.Where = appendStringSet(q.Where, domain.FieldDriveType, f.DriveTypes)

	q.Where = appendRange(q.Where, domain.FieldPrice, f.Price)
	q.Where = appendRange(q.Where, domain.FieldYear, f.Year)

	if city := strings.TrimSpace(f.City); city != "" {
		q.Where = append(q.Where, domain.Predicate{Field: domain.FieldCity, Op: domain.OpEquals, Value: city})
	}

	if text := strings.TrimSpace(f.FreeText); text != "" {
		q.AnyOf = []domain.Predicate{
			{Field: domain.FieldTitle, Op: domain.OpILike, Value: text},
			{Field: domain.FieldDescription, Op: domain.OpILike, Value: text},
		}
		if len(f.SearchBrandIDs) > 0 {
			q.AnyOf = append(q.AnyOf, domain.Predicate{Field: domain.FieldBrandID, Op: domain.OpIn, Value: f.SearchBrandIDs})
		}
		if len(f.SearchModelIDs) > 0 {
			q.AnyOf = append(q.AnyOf, domain.Predicate{Field: domain.FieldModelID, Op: domain.OpIn, Value: f.SearchModelIDs})
		}
	}

	order, ok := orderBySort[f.Sort]
	if !ok {
		order = orderBySort[domain.SortNewest]
	}
	q.Order = order

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	q.Offset = (page - 1) * size
	q.Limit = size

	return q
}

func appendIntSet(dst []domain.Predicate, field string, ids []int64) []domain.Predicate {
	switch len(ids) {
	case 0:
		return dst
	case 1:
		return append(dst, domain.Predicate{Field: field, Op: domain.OpEquals, Value: ids[0]})
	default:
		return append(dst, domain.Predicate{Field: field, Op: domain.OpIn, Value: ids})
	}
}

func appendStringSet(dst []domain.Predicate, field string, values []string) []domain.Predicate {
	switch len(values) {
	case 0:
		return dst
	case 1:
		return append(dst, domain.Predicate{Field: field, Op: domain.OpEquals, Value: values[0]})
	default:
		return append(dst, domain.Predicate{Field: field, Op: domain.OpIn, Value: values})
	}
}

func appendRange(dst []domain.Predicate, field string, r domain.Range) []domain.Predicate {
	if r.Min != nil {
		dst = append(dst, domain.Predicate{Field: field, Op: domain.OpGTE, Value: *r.Min})
	}
	if r.Max != nil {
		dst = append(dst, domain.Predicate{Field: field, Op: domain.OpLTE, Value: *r.Max})
	}
	return dst
}
