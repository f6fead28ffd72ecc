package mongodb

import (
	"fmt"
	"regexp"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toBSONFilter renders q's predicates as a Mongo filter. Each predicate is
// its own $and term so two bounds on one field never collide.
func toBSONFilter(q domain.Query) (bson.M, error) {
	and := bson.A{}
	for _, p := range q.Where {
		cond, err := toBSONCondition(p)
		if err != nil {
			return nil, err
		}
		and = append(and, bson.M{p.Field: cond})
	}
	if len(q.AnyOf) > 0 {
		or := bson.A{}
		for _, p := range q.AnyOf {
			cond, err := toBSONCondition(p)
			if err != nil {
				return nil, err
			}
			or = append(or, bson.M{p.Field: cond})
		}
		and = append(and, bson.M{"$or": or})
	}
	if len(and) == 0 {
		return bson.M{}, nil
	}
	return bson.M{"$and": and}, nil
}

func toBSONCondition(p domain.Predicate) (interface{}, error) {
	switch p.Op {
	case domain.OpEquals:
		return p.Value, nil
	case domain.OpIn:
		return bson.M{"$in": p.Value}, nil
	case domain.OpGTE:
		return bson.M{"$gte": p.Value}, nil
	case domain.OpLTE:
		return bson.M{"$lte": p.Value}, nil
	case domain.OpILike:
		s, ok := p.Value.(string)
		if !ok {
			return nil, fmt.Errorf("ilike on %s needs a string, got %T", p.Field, p.Value)
		}
		return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}, nil
	default:
		return nil, fmt.Errorf("unsupported operator %q on %s", p.Op, p.Field)
	}
}

// toBSONSort orders by o and then by _id so pages are stable.
func toBSONSort(o domain.Order) bson.D {
	field := o.Field
	if field == "" {
		field = domain.FieldCreatedAt
	}
	dir := -1
	if o.Direction == domain.Asc {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

// joinStages expands brand, model, images and owner onto each listing.
func joinStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         brandsCollection,
			"localField":   "brand_id",
			"foreignField": "_id",
			"as":           "brand",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         modelsCollection,
			"localField":   "model_id",
			"foreignField": "_id",
			"as":           "model",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": imagesCollection,
			"let":  bson.M{"lid": bson.M{"$toString": "$_id"}},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$listing_id", "$$lid"}}}},
				bson.M{"$sort": bson.D{{Key: "sort_order", Value: 1}, {Key: "_id", Value: 1}}},
			},
			"as": "images",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": usersCollection,
			"let":  bson.M{"uid": "$user_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{bson.M{"$toString": "$_id"}, "$$uid"}}}},
				bson.M{"$project": bson.M{"display_name": 1, "avatar_url": 1}},
			},
			"as": "user",
		}}},
	}
}
