package store

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

// BuildDiveCentreQuery composes the optional search clauses into a single
// conjunctive Mongo filter. Absent clauses add nothing, so a fully empty
// filter set matches every centre.
//
// The price and availability clauses are existential over the nested
// arrays: a centre matches maxPrice if any one of its services is cheap
// enough, and matches a date range if any one availability entry inside
// the range is open. diveTypes is a membership test, not a subset test.
func BuildDiveCentreQuery(filters domain.DiveCentreFilters) bson.M {
	query := bson.M{}

	if filters.Address != "" {
		query["address.addressLine1"] = primitive.Regex{Pattern: filters.Address, Options: "i"}
	}
	if filters.City != "" {
		query["address.city"] = primitive.Regex{Pattern: filters.City, Options: "i"}
	}
	if filters.Country != "" {
		query["address.country"] = primitive.Regex{Pattern: filters.Country, Options: "i"}
	}
	if filters.DiveTypes != "" {
		query["diveTypes"] = bson.M{"$in": strings.Split(filters.DiveTypes, ",")}
	}
	if filters.MaxPrice != nil {
		query["services.price"] = bson.M{"$lte": *filters.MaxPrice}
	}
	if filters.StartDate != "" && filters.EndDate != "" {
		query["availability"] = bson.M{
			"$elemMatch": bson.M{
				"date":      bson.M{"$gte": filters.StartDate, "$lte": filters.EndDate},
				"available": true,
			},
		}
	}

	return query
}
