package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

func TestBuildDiveCentreQueryEmptyFiltersMatchEverything(t *testing.T) {
	query := BuildDiveCentreQuery(domain.DiveCentreFilters{})

	assert.Empty(t, query)
}

func TestBuildDiveCentreQueryAddressClausesAreCaseInsensitive(t *testing.T) {
	query := BuildDiveCentreQuery(domain.DiveCentreFilters{
		Address: "Marine Drive",
		City:    "valletta",
		Country: "malta",
	})

	assert.Equal(t, primitive.Regex{Pattern: "Marine Drive", Options: "i"}, query["address.addressLine1"])
	assert.Equal(t, primitive.Regex{Pattern: "valletta", Options: "i"}, query["address.city"])
	assert.Equal(t, primitive.Regex{Pattern: "malta", Options: "i"}, query["address.country"])
}

func TestBuildDiveCentreQueryDiveTypesIsMembershipTest(t *testing.T) {
	query := BuildDiveCentreQuery(domain.DiveCentreFilters{DiveTypes: "wreck,night"})

	assert.Equal(t, bson.M{"$in": []string{"wreck", "night"}}, query["diveTypes"])
}

func TestBuildDiveCentreQueryMaxPriceIsExistentialOverServices(t *testing.T) {
	maxPrice := 80.0
	query := BuildDiveCentreQuery(domain.DiveCentreFilters{MaxPrice: &maxPrice})

	// Matching any one service under the cap is enough.
	assert.Equal(t, bson.M{"$lte": 80.0}, query["services.price"])
}

func TestBuildDiveCentreQueryZeroMaxPriceStillApplies(t *testing.T) {
	maxPrice := 0.0
	query := BuildDiveCentreQuery(domain.DiveCentreFilters{MaxPrice: &maxPrice})

	assert.Equal(t, bson.M{"$lte": 0.0}, query["services.price"])
}

func TestBuildDiveCentreQueryDateRangeNeedsOneOpenSlot(t *testing.T) {
	query := BuildDiveCentreQuery(domain.DiveCentreFilters{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-07",
	})

	assert.Equal(t, bson.M{
		"$elemMatch": bson.M{
			"date":      bson.M{"$gte": "2026-09-01", "$lte": "2026-09-07"},
			"available": true,
		},
	}, query["availability"])
}

func TestBuildDiveCentreQueryHalfOpenDateRangeIsIgnored(t *testing.T) {
	query := BuildDiveCentreQuery(domain.DiveCentreFilters{StartDate: "2026-09-01"})

	assert.NotContains(t, query, "availability")
}

func TestBuildDiveCentreQueryClausesCompose(t *testing.T) {
	maxPrice := 120.0
	query := BuildDiveCentreQuery(domain.DiveCentreFilters{
		City:      "Hurghada",
		DiveTypes: "reef",
		MaxPrice:  &maxPrice,
		StartDate: "2026-10-01",
		EndDate:   "2026-10-03",
	})

	assert.Len(t, query, 4)
	assert.Contains(t, query, "address.city")
	assert.Contains(t, query, "diveTypes")
	assert.Contains(t, query, "services.price")
	assert.Contains(t, query, "availability")
}
