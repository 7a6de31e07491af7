package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-matching/internal/models"
)

func TestAggregateFavorites(t *testing.T) {
	favorites := []models.Property{
		{ID: 1, Price: 300000, Type: models.PropertyTypeApartment, Location: "Nice, Cimiez"},
		{ID: 2, Price: 500000, Type: models.PropertyTypeApartment, Location: "Nice, Port"},
		{ID: 3, Price: 400000, Type: models.PropertyTypeVilla, Location: "Cannes"},
	}

	got := AggregateFavorites(favorites)
	assert.Equal(t, map[models.PropertyType]int{
		models.PropertyTypeApartment: 2,
		models.PropertyTypeVilla:     1,
	}, got.FavoriteTypes)
	assert.Equal(t, map[string]int{"Nice": 2, "Cannes": 1}, got.FavoriteLocations)
	require.NotNil(t, got.FavoritePrices)
	assert.Equal(t, int64(300000), got.FavoritePrices.Min)
	assert.Equal(t, int64(500000), got.FavoritePrices.Max)
	assert.InDelta(t, 400000, got.FavoritePrices.Mean, 1e-9)

	empty := AggregateFavorites(nil)
	assert.Empty(t, empty.FavoriteTypes)
	assert.Nil(t, empty.FavoritePrices)
}

func TestAggregateSearchLog(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.SearchLogEntry{
		{
			Query:      "villa Cannes",
			Filters:    models.SearchCriteria{Location: "Cannes", PropertyType: models.PropertyTypeVilla, PriceMax: models.Int64Ptr(900000)},
			SearchedAt: base,
		},
		{
			Query:      "apartment Nice 400k€",
			Filters:    models.SearchCriteria{Location: "Nice", PropertyType: models.PropertyTypeApartment, PriceMax: models.Int64Ptr(400000)},
			SearchedAt: base.Add(2 * time.Hour),
		},
		{
			Query:      "Nice",
			Filters:    models.SearchCriteria{Location: "Nice"},
			SearchedAt: base.Add(time.Hour),
		},
	}

	got := AggregateSearchLog(entries, 2)
	assert.Equal(t, 3, got.SearchCount)
	assert.Equal(t, map[string]int{"Nice": 2, "Cannes": 1}, got.PreferredLocations)
	assert.Equal(t, map[models.PropertyType]int{
		models.PropertyTypeVilla:     1,
		models.PropertyTypeApartment: 1,
	}, got.PreferredTypes)
	assert.Equal(t, []int64{400000, 900000}, got.PriceCeilings, "most recent first")
	require.NotNil(t, got.MeanPriceCeiling)
	assert.InDelta(t, 650000, *got.MeanPriceCeiling, 1e-9)
	assert.Equal(t, []string{"apartment Nice 400k€", "Nice"}, got.RecentQueries)

	empty := AggregateSearchLog(nil, 10)
	assert.Zero(t, empty.SearchCount)
	assert.Nil(t, empty.MeanPriceCeiling)
}

func TestBuildBehavior(t *testing.T) {
	b := BuildBehavior(
		[]models.Property{{Price: 200000, Type: models.PropertyTypeStudio, Location: "Menton"}},
		[]models.SearchLogEntry{{Filters: models.SearchCriteria{Location: "Nice", PriceMax: models.Int64Ptr(250000)}}},
	)
	assert.Equal(t, 1, b.FavoriteTypes[models.PropertyTypeStudio])
	assert.Equal(t, 1, b.SearchedLocations["Nice"])
	assert.Equal(t, []int64{250000}, b.PriceCeilings)
	require.NotNil(t, b.FavoritePrices)
	assert.Equal(t, int64(200000), b.FavoritePrices.Min)
}
