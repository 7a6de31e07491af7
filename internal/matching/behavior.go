package matching

import (
	"sort"
	"strings"

	"property-matching/internal/models"
)

// AggregateFavorites derives the implicit preferences from a user's favorites.
func AggregateFavorites(favorites []models.Property) models.ImplicitPreferences {
	out := models.ImplicitPreferences{
		FavoriteTypes:     make(map[models.PropertyType]int),
		FavoriteLocations: make(map[string]int),
	}
	if len(favorites) == 0 {
		return out
	}

	var sum float64
	prices := &models.PriceRange{Min: favorites[0].Price, Max: favorites[0].Price}
	for _, f := range favorites {
		if f.Type != "" {
			out.FavoriteTypes[f.Type]++
		}
		if city := f.City(); city != "" {
			out.FavoriteLocations[city]++
		}
		if f.Price < prices.Min {
			prices.Min = f.Price
		}
		if f.Price > prices.Max {
			prices.Max = f.Price
		}
		sum += float64(f.Price)
	}
	prices.Mean = sum / float64(len(favorites))
	out.FavoritePrices = prices
	return out
}

// AggregateSearchLog derives behavior patterns from the search log. Entries
// may arrive in any order; price ceilings come out most recent first.
func AggregateSearchLog(entries []models.SearchLogEntry, recentQueries int) models.BehaviorPatterns {
	out := models.BehaviorPatterns{
		SearchCount:        len(entries),
		PreferredLocations: make(map[string]int),
		PreferredTypes:     make(map[models.PropertyType]int),
	}
	if len(entries) == 0 {
		return out
	}

	ordered := append([]models.SearchLogEntry(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SearchedAt.After(ordered[j].SearchedAt)
	})

	var ceilingSum float64
	for _, e := range ordered {
		if loc := strings.TrimSpace(e.Filters.Location); loc != "" {
			out.PreferredLocations[loc]++
		}
		if e.Filters.PropertyType != "" {
			out.PreferredTypes[e.Filters.PropertyType]++
		}
		if e.Filters.PriceMax != nil {
			out.PriceCeilings = append(out.PriceCeilings, *e.Filters.PriceMax)
			ceilingSum += float64(*e.Filters.PriceMax)
		}
		if q := strings.TrimSpace(e.Query); q != "" && len(out.RecentQueries) < recentQueries {
			out.RecentQueries = append(out.RecentQueries, q)
		}
	}

	if n := len(out.PriceCeilings); n > 0 {
		mean := ceilingSum / float64(n)
		out.MeanPriceCeiling = &mean
	}
	return out
}

// BuildBehavior is the scorer-facing view over favorites and the search log.
func BuildBehavior(favorites []models.Property, entries []models.SearchLogEntry) *models.UserBehavior {
	implicit := AggregateFavorites(favorites)
	patterns := AggregateSearchLog(entries, 0)
	return &models.UserBehavior{
		FavoriteTypes:     implicit.FavoriteTypes,
		SearchedLocations: patterns.PreferredLocations,
		FavoritePrices:    implicit.FavoritePrices,
		PriceCeilings:     patterns.PriceCeilings,
	}
}
