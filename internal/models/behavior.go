// internal/models/behavior.go
package models

import "time"

// SearchLogEntry is one stored search of a user; Filters holds what was parsed
// or submitted at the time.
type SearchLogEntry struct {
	Query        string         `json:"query"`
	Filters      SearchCriteria `json:"filters"`
	ResultsCount int            `json:"resultsCount"`
	SearchedAt   time.Time      `json:"searchedAt"`
}

type PriceRange struct {
	Min  int64   `json:"min"`
	Max  int64   `json:"max"`
	Mean float64 `json:"mean"`
}

// UserBehavior is rebuilt per request from favorites and the search log.
type UserBehavior struct {
	FavoriteTypes     map[PropertyType]int `json:"favoriteTypes,omitempty"`
	SearchedLocations map[string]int       `json:"searchedLocations,omitempty"`
	FavoritePrices    *PriceRange          `json:"favoritePrices,omitempty"`
	PriceCeilings     []int64              `json:"priceCeilings,omitempty"`
}

type ImplicitPreferences struct {
	FavoriteTypes     map[PropertyType]int `json:"favoriteTypes,omitempty"`
	FavoriteLocations map[string]int       `json:"favoriteLocations,omitempty"`
	FavoritePrices    *PriceRange          `json:"favoritePrices,omitempty"`
}

type BehaviorPatterns struct {
	RecentQueries      []string             `json:"recentQueries,omitempty"`
	SearchCount        int                  `json:"searchCount"`
	PreferredLocations map[string]int       `json:"preferredLocations,omitempty"`
	PreferredTypes     map[PropertyType]int `json:"preferredTypes,omitempty"`
	PriceCeilings      []int64              `json:"priceCeilings,omitempty"`
	MeanPriceCeiling   *float64             `json:"meanPriceCeiling,omitempty"`
}

// UnifiedProfile lives for one recommendation request.
type UnifiedProfile struct {
	Explicit    *UserPreferences    `json:"explicit,omitempty"`
	Implicit    ImplicitPreferences `json:"implicit"`
	Patterns    BehaviorPatterns    `json:"patterns"`
	FavoriteIDs map[int64]struct{}  `json:"-"`
}

// IsEmpty reports no explicit preferences, no favorites and no search history.
func (p *UnifiedProfile) IsEmpty() bool {
	return p.Explicit.IsEmpty() && len(p.FavoriteIDs) == 0 && p.Patterns.SearchCount == 0
}

// Behavior projects the profile onto the scorer's behavior input.
func (p *UnifiedProfile) Behavior() *UserBehavior {
	return &UserBehavior{
		FavoriteTypes:     p.Implicit.FavoriteTypes,
		SearchedLocations: p.Patterns.PreferredLocations,
		FavoritePrices:    p.Implicit.FavoritePrices,
		PriceCeilings:     p.Patterns.PriceCeilings,
	}
}
