// internal/models/results.go
package models

// ScoredProperty is a property with its query-time derived fields. Score is
// the compatibility score for search and find-matches, the similarity score for
// similar, and the combined score for recommend.
type ScoredProperty struct {
	Property
	PricePerM2    *float64 `json:"pricePerM2,omitempty"`
	City          string   `json:"city,omitempty"`
	District      string   `json:"district,omitempty"`
	DistanceKm    *float64 `json:"distanceKm,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	AdjustedScore *float64 `json:"adjustedScore,omitempty"`
}

type Explanation struct {
	Summary        string   `json:"summary"`
	Justifications []string `json:"justifications"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	Score          float64  `json:"score"`
}

type Match struct {
	Property    ScoredProperty `json:"property"`
	Score       float64        `json:"score"`
	Explanation Explanation    `json:"explanation"`
}

// StatsSummary aggregates a catalog slice. Surface figures only cover
// properties with a positive surface; properties without a bedroom count are
// left out of the distribution.
type StatsSummary struct {
	Count               int         `json:"count"`
	MinPrice            int64       `json:"minPrice"`
	MaxPrice            int64       `json:"maxPrice"`
	MedianPrice         float64     `json:"medianPrice"`
	MeanPrice           float64     `json:"meanPrice"`
	MeanSurface         *float64    `json:"meanSurface,omitempty"`
	MeanPricePerM2      *float64    `json:"meanPricePerM2,omitempty"`
	BedroomDistribution map[int]int `json:"bedroomDistribution"`
}
