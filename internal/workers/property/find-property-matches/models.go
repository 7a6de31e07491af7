// internal/workers/property/find-property-matches/models.go
package findpropertymatches

import "property-matching/internal/models"

type Input struct {
	UserID   int64    `json:"userId"`
	Limit    *int     `json:"limit,omitempty"`
	MinScore *float64 `json:"minScore,omitempty"`
}

type Output struct {
	Matches []models.Match `json:"matches"`
	Count   int            `json:"count"`
}
