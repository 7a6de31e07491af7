// internal/workers/property/recommend-properties/models.go
package recommendproperties

import "property-matching/internal/models"

type Input struct {
	UserID int64 `json:"userId"`
	Limit  *int  `json:"limit,omitempty"`
}

// Output lists suggestions best first. Score is the blended score and
// AdjustedScore the value after diversity penalties.
type Output struct {
	Properties []models.ScoredProperty `json:"properties"`
	Count      int                     `json:"count"`
}
