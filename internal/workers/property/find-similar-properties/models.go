// internal/workers/property/find-similar-properties/models.go
package findsimilarproperties

import "property-matching/internal/models"

type Input struct {
	PropertyID int64 `json:"propertyId"`
	Limit      *int  `json:"limit,omitempty"`
}

type Output struct {
	Properties []models.ScoredProperty `json:"properties"`
	Count      int                     `json:"count"`
}
