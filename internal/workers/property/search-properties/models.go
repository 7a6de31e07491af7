// internal/workers/property/search-properties/models.go
package searchproperties

import "property-matching/internal/models"

// Input carries structured criteria, a free-text query, or both. Fields parsed
// from the query override the structured ones.
type Input struct {
	Criteria    *models.SearchCriteria  `json:"criteria,omitempty"`
	Query       string                  `json:"query,omitempty"`
	Preferences *models.UserPreferences `json:"preferences,omitempty"`
}

type Output struct {
	Properties []models.ScoredProperty `json:"properties"`
	Count      int                     `json:"count"`
}
