// internal/workers/property/calculate-property-match/models.go
package calculatepropertymatch

import "property-matching/internal/models"

type Input struct {
	Property    *models.Property        `json:"property"`
	Preferences *models.UserPreferences `json:"preferences,omitempty"`
	Behavior    *models.UserBehavior    `json:"behavior,omitempty"`
}

type Output struct {
	Score       float64            `json:"score"`
	Explanation models.Explanation `json:"explanation"`
}
