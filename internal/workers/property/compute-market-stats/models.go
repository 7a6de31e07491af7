// internal/workers/property/compute-market-stats/models.go
package computemarketstats

import "property-matching/internal/models"

type Input struct {
	Location     string `json:"location,omitempty"`
	PropertyType string `json:"propertyType,omitempty"`
}

type Output struct {
	Stats models.StatsSummary `json:"stats"`
}
