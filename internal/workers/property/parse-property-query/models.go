// internal/workers/property/parse-property-query/models.go
package parsepropertyquery

import "property-matching/internal/models"

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Criteria models.SearchCriteria `json:"criteria"`
}
