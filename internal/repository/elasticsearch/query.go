// internal/repository/elasticsearch/query.go
package elasticsearch

import (
	"strings"

	"property-matching/internal/models"
)

// maxWindow is the default index.max_result_window.
const maxWindow = 10000

// buildSearchQuery translates the base criteria to a bool filter query.
// Everything is a filter clause: ranking happens in the engine.
func buildSearchQuery(c models.SearchCriteria) map[string]interface{} {
	filterClauses := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"available": true}},
	}

	priceRange := map[string]interface{}{}
	if c.PriceMin != nil {
		priceRange["gte"] = *c.PriceMin
	}
	if c.PriceMax != nil {
		priceRange["lte"] = *c.PriceMax
	}
	if len(priceRange) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"price": priceRange},
		})
	}

	if c.PropertyType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{
				"property_type": map[string]interface{}{
					"value":            string(c.PropertyType),
					"case_insensitive": true,
				},
			},
		})
	}

	minimums := []struct {
		field string
		min   *int
	}{
		{"bedrooms", c.BedroomsMin},
		{"bathrooms", c.BathroomsMin},
		{"surface", c.SurfaceMin},
	}
	for _, m := range minimums {
		if m.min == nil {
			continue
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{m.field: map[string]interface{}{"gte": *m.min}},
		})
	}

	if c.Location != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"wildcard": map[string]interface{}{
				"location": map[string]interface{}{
					"value":            "*" + escapeWildcard(c.Location) + "*",
					"case_insensitive": true,
				},
			},
		})
	}

	size := maxWindow
	if c.Limit > 0 && c.Limit < maxWindow {
		size = c.Limit
	}

	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filterClauses},
		},
		"sort": []interface{}{
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"id": map[string]interface{}{"order": "desc"}},
		},
	}
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}
