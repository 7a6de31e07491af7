// internal/repository/postgres/queries.go
package postgres

import (
	"fmt"
	"strings"

	"property-matching/internal/models"
)

const propertyColumns = `id, title, price, property_type, bedrooms, bathrooms, surface,
	location, latitude, longitude, features, available, year_built, created_at`

var queries = map[models.QueryType]string{
	models.QueryTypePropertyByID: `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = $1`,

	models.QueryTypeUserFavorites: `
		SELECT p.id, p.title, p.price, p.property_type, p.bedrooms, p.bathrooms, p.surface,
		       p.location, p.latitude, p.longitude, p.features, p.available, p.year_built, p.created_at
		FROM favorites f
		JOIN properties p ON p.id = f.property_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`,

	models.QueryTypeUserPreferences: `
		SELECT budget_min, budget_max, property_type, bedrooms_min, bathrooms_min,
		       surface_min, location, advanced_criteria
		FROM user_preferences
		WHERE user_id = $1`,

	models.QueryTypeUserSearchLog: `
		SELECT query, filters, results_count, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
}

// buildSearchQuery renders the base criteria as a parameterised WHERE clause.
func buildSearchQuery(c models.SearchCriteria) (string, []interface{}) {
	where := []string{"available = TRUE"}
	args := []interface{}{}

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if c.PriceMin != nil {
		add("price >= $%d", *c.PriceMin)
	}
	if c.PriceMax != nil {
		add("price <= $%d", *c.PriceMax)
	}
	if c.PropertyType != "" {
		add("LOWER(property_type) = $%d", string(c.PropertyType))
	}
	if c.BedroomsMin != nil {
		add("bedrooms >= $%d", *c.BedroomsMin)
	}
	if c.BathroomsMin != nil {
		add("bathrooms >= $%d", *c.BathroomsMin)
	}
	if c.SurfaceMin != nil {
		add("surface >= $%d", *c.SurfaceMin)
	}
	if c.Location != "" {
		add("location ILIKE $%d", "%"+escapeLike(c.Location)+"%")
	}

	query := "SELECT " + propertyColumns + "\n\t\tFROM properties\n\t\tWHERE " +
		strings.Join(where, " AND ") +
		"\n\t\tORDER BY created_at DESC, id DESC"

	if c.Limit > 0 {
		args = append(args, c.Limit)
		query += fmt.Sprintf("\n\t\tLIMIT $%d", len(args))
	}
	return query, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
