package validation

import (
	"fmt"
	"strings"

	"property-matching/internal/models"
)

func enumOf[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", string(v))
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

var propertyTypeEnum = enumOf(models.AllPropertyTypes)

var criteriaProperties = fmt.Sprintf(`{
	"priceMin":      {"type": "integer", "minimum": 0},
	"priceMax":      {"type": "integer", "minimum": 0},
	"propertyType":  {"type": "string", "enum": %s},
	"bedroomsMin":   {"type": "integer", "minimum": 0},
	"bathroomsMin":  {"type": "integer", "minimum": 0},
	"surfaceMin":    {"type": "integer", "minimum": 0},
	"location":      {"type": "string", "maxLength": 200},
	"radius": {
		"type": "object",
		"required": ["lat", "lng", "radiusKm"],
		"properties": {
			"lat":      {"type": "number", "minimum": -90, "maximum": 90},
			"lng":      {"type": "number", "minimum": -180, "maximum": 180},
			"radiusKm": {"type": "number", "exclusiveMinimum": 0}
		}
	},
	"features":      {"type": "array", "items": {"type": "string"}},
	"maxPricePerM2": {"type": "number", "exclusiveMinimum": 0},
	"yearBuiltMin":  {"type": "integer"},
	"sortBy":        {"type": "string", "enum": ["relevance", "price_asc", "price_desc", "surface_desc", "date_desc", "price_per_m2_asc", "compatibility"]},
	"limit":         {"type": "integer", "minimum": 0},
	"offset":        {"type": "integer", "minimum": 0}
}`, propertyTypeEnum)

var preferencesProperties = fmt.Sprintf(`{
	"budgetMin":    {"type": "integer", "minimum": 0},
	"budgetMax":    {"type": "integer", "minimum": 0},
	"propertyType": {"type": "string", "enum": %s},
	"bedroomsMin":  {"type": "integer", "minimum": 0},
	"bathroomsMin": {"type": "integer", "minimum": 0},
	"surfaceMin":   {"type": "integer", "minimum": 0},
	"location":     {"type": "string", "maxLength": 200},
	"advancedCriteria": {
		"type": "object",
		"additionalProperties": {"type": "boolean"}
	}
}`, propertyTypeEnum)

// CriteriaSchema describes a SearchCriteria document.
var CriteriaSchema = NewSchema("criteria", fmt.Sprintf(`{
	"type": "object",
	"properties": %s
}`, criteriaProperties))

// PreferencesSchema describes a UserPreferences document.
var PreferencesSchema = NewSchema("preferences", fmt.Sprintf(`{
	"type": "object",
	"properties": %s
}`, preferencesProperties))

// PropertySchema describes a listing passed inline to a job.
var PropertySchema = NewSchema("property", fmt.Sprintf(`{
	"type": "object",
	"required": ["id", "price", "propertyType"],
	"properties": {
		"id":           {"type": "integer"},
		"title":        {"type": "string"},
		"price":        {"type": "integer", "minimum": 0},
		"propertyType": {"type": "string", "enum": %s},
		"bedrooms":     {"type": "integer", "minimum": 0},
		"bathrooms":    {"type": "integer", "minimum": 0},
		"surface":      {"type": "integer", "minimum": 0},
		"location":     {"type": "string"},
		"latitude":     {"type": "number", "minimum": -90, "maximum": 90},
		"longitude":    {"type": "number", "minimum": -180, "maximum": 180},
		"features":     {"type": "array", "items": {"type": "string"}},
		"available":    {"type": "boolean"},
		"yearBuilt":    {"type": "integer"}
	}
}`, propertyTypeEnum))

// JobSchema builds the schema for a job's variables: each named field is
// validated with sub, and required lists the fields that must be present.
func JobSchema(name string, fields map[string]string, required ...string) *Schema {
	props := make([]string, 0, len(fields))
	for field, sub := range fields {
		props = append(props, fmt.Sprintf("%q: %s", field, sub))
	}
	req := make([]string, len(required))
	for i, r := range required {
		req[i] = fmt.Sprintf("%q", r)
	}
	return NewSchema(name, fmt.Sprintf(`{
	"type": "object",
	"required": [%s],
	"properties": {%s}
}`, strings.Join(req, ","), strings.Join(props, ",")))
}

// Subschemas usable in JobSchema field maps.
var (
	CriteriaObject    = fmt.Sprintf(`{"type": "object", "properties": %s}`, criteriaProperties)
	PreferencesObject = fmt.Sprintf(`{"type": "object", "properties": %s}`, preferencesProperties)
	PositiveID        = `{"type": "integer", "minimum": 1}`
	Limit             = `{"type": "integer", "minimum": 0, "maximum": 200}`
	UnitInterval      = `{"type": "number", "minimum": 0, "maximum": 1}`
	Text              = `{"type": "string", "maxLength": 1000}`
)
