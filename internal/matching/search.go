package matching

import (
	"math"
	"sort"
	"strings"

	"property-matching/internal/common/errors"
	"property-matching/internal/models"
)

// ValidateCriteria rejects criteria that no property could satisfy or that
// carry negative values.
func ValidateCriteria(c models.SearchCriteria) error {
	if c.PriceMin != nil && *c.PriceMin < 0 {
		return errors.NewInvalidCriteriaError("priceMin", "must not be negative")
	}
	if c.PriceMax != nil && *c.PriceMax < 0 {
		return errors.NewInvalidCriteriaError("priceMax", "must not be negative")
	}
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		return errors.NewInvalidCriteriaError("priceMin", "must not exceed priceMax")
	}
	if c.PropertyType != "" {
		if _, ok := models.ParsePropertyType(string(c.PropertyType)); !ok {
			return errors.NewInvalidCriteriaError("propertyType", "unknown property type "+string(c.PropertyType))
		}
	}
	for field, v := range map[string]*int{
		"bedroomsMin":  c.BedroomsMin,
		"bathroomsMin": c.BathroomsMin,
		"surfaceMin":   c.SurfaceMin,
		"yearBuiltMin": c.YearBuiltMin,
	} {
		if v != nil && *v < 0 {
			return errors.NewInvalidCriteriaError(field, "must not be negative")
		}
	}
	if r := c.Radius; r != nil {
		if r.RadiusKm <= 0 || math.IsNaN(r.RadiusKm) {
			return errors.NewInvalidCriteriaError("radius.radiusKm", "must be positive")
		}
		if r.Latitude < -90 || r.Latitude > 90 {
			return errors.NewInvalidCriteriaError("radius.lat", "must be within [-90, 90]")
		}
		if r.Longitude < -180 || r.Longitude > 180 {
			return errors.NewInvalidCriteriaError("radius.lng", "must be within [-180, 180]")
		}
	}
	if c.MaxPricePerM2 != nil && *c.MaxPricePerM2 <= 0 {
		return errors.NewInvalidCriteriaError("maxPricePerM2", "must be positive")
	}
	if !c.SortBy.Valid() {
		return errors.NewInvalidCriteriaError("sortBy", "unknown sort key "+string(c.SortBy))
	}
	if c.Limit < 0 {
		return errors.NewInvalidCriteriaError("limit", "must not be negative")
	}
	if c.Offset < 0 {
		return errors.NewInvalidCriteriaError("offset", "must not be negative")
	}
	return nil
}

func ValidatePreferences(p *models.UserPreferences) error {
	if p == nil {
		return nil
	}
	if p.BudgetMin != nil && *p.BudgetMin < 0 {
		return errors.NewInvalidCriteriaError("budgetMin", "must not be negative")
	}
	if p.BudgetMax != nil && *p.BudgetMax < 0 {
		return errors.NewInvalidCriteriaError("budgetMax", "must not be negative")
	}
	if p.BudgetMin != nil && p.BudgetMax != nil && *p.BudgetMin > *p.BudgetMax {
		return errors.NewInvalidCriteriaError("budgetMin", "must not exceed budgetMax")
	}
	for field, v := range map[string]*int{
		"bedroomsMin":  p.BedroomsMin,
		"bathroomsMin": p.BathroomsMin,
		"surfaceMin":   p.SurfaceMin,
	} {
		if v != nil && *v < 0 {
			return errors.NewInvalidCriteriaError(field, "must not be negative")
		}
	}
	return nil
}

// enrich attaches the derived fields that do not depend on the query.
func enrich(p models.Property) models.ScoredProperty {
	return models.ScoredProperty{
		Property:   p,
		PricePerM2: p.PricePerM2(),
		City:       p.City(),
		District:   p.District(),
	}
}

// matchesBase re-checks the repository-side predicates so that every
// repository adapter yields the same result set.
func matchesBase(p models.Property, c models.SearchCriteria) bool {
	if !p.Available {
		return false
	}
	if c.PriceMin != nil && p.Price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && p.Price > *c.PriceMax {
		return false
	}
	if c.PropertyType != "" && p.Type != c.PropertyType {
		return false
	}
	if !atLeast(p.Bedrooms, c.BedroomsMin) || !atLeast(p.Bathrooms, c.BathroomsMin) || !atLeast(p.Surface, c.SurfaceMin) {
		return false
	}
	if loc := foldText(c.Location); loc != "" && !strings.Contains(foldText(p.Location), loc) {
		return false
	}
	return true
}

func atLeast(v, min *int) bool {
	if min == nil {
		return true
	}
	return v != nil && *v >= *min
}

// matchesAdvanced applies the post-enrichment predicates. Properties lacking
// the data a predicate needs are excluded.
func matchesAdvanced(sp *models.ScoredProperty, c models.SearchCriteria) bool {
	if r := c.Radius; r != nil {
		if !sp.HasCoordinates() {
			return false
		}
		d := DistanceKm(r.Latitude, r.Longitude, *sp.Latitude, *sp.Longitude)
		if d > r.RadiusKm {
			return false
		}
		sp.DistanceKm = &d
	}
	if c.MaxPricePerM2 != nil {
		if sp.PricePerM2 == nil || *sp.PricePerM2 > *c.MaxPricePerM2 {
			return false
		}
	}
	for _, f := range c.Features {
		if !sp.HasFeature(f) {
			return false
		}
	}
	if c.YearBuiltMin != nil {
		if sp.YearBuilt == nil || *sp.YearBuilt < *c.YearBuiltMin {
			return false
		}
	}
	return true
}

// sortResults orders in place. scored reports whether Score is populated.
func sortResults(results []models.ScoredProperty, key models.SortKey, scored bool) {
	newerFirst := func(a, b models.ScoredProperty) bool { return a.CreatedAt.After(b.CreatedAt) }

	var less func(a, b models.ScoredProperty) bool
	switch key {
	case models.SortPriceAsc:
		less = func(a, b models.ScoredProperty) bool { return a.Price < b.Price }
	case models.SortPriceDesc:
		less = func(a, b models.ScoredProperty) bool { return a.Price > b.Price }
	case models.SortSurfaceDesc:
		less = func(a, b models.ScoredProperty) bool {
			if a.Surface == nil || b.Surface == nil {
				return a.Surface != nil && b.Surface == nil
			}
			return *a.Surface > *b.Surface
		}
	case models.SortPricePerM2Asc:
		less = func(a, b models.ScoredProperty) bool {
			if a.PricePerM2 == nil || b.PricePerM2 == nil {
				return a.PricePerM2 != nil && b.PricePerM2 == nil
			}
			return *a.PricePerM2 < *b.PricePerM2
		}
	case models.SortDateDesc:
		less = newerFirst
	case models.SortCompatibility:
		if !scored {
			return
		}
		less = func(a, b models.ScoredProperty) bool { return scoreOf(a) > scoreOf(b) }
	default:
		if !scored {
			less = newerFirst
			break
		}
		less = func(a, b models.ScoredProperty) bool {
			if sa, sb := scoreOf(a), scoreOf(b); sa != sb {
				return sa > sb
			}
			return newerFirst(a, b)
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
}

func scoreOf(sp models.ScoredProperty) float64 {
	if sp.Score == nil {
		return 0
	}
	return *sp.Score
}

// paginate applies offset then limit; a zero limit means no limit.
func paginate(results []models.ScoredProperty, offset, limit int) []models.ScoredProperty {
	if offset >= len(results) {
		return []models.ScoredProperty{}
	}
	results = results[offset:]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
