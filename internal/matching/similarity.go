package matching

import (
	"math"
	"sort"

	"property-matching/internal/models"
)

// Similarity scores two properties against each other. A criterion where
// only one side has data scores zero; where neither has data it is left out,
// and the remaining weights are renormalized.
func Similarity(a, b models.Property, cfg SimilarityConfig) float64 {
	var total, weights float64

	price := proximity(float64(a.Price), float64(b.Price), cfg.PriceTolerance)
	total += price * cfg.PriceWeight
	weights += cfg.PriceWeight

	if a.Type != "" || b.Type != "" {
		if a.Type == b.Type {
			total += cfg.TypeWeight
		}
		weights += cfg.TypeWeight
	}

	if a.Surface != nil || b.Surface != nil {
		if a.Surface != nil && b.Surface != nil {
			total += proximity(float64(*a.Surface), float64(*b.Surface), cfg.SurfaceTolerance) * cfg.SurfaceWeight
		}
		weights += cfg.SurfaceWeight
	}

	if a.Bedrooms != nil || b.Bedrooms != nil {
		if a.Bedrooms != nil && b.Bedrooms != nil && *a.Bedrooms == *b.Bedrooms {
			total += cfg.BedroomsWeight
		}
		weights += cfg.BedroomsWeight
	}

	if a.HasCoordinates() || b.HasCoordinates() {
		if a.HasCoordinates() && b.HasCoordinates() && cfg.GeoRadiusKm > 0 {
			d := DistanceKm(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
			total += math.Max(0, 1-d/cfg.GeoRadiusKm) * cfg.GeoWeight
		}
		weights += cfg.GeoWeight
	}

	if weights == 0 {
		return 0
	}
	return clamp01(total / weights)
}

// proximity is 1 at equality and 0 once the relative gap reaches tolerance.
func proximity(x, y, tolerance float64) float64 {
	hi := math.Max(x, y)
	if hi <= 0 || tolerance <= 0 {
		if x == y {
			return 1
		}
		return 0
	}
	return math.Max(0, 1-math.Abs(x-y)/hi/tolerance)
}

// similarCriteria is the pre-filter for candidates: same type and price band.
func similarCriteria(ref models.Property, cfg SimilarityConfig, fetchLimit int) models.SearchCriteria {
	lo := int64(math.Floor(float64(ref.Price) * (1 - cfg.PriceBand)))
	hi := int64(math.Ceil(float64(ref.Price) * (1 + cfg.PriceBand)))
	return models.SearchCriteria{
		PriceMin:     &lo,
		PriceMax:     &hi,
		PropertyType: ref.Type,
		Limit:        fetchLimit,
	}
}

// rankSimilar scores candidates against ref, drops self and weak matches, and
// keeps the top limit. Ties keep candidate order.
func rankSimilar(ref models.Property, candidates []models.Property, cfg SimilarityConfig, gaz *Gazetteer, limit int) []models.ScoredProperty {
	ref = gaz.enrichCoordinates(ref)
	out := make([]models.ScoredProperty, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == ref.ID || !c.Available {
			continue
		}
		c = gaz.enrichCoordinates(c)
		score := Similarity(ref, c, cfg)
		if score < cfg.MinScore {
			continue
		}
		sp := enrich(c)
		sp.Score = &score
		if ref.HasCoordinates() && c.HasCoordinates() {
			d := DistanceKm(*ref.Latitude, *ref.Longitude, *c.Latitude, *c.Longitude)
			sp.DistanceKm = &d
		}
		out = append(out, sp)
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Score > *out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
