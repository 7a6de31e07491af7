package matching

import (
	"math"
	"sort"
	"strings"

	"property-matching/internal/models"
)

// blendScore combines the explicit compatibility with the implicit type and
// price signals of the profile.
func (e *Engine) blendScore(p models.Property, profile *models.UnifiedProfile, behavior *models.UserBehavior) float64 {
	explicit := e.scorer.Score(p, profile.Explicit, behavior)
	typeShare := FavoriteTypeShare(profile.Implicit.FavoriteTypes, p.Type)

	priceProximity := 0.0
	if mean := implicitPriceMean(profile); mean != nil {
		m := *mean
		priceProximity = math.Max(0, 1-math.Abs(float64(p.Price)-m)/m)
	}

	b := e.cfg.Blend
	return clamp01(b.Explicit*explicit + b.ImplicitType*typeShare + b.ImplicitPrice*priceProximity)
}

// Diversify penalizes each candidate by the number of higher-ranked
// candidates sharing its type or city, keeps the best limit by adjusted score
// and returns them in their original order. ranked must be sorted by Score
// descending. Score is left untouched; AdjustedScore is set.
func Diversify(ranked []models.ScoredProperty, limit int, penalties DiversityPenalties) []models.ScoredProperty {
	types := make(map[models.PropertyType]int)
	cities := make(map[string]int)

	type slot struct {
		index    int
		adjusted float64
	}
	slots := make([]slot, len(ranked))
	for i, sp := range ranked {
		city := strings.ToLower(sp.City)
		adjusted := scoreOf(sp) -
			penalties.SameType*float64(types[sp.Type]) -
			penalties.SameCity*float64(cities[city])
		slots[i] = slot{index: i, adjusted: adjusted}
		types[sp.Type]++
		if city != "" {
			cities[city]++
		}
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].adjusted > slots[j].adjusted })
	if limit > 0 && len(slots) > limit {
		slots = slots[:limit]
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].index < slots[j].index })

	out := make([]models.ScoredProperty, 0, len(slots))
	for _, s := range slots {
		sp := ranked[s.index]
		adjusted := s.adjusted
		sp.AdjustedScore = &adjusted
		out = append(out, sp)
	}
	return out
}
