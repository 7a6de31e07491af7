package matching

import (
	"math"
	"sort"

	"property-matching/internal/models"
)

// CriteriaFromProfile synthesizes candidate-retrieval criteria from a profile.
func CriteriaFromProfile(profile *models.UnifiedProfile, cfg *Config) models.SearchCriteria {
	var c models.SearchCriteria
	if profile == nil {
		return c
	}
	explicit := profile.Explicit

	var ceiling *float64
	if explicit != nil && explicit.BudgetMax != nil {
		v := float64(*explicit.BudgetMax)
		ceiling = &v
	}
	implicit := implicitPriceMean(profile)
	if implicit != nil {
		v := *implicit * cfg.ImplicitPriceHeadroom
		if ceiling == nil || v > *ceiling {
			ceiling = &v
		}
	}
	if ceiling != nil {
		v := int64(math.Round(*ceiling))
		c.PriceMax = &v
	}

	c.PropertyType = voteType(explicit, profile.Implicit.FavoriteTypes, cfg.ExplicitTypeVote)

	if explicit != nil {
		c.BedroomsMin = explicit.BedroomsMin
		c.BathroomsMin = explicit.BathroomsMin
		c.SurfaceMin = explicit.SurfaceMin
		c.Location = explicit.Location
	}
	return c
}

// implicitPriceMean prefers favorite prices and falls back to the mean of
// recent search ceilings.
func implicitPriceMean(profile *models.UnifiedProfile) *float64 {
	if fp := profile.Implicit.FavoritePrices; fp != nil && fp.Mean > 0 {
		v := fp.Mean
		return &v
	}
	if m := profile.Patterns.MeanPriceCeiling; m != nil && *m > 0 {
		v := *m
		return &v
	}
	return nil
}

// voteType picks the heaviest type. Ties go to the explicit type, then to the
// alphabetically first tag.
func voteType(explicit *models.UserPreferences, favorites map[models.PropertyType]int, explicitWeight float64) models.PropertyType {
	votes := make(map[models.PropertyType]float64, len(favorites)+1)
	for t, n := range favorites {
		votes[t] += float64(n)
	}
	var preferred models.PropertyType
	if explicit != nil && explicit.PropertyType != "" {
		preferred = explicit.PropertyType
		votes[preferred] += explicitWeight
	}
	if len(votes) == 0 {
		return ""
	}

	types := make([]models.PropertyType, 0, len(votes))
	for t := range votes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	winner := types[0]
	for _, t := range types[1:] {
		if votes[t] > votes[winner] {
			winner = t
		}
	}
	if preferred != "" && votes[preferred] == votes[winner] {
		return preferred
	}
	return winner
}

// MergeParsed lets parsed fields override and fills the rest from preferences.
func MergeParsed(parsed models.SearchCriteria, prefs *models.UserPreferences) models.SearchCriteria {
	return parsed.Merge(prefs.AsCriteria())
}
