package matching

import (
	"math"
	"strings"

	"property-matching/internal/models"
)

// Scorer computes compatibility between one property and one set of
// preferences. All methods are total and safe for concurrent use.
type Scorer struct {
	cfg       *Config
	typeClass map[models.PropertyType]int
}

func NewScorer(cfg *Config) *Scorer {
	classes := make(map[models.PropertyType]int)
	for i, class := range cfg.TypeClasses {
		for _, t := range class {
			classes[t] = i
		}
	}
	return &Scorer{cfg: cfg, typeClass: classes}
}

// SubScores holds one entry per criterion; nil means the preference is unset.
type SubScores struct {
	Price        *float64 `json:"price,omitempty"`
	Location     *float64 `json:"location,omitempty"`
	PropertyType *float64 `json:"propertyType,omitempty"`
	Surface      *float64 `json:"surface,omitempty"`
	Bedrooms     *float64 `json:"bedrooms,omitempty"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"`
	Features     *float64 `json:"features,omitempty"`
}

// Score returns the compatibility in [0, 1]. behavior may be nil.
func (s *Scorer) Score(p models.Property, prefs *models.UserPreferences, behavior *models.UserBehavior) float64 {
	base := s.Compose(s.SubScores(p, prefs))
	if behavior == nil {
		return clamp01(base)
	}
	return clamp01(base + s.BehaviorBonus(p, behavior)*s.cfg.Bonus.Scale)
}

func (s *Scorer) SubScores(p models.Property, prefs *models.UserPreferences) SubScores {
	if prefs == nil {
		return SubScores{}
	}
	var out SubScores
	if v, ok := s.PriceScore(p.Price, prefs); ok {
		out.Price = &v
	}
	if v, ok := s.LocationScore(p.Location, prefs.Location); ok {
		out.Location = &v
	}
	if v, ok := s.TypeScore(p.Type, prefs.PropertyType); ok {
		out.PropertyType = &v
	}
	if v, ok := s.SurfaceScore(p.Surface, prefs.SurfaceMin); ok {
		out.Surface = &v
	}
	if v, ok := s.BedroomsScore(p.Bedrooms, prefs.BedroomsMin); ok {
		out.Bedrooms = &v
	}
	if v, ok := s.BathroomsScore(p.Bathrooms, prefs.BathroomsMin); ok {
		out.Bathrooms = &v
	}
	if v, ok := s.FeaturesScore(p, prefs.Wishes()); ok {
		out.Features = &v
	}
	return out
}

// Compose normalizes by the participating weights. With nothing participating
// the result is the neutral score.
func (s *Scorer) Compose(sub SubScores) float64 {
	w := s.cfg.Weights
	parts := []struct {
		score  *float64
		weight float64
	}{
		{sub.Price, w.Price},
		{sub.Location, w.Location},
		{sub.PropertyType, w.PropertyType},
		{sub.Surface, w.Surface},
		{sub.Bedrooms, w.Bedrooms},
		{sub.Bathrooms, w.Bathrooms},
		{sub.Features, w.Features},
	}

	var weighted, total float64
	for _, part := range parts {
		switch {
		case part.score != nil:
			weighted += clamp01(*part.score) * part.weight
			total += part.weight
		case s.cfg.MissingPreference == MissingNeutral:
			weighted += s.cfg.NeutralScore * part.weight
			total += part.weight
		}
	}
	if total == 0 {
		return s.cfg.NeutralScore
	}
	return weighted / total
}

// PriceScore requires budget_max; budget_min defaults to zero.
func (s *Scorer) PriceScore(price int64, prefs *models.UserPreferences) (float64, bool) {
	if prefs == nil || prefs.BudgetMax == nil {
		return 0, false
	}
	maxB := float64(*prefs.BudgetMax)
	minB := 0.0
	if prefs.BudgetMin != nil {
		minB = float64(*prefs.BudgetMin)
	}
	pr := float64(price)

	switch {
	case pr < minB:
		return 0.8 + 0.2*(1-pr/minB), true
	case pr <= maxB:
		if maxB == minB {
			return 1, true
		}
		position := (pr - minB) / (maxB - minB)
		return 1 - 0.4*math.Abs(position-0.5), true
	default:
		if maxB <= 0 {
			return 0, true
		}
		excess := (pr - maxB) / maxB
		return math.Max(0, 0.5-excess*s.cfg.OverBudgetSlope), true
	}
}

// LocationScore is 1 on a case- and accent-insensitive substring match and the
// token overlap ratio scaled by 0.8 otherwise.
func (s *Scorer) LocationScore(propertyLocation, preferred string) (float64, bool) {
	want := foldText(preferred)
	if want == "" {
		return 0, false
	}
	have := foldText(propertyLocation)
	if strings.Contains(have, want) {
		return 1, true
	}

	haveTokens := make(map[string]struct{})
	for _, tok := range strings.Fields(have) {
		haveTokens[tok] = struct{}{}
	}
	wantTokens := strings.Fields(want)
	matched := 0
	for _, tok := range wantTokens {
		if _, ok := haveTokens[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(wantTokens)) * 0.8, true
}

func (s *Scorer) TypeScore(actual, preferred models.PropertyType) (float64, bool) {
	if preferred == "" {
		return 0, false
	}
	if actual == preferred {
		return 1, true
	}
	a, okA := s.typeClass[actual]
	b, okB := s.typeClass[preferred]
	if okA && okB && a == b {
		return 0.7, true
	}
	return 0.2, true
}

// SurfaceScore scores unknown surfaces as neutral.
func (s *Scorer) SurfaceScore(surface, minSurface *int) (float64, bool) {
	if minSurface == nil || *minSurface <= 0 {
		return 0, false
	}
	if surface == nil {
		return s.cfg.NeutralScore, true
	}
	actual, want := float64(*surface), float64(*minSurface)
	if actual >= want {
		return math.Min(1, 0.8+0.2*(actual-want)/want), true
	}
	return actual / want * 0.6, true
}

func (s *Scorer) BedroomsScore(bedrooms, desired *int) (float64, bool) {
	if desired == nil {
		return 0, false
	}
	if bedrooms == nil {
		return s.cfg.NeutralScore, true
	}
	switch {
	case *bedrooms >= *desired:
		return 1, true
	case *bedrooms == *desired-1:
		return 0.7, true
	default:
		return 0.3, true
	}
}

func (s *Scorer) BathroomsScore(bathrooms, desired *int) (float64, bool) {
	if desired == nil {
		return 0, false
	}
	if *desired <= 0 {
		return 1, true
	}
	if bathrooms == nil {
		return s.cfg.NeutralScore, true
	}
	if *bathrooms >= *desired {
		return 1, true
	}
	return float64(*bathrooms) / float64(*desired) * 0.8, true
}

// FeaturesScore is the fraction of wishes satisfied by any mapped feature.
func (s *Scorer) FeaturesScore(p models.Property, wishes []models.Wish) (float64, bool) {
	if len(wishes) == 0 {
		return 0, false
	}
	satisfied := 0
	for _, wish := range wishes {
		for _, f := range s.cfg.WishFeatures[wish] {
			if p.HasFeature(f) {
				satisfied++
				break
			}
		}
	}
	return float64(satisfied) / float64(len(wishes)), true
}

// BehaviorBonus is the unscaled behavior bonus in [0, Bonus.Cap].
func (s *Scorer) BehaviorBonus(p models.Property, b *models.UserBehavior) float64 {
	if b == nil {
		return 0
	}
	bonus := FavoriteTypeShare(b.FavoriteTypes, p.Type) * s.cfg.Bonus.FavoriteTypeWeight

	location := foldText(p.Location)
	best := 0
	for searched, count := range b.SearchedLocations {
		key := foldText(searched)
		if key != "" && strings.Contains(location, key) && count > best {
			best = count
		}
	}
	if best > 0 {
		bonus += math.Min(s.cfg.Bonus.SearchedLocationCap, float64(best)*s.cfg.Bonus.SearchedLocationStep)
	}

	return math.Max(0, math.Min(s.cfg.Bonus.Cap, bonus))
}

// FavoriteTypeShare is count(t) / total over the histogram, 0 when empty.
func FavoriteTypeShare(histogram map[models.PropertyType]int, t models.PropertyType) float64 {
	total := 0
	for _, n := range histogram {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(histogram[t]) / float64(total)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
