package matching

import (
	"fmt"
	"strings"

	"property-matching/internal/models"
)

// Explain builds the human-readable rationale for a score. It depends only on
// its arguments.
func (e *Engine) Explain(p models.Property, prefs *models.UserPreferences, score float64) models.Explanation {
	cfg := e.cfg.Explanation
	out := models.Explanation{
		Summary:        summaryFor(score, cfg),
		Justifications: []string{},
		Pros:           []string{},
		Cons:           []string{},
		Score:          score,
	}

	attractive := false
	if prefs != nil && prefs.BudgetMax != nil && *prefs.BudgetMax > 0 {
		budget := float64(*prefs.BudgetMax)
		price := float64(p.Price)
		switch {
		case price <= cfg.AttractivePriceRatio*budget:
			attractive = true
			out.Justifications = append(out.Justifications, "Very attractive price")
		case price <= budget:
			out.Justifications = append(out.Justifications, "Within budget")
		}
		if price >= cfg.NearCeilingRatio*budget && price <= budget {
			out.Cons = append(out.Cons, "Price near budget ceiling")
		}
	}

	if prefs != nil && prefs.PropertyType != "" && p.Type == prefs.PropertyType {
		out.Justifications = append(out.Justifications, "Ideal property type")
	}
	if prefs != nil {
		if v, ok := e.scorer.LocationScore(p.Location, prefs.Location); ok && v == 1 {
			out.Justifications = append(out.Justifications, "Perfect location")
		}
	}

	premium := e.premiumFeatures(p)
	if len(premium) > 0 {
		listed := premium
		if len(listed) > cfg.MaxAmenitiesListed {
			listed = listed[:cfg.MaxAmenitiesListed]
		}
		out.Justifications = append(out.Justifications, "Quality amenities: "+strings.Join(listed, ", "))
	}

	if attractive {
		out.Pros = append(out.Pros, "Very attractive price")
	}
	if p.Surface != nil && *p.Surface >= cfg.LargeSurface {
		out.Pros = append(out.Pros, fmt.Sprintf("Large surface (%d m²)", *p.Surface))
	}
	if len(premium) > 0 {
		out.Pros = append(out.Pros, "Premium amenities")
	}
	if e.primeLocation(p.Location) {
		out.Pros = append(out.Pros, "Prime location")
	}

	if p.Surface != nil && *p.Surface < cfg.SmallSurface {
		out.Cons = append(out.Cons, fmt.Sprintf("Small surface (%d m²)", *p.Surface))
	}
	if len(p.Features) < cfg.LimitedAmenities {
		out.Cons = append(out.Cons, "Limited amenities")
	}

	if len(out.Pros) > cfg.MaxPros {
		out.Pros = out.Pros[:cfg.MaxPros]
	}
	if len(out.Cons) > cfg.MaxCons {
		out.Cons = out.Cons[:cfg.MaxCons]
	}
	return out
}

func summaryFor(score float64, cfg ExplanationConfig) string {
	switch {
	case score >= cfg.ExcellentThreshold:
		return "Excellent match"
	case score >= cfg.GoodThreshold:
		return "Good match"
	default:
		return "Acceptable match"
	}
}

// premiumFeatures lists the property's premium features in configured order,
// with underscores turned into spaces.
func (e *Engine) premiumFeatures(p models.Property) []string {
	var out []string
	for _, f := range e.cfg.PremiumFeatures {
		if p.HasFeature(f) {
			out = append(out, strings.ReplaceAll(string(f), "_", " "))
		}
	}
	return out
}

func (e *Engine) primeLocation(location string) bool {
	haystack := " " + foldText(location) + " "
	for _, kw := range e.cfg.PrimeLocationKeywords {
		if k := foldText(kw); k != "" && strings.Contains(haystack, " "+k+" ") {
			return true
		}
	}
	return false
}
