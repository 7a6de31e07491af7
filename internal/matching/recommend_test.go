package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-matching/internal/models"
)

func scoredAt(id int64, score float64, t models.PropertyType, city string) models.ScoredProperty {
	s := score
	return models.ScoredProperty{
		Property: models.Property{ID: id, Type: t, Location: city},
		City:     city,
		Score:    &s,
	}
}

func ids(list []models.ScoredProperty) []int64 {
	out := make([]int64, 0, len(list))
	for _, sp := range list {
		out = append(out, sp.ID)
	}
	return out
}

func TestDiversify(t *testing.T) {
	penalties := DefaultConfig().Diversity
	apt, villa := models.PropertyTypeApartment, models.PropertyTypeVilla

	ranked := []models.ScoredProperty{
		scoredAt(1, 0.90, apt, "Nice"),
		scoredAt(2, 0.88, apt, "Nice"),
		scoredAt(3, 0.85, apt, "Nice"),
		scoredAt(4, 0.82, villa, "Cannes"),
		scoredAt(5, 0.80, apt, "Nice"),
	}

	t.Run("cluster gives way to a different type and city", func(t *testing.T) {
		out := Diversify(ranked, 3, penalties)
		assert.Equal(t, []int64{1, 2, 4}, ids(out))

		require.NotNil(t, out[1].AdjustedScore)
		assert.InDelta(t, 0.73, *out[1].AdjustedScore, 1e-9)
		assert.InDelta(t, 0.88, *out[1].Score, 1e-9, "raw score kept")
		assert.InDelta(t, 0.82, *out[2].AdjustedScore, 1e-9)
	})

	t.Run("result is a subset in original relative order", func(t *testing.T) {
		out := Diversify(ranked, 4, penalties)
		assert.Subset(t, ids(ranked), ids(out))
		assert.Equal(t, []int64{1, 2, 3, 4}, ids(out))
	})

	t.Run("no limit keeps everything", func(t *testing.T) {
		assert.Len(t, Diversify(ranked, 0, penalties), len(ranked))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Diversify(nil, 3, penalties))
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		Diversify(ranked, 3, penalties)
		for _, sp := range ranked {
			assert.Nil(t, sp.AdjustedScore)
		}
	})
}

func TestEngine_BlendScore(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil, nil)
	p := models.Property{Price: 400000, Type: models.PropertyTypeApartment, Location: "Nice"}

	profile := &models.UnifiedProfile{
		Explicit: &models.UserPreferences{
			BudgetMin: models.Int64Ptr(300000),
			BudgetMax: models.Int64Ptr(500000),
		},
		Implicit: models.ImplicitPreferences{
			FavoriteTypes:  map[models.PropertyType]int{models.PropertyTypeApartment: 1, models.PropertyTypeVilla: 1},
			FavoritePrices: &models.PriceRange{Mean: 500000},
		},
	}

	// explicit clamps at 1.0, type share 0.5, price proximity 0.8
	expected := 0.6*1.0 + 0.25*0.5 + 0.15*0.8
	assert.InDelta(t, expected, e.blendScore(p, profile, profile.Behavior()), 1e-9)

	noImplicit := &models.UnifiedProfile{Explicit: profile.Explicit}
	assert.InDelta(t, 0.6, e.blendScore(p, noImplicit, noImplicit.Behavior()), 1e-9)
}
