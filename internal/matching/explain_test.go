package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"property-matching/internal/models"
)

func TestEngine_Explain(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil, nil)
	prefs := &models.UserPreferences{
		BudgetMax:    models.Int64Ptr(500000),
		PropertyType: models.PropertyTypeVilla,
		Location:     "Cannes",
	}

	tests := []struct {
		name           string
		property       models.Property
		prefs          *models.UserPreferences
		score          float64
		validateOutput func(t *testing.T, exp models.Explanation)
	}{
		{
			name: "excellent and cheap",
			property: models.Property{
				Price:    380000,
				Type:     models.PropertyTypeVilla,
				Location: "Cannes, Croisette",
				Surface:  models.IntPtr(180),
				Features: []models.Feature{models.FeatureGarden, models.FeaturePool, models.FeatureSeaView},
			},
			prefs: prefs,
			score: 0.91,
			validateOutput: func(t *testing.T, exp models.Explanation) {
				assert.Equal(t, "Excellent match", exp.Summary)
				assert.Equal(t, []string{
					"Very attractive price",
					"Ideal property type",
					"Perfect location",
					"Quality amenities: pool, sea view",
				}, exp.Justifications)
				assert.Equal(t, []string{
					"Very attractive price",
					"Large surface (180 m²)",
					"Premium amenities",
					"Prime location",
				}, exp.Pros)
				assert.Empty(t, exp.Cons)
				assert.Equal(t, 0.91, exp.Score)
			},
		},
		{
			name: "good but tight",
			property: models.Property{
				Price:    470000,
				Type:     models.PropertyTypeHouse,
				Location: "Mougins",
				Surface:  models.IntPtr(45),
			},
			prefs: prefs,
			score: 0.6,
			validateOutput: func(t *testing.T, exp models.Explanation) {
				assert.Equal(t, "Good match", exp.Summary)
				assert.Equal(t, []string{"Within budget"}, exp.Justifications)
				assert.Empty(t, exp.Pros)
				assert.Equal(t, []string{
					"Price near budget ceiling",
					"Small surface (45 m²)",
					"Limited amenities",
				}, exp.Cons)
			},
		},
		{
			name:     "over budget and no preferences to compare",
			property: models.Property{Price: 900000, Features: []models.Feature{models.FeatureElevator, models.FeatureBalcony, models.FeatureFurnished}},
			prefs:    nil,
			score:    0.2,
			validateOutput: func(t *testing.T, exp models.Explanation) {
				assert.Equal(t, "Acceptable match", exp.Summary)
				assert.Empty(t, exp.Justifications)
				assert.Empty(t, exp.Pros)
				assert.Empty(t, exp.Cons)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := e.Explain(tt.property, tt.prefs, tt.score)
			tt.validateOutput(t, exp)
			assert.Equal(t, exp, e.Explain(tt.property, tt.prefs, tt.score), "deterministic")
			assert.LessOrEqual(t, len(exp.Pros), 4)
			assert.LessOrEqual(t, len(exp.Cons), 3)
		})
	}
}
