package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"property-matching/internal/models"
)

func newTestScorer(mutate ...func(*Config)) *Scorer {
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	return NewScorer(&cfg)
}

func TestScorer_PriceScore(t *testing.T) {
	s := newTestScorer()
	prefs := &models.UserPreferences{
		BudgetMin: models.Int64Ptr(200000),
		BudgetMax: models.Int64Ptr(400000),
	}

	tests := []struct {
		name     string
		price    int64
		expected float64
	}{
		{name: "centre of range", price: 300000, expected: 1.0},
		{name: "at budget max", price: 400000, expected: 0.8},
		{name: "at budget min", price: 200000, expected: 0.8},
		{name: "25% over budget", price: 500000, expected: 0.25},
		{name: "far over budget", price: 900000, expected: 0},
		{name: "below budget min", price: 150000, expected: 0.85},
		{name: "free", price: 0, expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.PriceScore(tt.price, prefs)
			assert.True(t, ok)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}

	t.Run("no budget max does not participate", func(t *testing.T) {
		_, ok := s.PriceScore(300000, &models.UserPreferences{BudgetMin: models.Int64Ptr(100000)})
		assert.False(t, ok)
	})

	t.Run("degenerate range", func(t *testing.T) {
		got, ok := s.PriceScore(300000, &models.UserPreferences{
			BudgetMin: models.Int64Ptr(300000),
			BudgetMax: models.Int64Ptr(300000),
		})
		assert.True(t, ok)
		assert.Equal(t, 1.0, got)
	})

	t.Run("budget min defaults to zero", func(t *testing.T) {
		got, ok := s.PriceScore(200000, &models.UserPreferences{BudgetMax: models.Int64Ptr(400000)})
		assert.True(t, ok)
		assert.InDelta(t, 1.0, got, 1e-9)
	})
}

func TestScorer_TypeScore(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		name      string
		actual    models.PropertyType
		preferred models.PropertyType
		expected  float64
	}{
		{name: "exact", actual: models.PropertyTypeApartment, preferred: models.PropertyTypeApartment, expected: 1.0},
		{name: "same class", actual: models.PropertyTypeStudio, preferred: models.PropertyTypeApartment, expected: 0.7},
		{name: "house class", actual: models.PropertyTypeVilla, preferred: models.PropertyTypeHouse, expected: 0.7},
		{name: "different class", actual: models.PropertyTypeVilla, preferred: models.PropertyTypeApartment, expected: 0.2},
		{name: "unclassified", actual: models.PropertyTypeLand, preferred: models.PropertyTypeOffice, expected: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.TypeScore(tt.actual, tt.preferred)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, ok := s.TypeScore(models.PropertyTypeVilla, "")
	assert.False(t, ok)
}

func TestScorer_LocationScore(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		name      string
		location  string
		preferred string
		expected  float64
	}{
		{name: "substring", location: "Nice, Cimiez", preferred: "nice", expected: 1.0},
		{name: "accent insensitive", location: "Fréjus, Port", preferred: "FREJUS", expected: 1.0},
		{name: "partial token overlap", location: "Saint-Raphaël, Centre", preferred: "Saint Tropez", expected: 0.4},
		{name: "no overlap", location: "Cannes", preferred: "Menton", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.LocationScore(tt.location, tt.preferred)
			assert.True(t, ok)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}

	_, ok := s.LocationScore("Nice", "  ")
	assert.False(t, ok)
}

func TestScorer_SizeScores(t *testing.T) {
	s := newTestScorer()

	surface, _ := s.SurfaceScore(models.IntPtr(100), models.IntPtr(80))
	assert.InDelta(t, 0.85, surface, 1e-9)

	surface, _ = s.SurfaceScore(models.IntPtr(200), models.IntPtr(80))
	assert.Equal(t, 1.0, surface)

	surface, _ = s.SurfaceScore(models.IntPtr(40), models.IntPtr(80))
	assert.InDelta(t, 0.3, surface, 1e-9)

	surface, ok := s.SurfaceScore(nil, models.IntPtr(80))
	assert.True(t, ok)
	assert.Equal(t, 0.5, surface)

	beds, _ := s.BedroomsScore(models.IntPtr(3), models.IntPtr(3))
	assert.Equal(t, 1.0, beds)
	beds, _ = s.BedroomsScore(models.IntPtr(2), models.IntPtr(3))
	assert.Equal(t, 0.7, beds)
	beds, _ = s.BedroomsScore(models.IntPtr(1), models.IntPtr(3))
	assert.Equal(t, 0.3, beds)

	baths, _ := s.BathroomsScore(models.IntPtr(1), models.IntPtr(2))
	assert.InDelta(t, 0.4, baths, 1e-9)
	baths, _ = s.BathroomsScore(models.IntPtr(2), models.IntPtr(2))
	assert.Equal(t, 1.0, baths)
}

func TestScorer_FeaturesScore(t *testing.T) {
	s := newTestScorer()
	p := models.Property{Features: []models.Feature{models.FeatureParking, models.FeatureTerrace}}

	got, ok := s.FeaturesScore(p, []models.Wish{models.WishGarage, models.WishPool})
	assert.True(t, ok)
	assert.Equal(t, 0.5, got)

	got, _ = s.FeaturesScore(p, []models.Wish{models.WishGarage, models.WishBalcony})
	assert.Equal(t, 1.0, got)

	_, ok = s.FeaturesScore(p, nil)
	assert.False(t, ok)
}

func TestScorer_Score_MissingPolicy(t *testing.T) {
	p := models.Property{Price: 300000, Type: models.PropertyTypeApartment, Location: "Nice"}
	prefs := &models.UserPreferences{
		BudgetMin: models.Int64Ptr(200000),
		BudgetMax: models.Int64Ptr(400000),
	}

	tests := []struct {
		name     string
		policy   MissingPreferencePolicy
		prefs    *models.UserPreferences
		expected float64
	}{
		{name: "drop keeps only the price weight", policy: MissingDrop, prefs: prefs, expected: 1.0},
		{name: "neutral fills unset criteria", policy: MissingNeutral, prefs: prefs, expected: 0.25 + 0.75*0.5},
		{name: "no preferences at all", policy: MissingDrop, prefs: nil, expected: 0.5},
		{name: "empty preferences", policy: MissingDrop, prefs: &models.UserPreferences{}, expected: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScorer(func(c *Config) { c.MissingPreference = tt.policy })
			assert.InDelta(t, tt.expected, s.Score(p, tt.prefs, nil), 1e-9)
		})
	}
}

func TestScorer_BehaviorBonus(t *testing.T) {
	s := newTestScorer()
	p := models.Property{Price: 300000, Type: models.PropertyTypeApartment, Location: "Nice, Port"}
	behavior := &models.UserBehavior{
		FavoriteTypes:     map[models.PropertyType]int{models.PropertyTypeApartment: 3, models.PropertyTypeVilla: 1},
		SearchedLocations: map[string]int{"Nice": 2, "Cannes": 9},
	}

	assert.InDelta(t, 0.75*0.2+0.04, s.BehaviorBonus(p, behavior), 1e-9)

	prefs := &models.UserPreferences{BudgetMin: models.Int64Ptr(200000), BudgetMax: models.Int64Ptr(400000)}
	assert.InDelta(t, 1.0, s.Score(p, prefs, behavior), 1e-9, "clamped at one")

	prefs.BudgetMax = models.Int64Ptr(300000)
	base := s.Score(p, prefs, nil)
	assert.InDelta(t, base+0.019, s.Score(p, prefs, behavior), 1e-9)

	heavy := &models.UserBehavior{
		FavoriteTypes:     map[models.PropertyType]int{models.PropertyTypeApartment: 1},
		SearchedLocations: map[string]int{"nice": 50},
	}
	assert.InDelta(t, 0.3, s.BehaviorBonus(p, heavy), 1e-9, "capped")
}

func TestScorer_ScoreStaysInUnitInterval(t *testing.T) {
	s := newTestScorer()
	properties := []models.Property{
		{Price: 0},
		{Price: 10_000_000, Type: models.PropertyTypeVilla, Surface: models.IntPtr(1), Bedrooms: models.IntPtr(0)},
		{Price: 350000, Type: models.PropertyTypeStudio, Surface: models.IntPtr(25), Location: "Nice"},
		{Price: 420000, Type: models.PropertyTypeApartment, Surface: models.IntPtr(300), Bedrooms: models.IntPtr(9), Bathrooms: models.IntPtr(4)},
	}
	prefs := []*models.UserPreferences{
		nil,
		{BudgetMax: models.Int64Ptr(0)},
		{BudgetMin: models.Int64Ptr(1), BudgetMax: models.Int64Ptr(1)},
		{
			BudgetMax:    models.Int64Ptr(400000),
			PropertyType: models.PropertyTypeApartment,
			BedroomsMin:  models.IntPtr(3),
			BathroomsMin: models.IntPtr(0),
			SurfaceMin:   models.IntPtr(70),
			Location:     "Nice",
			Advanced:     map[models.Wish]bool{models.WishPool: true, models.WishElevator: false},
		},
	}
	behavior := &models.UserBehavior{
		FavoriteTypes:     map[models.PropertyType]int{models.PropertyTypeApartment: 10},
		SearchedLocations: map[string]int{"Nice": 10},
	}

	for _, policy := range []MissingPreferencePolicy{MissingDrop, MissingNeutral} {
		s = newTestScorer(func(c *Config) { c.MissingPreference = policy })
		for _, p := range properties {
			for _, pr := range prefs {
				for _, b := range []*models.UserBehavior{nil, behavior} {
					score := s.Score(p, pr, b)
					assert.GreaterOrEqual(t, score, 0.0)
					assert.LessOrEqual(t, score, 1.0)
					assert.Equal(t, score, s.Score(p, pr, b))
				}
			}
		}
	}
}
