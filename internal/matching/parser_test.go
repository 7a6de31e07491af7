package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"property-matching/internal/models"
)

func newTestParser() *QueryParser {
	return NewQueryParser(DefaultLocale(), NewGazetteer(DefaultCities()))
}

func TestQueryParser_Parse(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name           string
		input          string
		validateOutput func(t *testing.T, c models.SearchCriteria)
	}{
		{
			name:  "english query",
			input: "3 bedroom apartment Antibes under 450000 €",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.SearchCriteria{
					BedroomsMin:  models.IntPtr(3),
					PropertyType: models.PropertyTypeApartment,
					Location:     "Antibes",
					PriceMax:     models.Int64Ptr(450000),
				}, c)
			},
		},
		{
			name:  "french query with thousands suffix and surface",
			input: "Maison 4 chambres à Cannes, 120 m2, budget 800k€",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.PropertyTypeHouse, c.PropertyType)
				assert.Equal(t, models.IntPtr(4), c.BedroomsMin)
				assert.Equal(t, models.IntPtr(120), c.SurfaceMin)
				assert.Equal(t, "Cannes", c.Location)
				assert.Equal(t, models.Int64Ptr(800000), c.PriceMax)
			},
		},
		{
			name:  "spaced digits",
			input: "appartement Nice 250 000 euros",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.Int64Ptr(250000), c.PriceMax)
				assert.Equal(t, "Nice", c.Location)
			},
		},
		{
			name:  "largest amount wins",
			input: "villa between 300000 € and 450000 €",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.Int64Ptr(450000), c.PriceMax)
				assert.Equal(t, models.PropertyTypeVilla, c.PropertyType)
			},
		},
		{
			name:  "hyphenated city",
			input: "penthouse in saint-laurent-du-var",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, "Saint-Laurent-du-Var", c.Location)
				assert.Equal(t, models.PropertyTypePenthouse, c.PropertyType)
			},
		},
		{
			name:  "unit without amount is ignored",
			input: "studio near the beach, pay in euros",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Nil(t, c.PriceMax)
				assert.Equal(t, models.PropertyTypeStudio, c.PropertyType)
				assert.Empty(t, c.Location)
			},
		},
		{
			name:  "distance is not a price",
			input: "house 2 km from Grasse",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Nil(t, c.PriceMax)
				assert.Equal(t, "Grasse", c.Location)
			},
		},
		{
			name:  "surface unit digit is not glued to the price",
			input: "apartment 80 m2 300000 €",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.Int64Ptr(300000), c.PriceMax)
				assert.Equal(t, models.IntPtr(80), c.SurfaceMin)
			},
		},
		{
			name:  "postal code before the price",
			input: "Nice 06000 450000 €",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.Int64Ptr(450000), c.PriceMax)
				assert.Equal(t, "Nice", c.Location)
			},
		},
		{
			name:  "thousands groups with a non-breaking space",
			input: "villa 1\u00a0200\u00a0000 €",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.Int64Ptr(1200000), c.PriceMax)
			},
		},
		{
			name:  "amount glued to a word is ignored",
			input: "ref a450000 €",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Nil(t, c.PriceMax)
			},
		},
		{
			name:  "thousands suffix that would overflow is skipped",
			input: "9999999999999999k or 300000 €",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.Int64Ptr(300000), c.PriceMax)
			},
		},
		{
			name:  "empty input",
			input: "",
			validateOutput: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.SearchCriteria{}, c)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateOutput(t, p.Parse(tt.input))
		})
	}
}

func TestQueryParser_CustomLocale(t *testing.T) {
	locale := Locale{
		CurrencyTokens: []string{"usd", "$"},
		ThousandTokens: []string{"grand"},
		RoomWords:      []string{"br"},
		SurfaceUnits:   []string{"sqft"},
		TypeWords:      map[string]models.PropertyType{"condo": models.PropertyTypeApartment},
	}
	p := NewQueryParser(locale, nil)

	c := p.Parse("2br condo 900 sqft 350 grand")
	assert.Equal(t, models.IntPtr(2), c.BedroomsMin)
	assert.Equal(t, models.IntPtr(900), c.SurfaceMin)
	assert.Equal(t, models.Int64Ptr(350000), c.PriceMax)
	assert.Equal(t, models.PropertyTypeApartment, c.PropertyType)
	assert.Empty(t, c.Location)
}
