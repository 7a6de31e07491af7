package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-matching/internal/common/errors"
	"property-matching/internal/models"
)

func TestCriteriaSchema(t *testing.T) {
	tests := []struct {
		name          string
		document      string
		expectValid   bool
		expectedField string
	}{
		{
			name:        "empty criteria",
			document:    `{}`,
			expectValid: true,
		},
		{
			name:        "full criteria",
			document:    `{"priceMin": 200000, "priceMax": 400000, "propertyType": "apartment", "bedroomsMin": 2, "location": "Nice", "radius": {"lat": 43.7, "lng": 7.26, "radiusKm": 5}, "sortBy": "price_asc", "limit": 20}`,
			expectValid: true,
		},
		{
			name:          "negative price",
			document:      `{"priceMin": -1}`,
			expectedField: "priceMin",
		},
		{
			name:          "unknown property type",
			document:      `{"propertyType": "castle"}`,
			expectedField: "propertyType",
		},
		{
			name:          "price as string",
			document:      `{"priceMax": "400000"}`,
			expectedField: "priceMax",
		},
		{
			name:          "radius without center",
			document:      `{"radius": {"radiusKm": 5}}`,
			expectedField: "radius",
		},
		{
			name:          "unknown sort key",
			document:      `{"sortBy": "random"}`,
			expectedField: "sortBy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CriteriaSchema.ValidateJSON(tt.document)
			require.NoError(t, err)

			assert.Equal(t, tt.expectValid, result.Valid)
			if tt.expectValid {
				assert.NoError(t, result.Err())
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0].Field, tt.expectedField)
			assert.ErrorIs(t, result.Err(), &errors.StandardError{Code: errors.ErrCodeInvalidInput})
		})
	}
}

func TestPreferencesSchema_ValidateValue(t *testing.T) {
	prefs := models.UserPreferences{
		BudgetMax:    models.Int64Ptr(500000),
		PropertyType: models.PropertyTypeVilla,
		Advanced:     map[models.Wish]bool{models.WishPool: true},
	}

	result, err := PreferencesSchema.ValidateValue(prefs)
	require.NoError(t, err)
	assert.True(t, result.Valid, "%v", result.Errors)

	result, err = PreferencesSchema.ValidateJSON(`{"advancedCriteria": {"has_pool": "yes"}}`)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestPropertySchema(t *testing.T) {
	assert.NoError(t, PropertySchema.Check(`{"id": 1, "price": 300000, "propertyType": "house", "surface": 120}`))

	err := PropertySchema.Check(`{"id": 1, "price": 300000}`)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "propertyType")
}

func TestJobSchema(t *testing.T) {
	schema := JobSchema("find-matches", map[string]string{
		"userId":   PositiveID,
		"limit":    Limit,
		"minScore": UnitInterval,
	}, "userId")

	tests := []struct {
		name        string
		document    string
		expectError bool
	}{
		{name: "valid", document: `{"userId": 42, "limit": 10, "minScore": 0.6}`},
		{name: "missing user", document: `{"limit": 10}`, expectError: true},
		{name: "min score above one", document: `{"userId": 42, "minScore": 1.5}`, expectError: true},
		{name: "limit too large", document: `{"userId": 42, "limit": 5000}`, expectError: true},
		{name: "extra variables allowed", document: `{"userId": 42, "processVersion": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Check(tt.document)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSchema_MalformedDocument(t *testing.T) {
	_, err := CriteriaSchema.ValidateJSON(`{"priceMin":`)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
}

func TestSchema_BadSource(t *testing.T) {
	_, err := NewSchema("broken", `{"type": 12}`).ValidateJSON(`{}`)
	assert.Error(t, err)
}
