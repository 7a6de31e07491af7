package findsimilarproperties

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/matching"
	"property-matching/internal/models"
	"property-matching/internal/repository/memory"
)

func testCatalog() *memory.Store {
	return memory.NewStore(
		models.Property{ID: 1, Price: 300000, Type: models.PropertyTypeApartment, Location: "Nice", Bedrooms: models.IntPtr(2), Surface: models.IntPtr(60), Available: true},
		models.Property{ID: 2, Price: 305000, Type: models.PropertyTypeApartment, Location: "Nice", Bedrooms: models.IntPtr(2), Surface: models.IntPtr(60), Available: true},
		models.Property{ID: 3, Price: 370000, Type: models.PropertyTypeApartment, Location: "Nice", Bedrooms: models.IntPtr(3), Surface: models.IntPtr(75), Available: true},
		models.Property{ID: 4, Price: 310000, Type: models.PropertyTypeVilla, Location: "Nice", Bedrooms: models.IntPtr(2), Surface: models.IntPtr(60), Available: true},
		models.Property{ID: 5, Price: 900000, Type: models.PropertyTypeApartment, Location: "Nice", Bedrooms: models.IntPtr(2), Surface: models.IntPtr(60), Available: true},
	)
}

func createTestHandler(t *testing.T, store *memory.Store) *Handler {
	engine := matching.NewEngine(matching.DefaultConfig(), store, store, nil)
	return NewHandler(LoadConfig(nil), engine, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		expectError    bool
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "closest listing ranks first",
			input: &Input{PropertyID: 1},
			validateOutput: func(t *testing.T, output *Output) {
				require.NotEmpty(t, output.Properties)
				assert.Equal(t, int64(2), output.Properties[0].ID)
				assert.Equal(t, len(output.Properties), output.Count)
				for i, p := range output.Properties {
					assert.NotEqual(t, int64(1), p.ID, "reference excluded")
					assert.Equal(t, models.PropertyTypeApartment, p.Type)
					assert.NotEqual(t, int64(5), p.ID, "outside the price band")
					require.NotNil(t, p.Score)
					assert.GreaterOrEqual(t, *p.Score, 0.3)
					if i > 0 {
						assert.GreaterOrEqual(t, *output.Properties[i-1].Score, *p.Score)
					}
				}
			},
		},
		{
			name:  "explicit limit",
			input: &Input{PropertyID: 1, Limit: models.IntPtr(1)},
			validateOutput: func(t *testing.T, output *Output) {
				require.Len(t, output.Properties, 1)
				assert.Equal(t, 1, output.Count)
			},
		},
		{
			name:  "unknown reference",
			input: &Input{PropertyID: 999},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Empty(t, output.Properties)
				assert.Zero(t, output.Count)
			},
		},
		{
			name:        "missing property id",
			input:       &Input{},
			expectError: true,
		},
		{
			name:        "negative limit",
			input:       &Input{PropertyID: 1, Limit: models.IntPtr(-1)},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, testCatalog())
			output, err := handler.Execute(context.Background(), tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, output)
				return
			}
			require.NoError(t, err)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestHandler_Execute_RepositoryFailure(t *testing.T) {
	store := testCatalog()
	store.Err = stderrors.New("timeout")
	handler := createTestHandler(t, store)

	_, err := handler.Execute(context.Background(), &Input{PropertyID: 1})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrRepositoryFailure))
}

func TestInputSchema(t *testing.T) {
	assert.NoError(t, inputSchema.Check(`{"propertyId": 12, "limit": 5}`))
	assert.Error(t, inputSchema.Check(`{"limit": 5}`))
	assert.Error(t, inputSchema.Check(`{"propertyId": 0}`))
	assert.Error(t, inputSchema.Check(`{"propertyId": 3, "limit": 1000}`))
}
