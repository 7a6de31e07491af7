package findpropertymatches

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

const testUser = int64(42)

func testStore() *memory.Store {
	store := memory.NewStore(
		models.Property{ID: 1, Price: 300000, Type: models.PropertyTypeApartment, Location: "Nice", Bedrooms: models.IntPtr(2), Available: true},
		models.Property{ID: 2, Price: 450000, Type: models.PropertyTypeApartment, Location: "Nice, Port", Bedrooms: models.IntPtr(3), Available: true},
		models.Property{ID: 3, Price: 350000, Type: models.PropertyTypeApartment, Location: "Cannes", Available: true},
		models.Property{ID: 4, Price: 800000, Type: models.PropertyTypeVilla, Location: "Nice", Available: true},
	)
	store.SetPreferences(testUser, &models.UserPreferences{
		BudgetMax:    models.Int64Ptr(500000),
		PropertyType: models.PropertyTypeApartment,
		Location:     "Nice",
	})
	return store
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
		errorCode      errors.ErrorCode
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "matches with explanations",
			input: &Input{UserID: testUser},
			validateOutput: func(t *testing.T, output *Output) {
				require.Len(t, output.Matches, 2)
				assert.Equal(t, 2, output.Count)
				for _, m := range output.Matches {
					assert.Contains(t, []int64{1, 2}, m.Property.ID)
					assert.GreaterOrEqual(t, m.Score, 0.6)
					assert.Equal(t, m.Score, m.Explanation.Score)
					assert.NotEmpty(t, m.Explanation.Summary)
				}
			},
		},
		{
			name:  "limit",
			input: &Input{UserID: testUser, Limit: models.IntPtr(1)},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Len(t, output.Matches, 1)
			},
		},
		{
			name:  "empty profile",
			input: &Input{UserID: 7},
			validateOutput: func(t *testing.T, output *Output) {
				assert.NotNil(t, output.Matches)
				assert.Zero(t, output.Count)
			},
		},
		{
			name:        "min score above one",
			input:       &Input{UserID: testUser, MinScore: models.Float64Ptr(1.5)},
			expectError: true,
			errorCode:   errors.ErrCodeInvalidCriteria,
		},
		{
			name:        "missing user",
			input:       &Input{},
			expectError: true,
			errorCode:   errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, testStore())
			output, err := handler.Execute(context.Background(), tt.input)

			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.errorCode, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestHandler_Execute_ProfileReadFails(t *testing.T) {
	store := testStore()
	store.Err = stderrors.New("too many connections")
	handler := createTestHandler(t, store)

	_, err := handler.Execute(context.Background(), &Input{UserID: testUser})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRepositoryFailure, errors.CodeOf(err))
	assert.True(t, errors.Normalize(err).Retryable)
}
