package camunda

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-matching/internal/common/errors"
	"property-matching/internal/common/validation"
)

func TestDecodeVariables(t *testing.T) {
	schema := validation.JobSchema("test-job", map[string]string{
		"userId": validation.PositiveID,
		"limit":  validation.Limit,
	}, "userId")

	type input struct {
		UserID int64 `json:"userId"`
		Limit  *int  `json:"limit"`
	}

	tests := []struct {
		name           string
		variables      string
		schema         *validation.Schema
		expectError    bool
		validateOutput func(t *testing.T, in input)
	}{
		{
			name:      "valid with extra process variables",
			variables: `{"userId": 42, "limit": 5, "processStartedBy": "crm"}`,
			schema:    schema,
			validateOutput: func(t *testing.T, in input) {
				assert.Equal(t, int64(42), in.UserID)
				require.NotNil(t, in.Limit)
				assert.Equal(t, 5, *in.Limit)
			},
		},
		{
			name:        "missing required field",
			variables:   `{"limit": 5}`,
			schema:      schema,
			expectError: true,
		},
		{
			name:        "limit out of range",
			variables:   `{"userId": 1, "limit": 500}`,
			schema:      schema,
			expectError: true,
		},
		{
			name:      "empty variables without schema",
			variables: "",
			validateOutput: func(t *testing.T, in input) {
				assert.Zero(t, in.UserID)
				assert.Nil(t, in.Limit)
			},
		},
		{
			name:        "malformed json",
			variables:   `{"userId": `,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in input
			err := DecodeVariables(tt.variables, tt.schema, &in)
			if tt.expectError {
				require.Error(t, err)
				var stdErr *errors.StandardError
				require.True(t, stderrors.As(err, &stdErr))
				assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
				return
			}
			require.NoError(t, err)
			if tt.validateOutput != nil {
				tt.validateOutput(t, in)
			}
		})
	}
}
