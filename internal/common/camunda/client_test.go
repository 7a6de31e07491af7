package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-matching/internal/common/errors"
)

func fastRetry(max int) *RetryConfig {
	return &RetryConfig{MaxRetries: max, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestExecuteWithRetry(t *testing.T) {
	tests := []struct {
		name          string
		failures      []error
		maxRetries    int
		expectError   bool
		expectedCalls int
		expectedCode  errors.ErrorCode
	}{
		{
			name:          "succeeds first time",
			maxRetries:    3,
			expectedCalls: 1,
		},
		{
			name:          "recovers after transient failures",
			failures:      []error{fmt.Errorf("connection refused"), fmt.Errorf("rpc error: Unavailable")},
			maxRetries:    3,
			expectedCalls: 3,
		},
		{
			name:          "gives up after max retries",
			failures:      []error{fmt.Errorf("deadline exceeded"), fmt.Errorf("deadline exceeded"), fmt.Errorf("deadline exceeded")},
			maxRetries:    2,
			expectError:   true,
			expectedCalls: 3,
			expectedCode:  errors.ErrCodeWorkflowEngineFailed,
		},
		{
			name:          "permanent error is not retried",
			failures:      []error{fmt.Errorf("permission denied")},
			maxRetries:    3,
			expectError:   true,
			expectedCalls: 1,
			expectedCode:  errors.ErrCodeWorkflowEngineFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := executeWithRetry(context.Background(), fastRetry(tt.maxRetries), "topology", func(context.Context) error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			assert.Equal(t, tt.expectedCalls, calls)
			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestExecuteWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rc := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	err := executeWithRetry(ctx, rc, "topology", func(context.Context) error {
		cancel()
		return fmt.Errorf("connection refused")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCancelled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(fmt.Errorf("dial tcp: connection refused")))
	assert.True(t, isRetryableZeebeError(fmt.Errorf("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(fmt.Errorf("NOT_FOUND: job 12")))
}
