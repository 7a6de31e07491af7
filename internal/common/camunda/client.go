// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client with connection retry.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

// ClientConfig holds configuration for the Camunda/Zeebe client.
type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig defines retry behavior for transient failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Connect creates the Zeebe client and waits until the gateway answers a
// topology request, retrying transient failures with exponential backoff.
func Connect(ctx context.Context, config *ClientConfig, log logger.Logger) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout <= 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, errors.NewWorkflowEngineError("create client", err, false)
	}

	c := &Client{client: zeebeClient, config: config}
	err = c.ExecuteWithRetry(ctx, "topology", func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, config.ConnectionTimeout)
		defer cancel()
		_, err := zeebeClient.NewTopologyCommand().Send(attemptCtx)
		if err != nil && log != nil {
			log.Warn("zeebe gateway not ready", map[string]interface{}{
				"gateway": config.GatewayAddress,
				"error":   err.Error(),
			})
		}
		return err
	})
	if err != nil {
		zeebeClient.Close()
		return nil, err
	}
	return c, nil
}

// GetClient returns the raw Zeebe client for job workers.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// ExecuteWithRetry runs fn until it succeeds, fails with a non-transient
// error, or MaxRetries is exhausted.
func (c *Client) ExecuteWithRetry(ctx context.Context, operationName string, fn func(context.Context) error) error {
	return executeWithRetry(ctx, c.config.RetryConfig, operationName, fn)
}

func executeWithRetry(ctx context.Context, rc *RetryConfig, operationName string, fn func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		if !isRetryableZeebeError(err) || attempt >= rc.MaxRetries {
			return mapZeebeError(err, operationName, attempt)
		}

		delay := rc.BaseDelay * time.Duration(1<<attempt)
		if delay > rc.MaxDelay {
			delay = rc.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return errors.NewCancelledError(operationName, ctx.Err())
		}
	}
}

// isRetryableZeebeError checks if the error is transient and should be retried.
func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func mapZeebeError(err error, operation string, attempt int) error {
	if attempt > 0 {
		err = fmt.Errorf("after %d attempts: %w", attempt+1, err)
	}
	return errors.NewWorkflowEngineError(operation, err, isRetryableZeebeError(err))
}

// HealthCheck performs a topology request against the gateway.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
