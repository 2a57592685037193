// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client owns the gateway connection shared by every job worker in the process.
type Client struct {
	zbc            zbc.Client
	address        string
	connectTimeout time.Duration
	retry          RetryPolicy
}

// RetryPolicy bounds ExecuteWithRetry.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  time.Second,
	MaxDelay:   10 * time.Second,
}

// NewClient dials the broker from the camunda config section and checks
// that it answers a topology request before returning.
func NewClient(ctx context.Context, cfg config.CamundaConfig) (*Client, error) {
	connectTimeout := config.GetDuration(cfg.RequestTimeout)
	if cfg.RequestTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}

	zc, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create zeebe client: %w", err)
	}

	c := &Client{
		zbc:            zc,
		address:        cfg.BrokerAddress,
		connectTimeout: connectTimeout,
		retry:          DefaultRetryPolicy,
	}
	if err := c.HealthCheck(ctx); err != nil {
		zc.Close()
		return nil, fmt.Errorf("zeebe broker at %s: %w", cfg.BrokerAddress, err)
	}
	return c, nil
}

// GetClient returns the raw Zeebe client used to open job workers.
func (c *Client) GetClient() zbc.Client {
	return c.zbc
}

func (c *Client) Close() error {
	return c.zbc.Close()
}

// HealthCheck sends a topology request; the worker manager's /ready uses it.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return c.zbc.NewTopologyCommand().Send(ctx)
	}, "topology")
	return err
}

// ExecuteWithRetry runs a Zeebe command, retrying transient failures with
// exponential backoff capped at MaxDelay.
func (c *Client) ExecuteWithRetry(
	ctx context.Context,
	command func(context.Context) (interface{}, error),
	operation string,
) (interface{}, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		result, err := command(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableZeebeError(err) || attempt == c.retry.MaxRetries {
			return nil, mapZeebeError(err, operation, attempt)
		}

		delay := c.retry.BaseDelay << attempt
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%s cancelled after %d attempts: %w", operation, attempt+1, ctx.Err())
		}
	}

	return nil, fmt.Errorf("%s failed after %d retries: %w", operation, c.retry.MaxRetries, lastErr)
}

var (
	unavailablePhrases = []string{"connection refused", "connection reset", "unavailable", "unreachable", "broken pipe"}
	timeoutPhrases     = []string{"timeout", "deadline exceeded"}
)

func containsAny(msg string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	return containsAny(msg, unavailablePhrases) || containsAny(msg, timeoutPhrases)
}

// mapZeebeError converts a gateway error into a StandardError the
// ErrorHandler can classify.
func mapZeebeError(err error, operation string, attempt int) error {
	msg := strings.ToLower(err.Error())

	wrapped := fmt.Errorf("zeebe %s failed: %w", operation, err)
	if attempt > 0 {
		wrapped = fmt.Errorf("zeebe %s failed after %d attempts: %w", operation, attempt+1, err)
	}

	switch {
	case containsAny(msg, unavailablePhrases):
		return errors.NewExternalServiceError("zeebe", wrapped)
	case containsAny(msg, timeoutPhrases):
		return errors.NewTimeoutError("zeebe", wrapped)
	case strings.Contains(msg, "not found"):
		return errors.NewResourceNotFoundError("zeebe", wrapped.Error())
	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}
