package camunda

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"purchase-advisor/internal/common/logger"
)

type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	ConnectAttempts        int
	ConnectBackoff         time.Duration
}

func DefaultClientConfig(address string) *ClientConfig {
	return &ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		ConnectAttempts:        10,
		ConnectBackoff:         2 * time.Second,
	}
}

// Connect dials the gateway and waits for a topology response, backing off
// between attempts. Only the broker connection is retried.
func Connect(ctx context.Context, config *ClientConfig, log logger.Logger) (*Client, error) {
	if config.ConnectAttempts < 1 {
		config.ConnectAttempts = 1
	}

	delay := config.ConnectBackoff
	var lastErr error
	for attempt := 1; attempt <= config.ConnectAttempts; attempt++ {
		c, err := dial(ctx, config)
		if err == nil {
			return c, nil
		}
		lastErr = err

		if attempt == config.ConnectAttempts {
			break
		}
		log.Warn("zeebe connect failed, retrying", map[string]interface{}{
			"attempt":     attempt,
			"maxAttempts": config.ConnectAttempts,
			"nextRetryIn": delay.String(),
			"error":       err.Error(),
		})

		select {
		case <-time.After(delay):
			delay *= 2
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("zeebe connect failed after %d attempts: %w", config.ConnectAttempts, lastErr)
}

func dial(ctx context.Context, config *ClientConfig) (*Client, error) {
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: config}
	if err := c.HealthCheck(ctx); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to reach Zeebe broker at %s: %w", config.GatewayAddress, err)
	}
	return c, nil
}

func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
