// Package relay consumes the upstream alert feed over WebSocket and turns
// alerts into decoded transactions for the pipeline.
package relay

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"solana-wallet-alerts/internal/observability"
)

// Alert is one relayed transaction notification.
type Alert struct {
	Signature string `json:"signature"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

// Sources whose alerts are not worth processing. pump_fun traffic is pure
// noise for the wallets being watched.
var skippedSources = map[string]struct{}{
	"pump_fun": {},
	"PUMP_AMM": {},
}

// Default reconnect backoff bounds.
const (
	DefaultReconnectDelay    = 1 * time.Second
	DefaultMaxReconnectDelay = 30 * time.Second
)

// ClientConfig configures the relay client.
type ClientConfig struct {
	URL               string
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	Logger            *log.Logger
	Metrics           *observability.Metrics
}

// Client maintains a WebSocket subscription to the alert relay, with
// reconnect and capped exponential backoff.
type Client struct {
	url               string
	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration
	logger            *log.Logger
	metrics           *observability.Metrics
}

// NewClient creates a relay client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.MaxReconnectDelay == 0 {
		cfg.MaxReconnectDelay = DefaultMaxReconnectDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Client{
		url:               cfg.URL,
		reconnectDelay:    cfg.ReconnectDelay,
		maxReconnectDelay: cfg.MaxReconnectDelay,
		logger:            cfg.Logger,
		metrics:           cfg.Metrics,
	}
}

// Subscribe starts the read loop and returns the alert channel. The
// channel closes when the context is cancelled.
func (c *Client) Subscribe(ctx context.Context) (<-chan Alert, error) {
	out := make(chan Alert, 64)
	go c.run(ctx, out)
	return out, nil
}

func (c *Client) run(ctx context.Context, out chan<- Alert) {
	defer close(out)

	delay := c.reconnectDelay
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.logger.Printf("relay dial %s: %v", c.url, err)
			if !sleepCtx(ctx, delay) {
				return
			}
			delay = nextDelay(delay, c.maxReconnectDelay)
			continue
		}
		c.logger.Printf("relay connected to %s", c.url)
		delay = c.reconnectDelay

		if err := c.readLoop(ctx, conn, out); err != nil && ctx.Err() == nil {
			c.logger.Printf("relay read: %v", err)
			if c.metrics != nil {
				c.metrics.RelayReconnects.Inc()
			}
		}
		conn.Close()
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- Alert) error {
	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if c.metrics != nil {
			c.metrics.RelayMessages.Inc()
		}

		var alert Alert
		if err := json.Unmarshal(data, &alert); err != nil {
			c.logger.Printf("relay message malformed: %v", err)
			c.skip("malformed")
			continue
		}
		if alert.Signature == "" {
			c.skip("no_signature")
			continue
		}
		if _, skip := skippedSources[alert.Source]; skip {
			c.skip("source")
			continue
		}

		select {
		case out <- alert:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) skip(reason string) {
	if c.metrics != nil {
		c.metrics.RelaySkipped.WithLabelValues(reason).Inc()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextDelay(current, ceiling time.Duration) time.Duration {
	next := current * 2
	if next > ceiling {
		return ceiling
	}
	return next
}
