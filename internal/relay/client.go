package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
)

// ErrOffline is returned by Send while no connection is open.
var ErrOffline = errors.New("relay offline")

// ClientConfig configures a relay Client.
type ClientConfig struct {
	// URL is the websocket URL of the authoritative peer, e.g. ws://gm:7777/relay.
	URL string
	// Secret is the shared secret presented on connect.
	Secret string
	// WriteTimeout bounds each send.
	WriteTimeout time.Duration
	// RetryInterval is the pause between reconnect attempts.
	RetryInterval time.Duration
}

// Client keeps a connection to the authoritative peer and forwards transfer
// requests over it. It implements inventory.Relay.
type Client struct {
	cfg    ClientConfig
	logger *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	stop     chan struct{}
	stopOnce sync.Once
}

var _ inventory.Relay = (*Client)(nil)

// NewClient creates a Client. It does not connect until Connect or Start.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Second
	}
	return &Client{cfg: cfg, logger: logger, stop: make(chan struct{})}
}

// Connect dials the authoritative peer once and starts watching the
// connection. The client goes offline when the peer closes it.
func (c *Client) Connect(ctx context.Context) error {
	header := http.Header{}
	header.Set(SecretHeader, c.cfg.Secret)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return fmt.Errorf("relay dial %s: %s: %w", c.cfg.URL, resp.Status, err)
		}
		return fmt.Errorf("relay dial %s: %w", c.cfg.URL, err)
	}

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.mu.Unlock()
	c.logger.Info("relay connected", zap.String("url", c.cfg.URL))

	go c.watch(conn)
	return nil
}

// watch drains the connection so close frames are seen, then marks the
// client offline.
func (c *Client) watch(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()
			conn.Close()
			c.logger.Info("relay disconnected", zap.Error(err))
			return
		}
	}
}

// AuthorityOnline reports whether a connection to the authoritative peer is open.
func (c *Client) AuthorityOnline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Send writes req to the authoritative peer without waiting for it to be applied.
func (c *Client) Send(_ context.Context, req inventory.TransferRequest) error {
	data, err := EncodeTransfer(req)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrOffline
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("relay send: %w", err)
	}
	return nil
}

// Start connects and reconnects until Stop is called.
func (c *Client) Start() error {
	for {
		if !c.AuthorityOnline() {
			ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RetryInterval)
			if err := c.Connect(ctx); err != nil {
				c.logger.Warn("relay connect failed", zap.Error(err))
			}
			cancel()
		}
		select {
		case <-c.stop:
			return nil
		case <-time.After(c.cfg.RetryInterval):
		}
	}
}

// Stop ends the reconnect loop and closes the connection.
func (c *Client) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.conn.Close()
		c.conn = nil
	}
}
