// ABOUTME: WebSocket client for EMG sensor streams
// ABOUTME: Dials the sensor and forwards binary payloads as byte chunks
package link

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultDialTimeout bounds the websocket handshake
const DefaultDialTimeout = 5 * time.Second

// ErrNotConnected is returned when sending on a closed link
var ErrNotConnected = errors.New("not connected")

// Config holds client configuration
type Config struct {
	// Endpoint is a ws:// or wss:// URL, or a bare host:port
	Endpoint    string
	DialTimeout time.Duration
}

// Client is a websocket connection to one sensor
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.RWMutex

	// Chunks carries binary payloads in arrival order. It is closed when
	// the connection ends.
	Chunks chan []byte

	connected bool
	err       error
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewClient creates a client; Connect must be called before use
func NewClient(config Config) *Client {
	if config.DialTimeout <= 0 {
		config.DialTimeout = DefaultDialTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		config: config,
		Chunks: make(chan []byte, 64),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// EndpointURL normalizes an operator-supplied endpoint. A bare host:port
// gets the ws scheme and a root path.
func EndpointURL(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", fmt.Errorf("empty endpoint")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "ws://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

// Connect dials the sensor and starts the reader
func (c *Client) Connect() error {
	target, err := EndpointURL(c.config.Endpoint)
	if err != nil {
		return err
	}
	log.Printf("Connecting to %s", target)

	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: c.config.DialTimeout,
	}

	conn, _, err := dialer.DialContext(c.ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readMessages()

	return nil
}

// readMessages forwards binary payloads until the connection ends
func (c *Client) readMessages() {
	defer close(c.done)
	defer close(c.Chunks)
	defer c.Close()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			c.finish(err)
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			select {
			case c.Chunks <- data:
			case <-c.ctx.Done():
				return
			}
		case websocket.TextMessage:
			log.Printf("Ignoring text message from sensor: %q", truncate(string(data), 64))
		default:
			log.Printf("Unknown WebSocket message type: %d", messageType)
		}
	}
}

// finish records why the reader stopped
func (c *Client) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Errors after a local Close are expected
	if !c.connected || c.ctx.Err() != nil {
		return
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Printf("Sensor closed the connection")
		return
	}

	log.Printf("Read error: %v", err)
	c.err = err
}

// Done is closed once the reader has stopped and Chunks is closed
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the abnormal error that ended the connection, if any
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Send writes a text message to the sensor
func (c *Client) Send(text string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return ErrNotConnected
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
	if c.connected {
		c.connected = false
		c.conn.Close()
		log.Printf("Connection closed")
	}
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
