package messaging

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher sends a payload on a subject without blocking.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Client is a NATS connection used to mirror outbound traffic.
type Client struct {
	conn *nats.Conn
	log  *zap.Logger
}

// Connect dials url and keeps reconnecting in the background.
func Connect(url, name string, log *zap.Logger) (*Client, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating nats client connection: %w", err)
	}
	log.Info("nats connected", zap.String("url", conn.ConnectedUrl()))
	return &Client{conn: conn, log: log}, nil
}

// Publish sends data to subject. The client buffers while reconnecting.
func (c *Client) Publish(subject string, data []byte) error {
	if c.conn == nil {
		return fmt.Errorf("nats client not connected")
	}
	return c.conn.Publish(subject, data)
}

// Close flushes pending messages and closes the connection.
func (c *Client) Close() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Drain(); err != nil {
		c.log.Warn("nats drain failed", zap.Error(err))
		c.conn.Close()
	}
}
