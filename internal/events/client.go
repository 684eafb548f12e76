// Package events feeds notification triggers from NATS into the notifier.
package events

import (
	"time"

	natspkg "github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

type Client struct {
	nc *natspkg.Conn
}

func NewClient(url string, log *logrus.Entry) (*Client, error) {
	nc, err := natspkg.Connect(url,
		natspkg.Name("rental-service"),
		natspkg.MaxReconnects(-1),
		natspkg.ReconnectWait(2*time.Second),
		natspkg.DisconnectErrHandler(func(_ *natspkg.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("nats disconnected")
			}
		}),
		natspkg.ReconnectHandler(func(c *natspkg.Conn) {
			log.WithField("url", c.ConnectedUrl()).Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc}, nil
}

// Close drains subscriptions so in-flight messages finish.
func (c *Client) Close() {
	if err := c.nc.Drain(); err != nil {
		c.nc.Close()
	}
}

func (c *Client) IsConnected() bool {
	return c.nc != nil && c.nc.Status() == natspkg.CONNECTED
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) (*natspkg.Subscription, error) {
	return c.nc.Subscribe(subject, func(msg *natspkg.Msg) {
		handler(msg.Subject, msg.Data)
	})
}
