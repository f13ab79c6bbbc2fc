package mqtt

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	onlinePayload  = "true"
	offlinePayload = "false"
)

// Client is a connected broker session.
type Client struct {
	client  paho.Client
	timeout time.Duration
	online  string
}

// Connect opens a session to cfg.Broker. The broker marks the bridge
// offline on its availability topic if the session drops.
func Connect(cfg Config) (*Client, error) {
	online := cfg.Topic + "/online"

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetWill(online, offlinePayload, 0, true)

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logrus.WithError(err).Warn("mqtt connection lost")
	})
	opts.SetReconnectingHandler(func(_ paho.Client, o *paho.ClientOptions) {
		logrus.WithField("clientId", o.ClientID).Info("mqtt reconnecting")
	})

	c := &Client{
		client:  paho.NewClient(opts),
		timeout: cfg.Timeout,
		online:  online,
	}

	token := c.client.Connect()
	if ok := token.WaitTimeout(c.timeout); !ok {
		return nil, pkgerrors.Errorf("timed out connecting to mqtt broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to connect to mqtt broker %s", cfg.Broker)
	}

	if err := c.Publish(online, true, []byte(onlinePayload)); err != nil {
		c.client.Disconnect(250)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"broker":   cfg.Broker,
		"clientId": cfg.ClientID,
	}).Info("mqtt connected")

	return c, nil
}

func (c *Client) Publish(topic string, retained bool, payload []byte) error {
	token := c.client.Publish(topic, 0, retained, payload)
	if ok := token.WaitTimeout(c.timeout); !ok {
		return pkgerrors.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return pkgerrors.Wrapf(err, "failed to publish to %s", topic)
	}
	return nil
}

// Close marks the bridge offline and disconnects.
func (c *Client) Close() {
	if err := c.Publish(c.online, true, []byte(offlinePayload)); err != nil {
		logrus.WithError(err).Debug("failed to publish offline state")
	}
	c.client.Disconnect(250)
}
