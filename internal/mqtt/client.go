// Package mqtt wraps the paho client with the connection handling both the
// server (publishing alerts) and floodctl watch (subscribing) need.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"floodwatch/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// QoS used for alerts: at least once.
const QoS byte = 1

const operationTimeout = 5 * time.Second

var (
	ErrNotConnected = errors.New("mqtt client not connected")
	ErrStopped      = errors.New("mqtt client stopped")
)

// Options configures a Client. Topic is the prefix every publish and
// subscribe is relative to.
type Options struct {
	Broker   string
	Port     int
	ClientID string
	Topic    string
}

// OptionsFromConfig copies the MQTT settings of cfg.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Broker:   cfg.MQTTBroker,
		Port:     cfg.MQTTPort,
		ClientID: cfg.MQTTClientID,
		Topic:    cfg.MQTTTopic,
	}
}

// BrokerURL is the tcp:// address paho dials.
func (o Options) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", o.Broker, o.Port)
}

// Handler receives the full topic and raw payload of each message.
type Handler func(topic string, payload []byte)

type Client struct {
	client    mqtt.Client
	opts      Options
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	// subscriptions are restored after every reconnect (clean session).
	subscriptions map[string]Handler

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewClient(o Options, logger *slog.Logger) (*Client, error) {
	if o.Broker == "" {
		return nil, errors.New("mqtt broker is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		opts:          o,
		logger:        logger.With("component", "mqtt"),
		subscriptions: make(map[string]Handler),
		stopCh:        make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(o.BrokerURL())
	opts.SetClientID(o.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(pc mqtt.Client) {
		c.setConnected(true)
		c.logger.Info("mqtt connected", "broker", o.Broker, "port", o.Port)
		c.resubscribe(pc)
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		c.logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = mqtt.NewClient(opts)
	return c, nil
}

// Topic joins the configured prefix and sub.
func (c *Client) Topic(sub string) string {
	sub = strings.Trim(sub, "/")
	if sub == "" {
		return c.opts.Topic
	}
	if c.opts.Topic == "" {
		return sub
	}
	return c.opts.Topic + "/" + sub
}

// Connect waits for the initial connection while honouring ctx and
// Disconnect. Paho keeps retrying in the background until one of them fires.
func (c *Client) Connect(ctx context.Context) error {
	select {
	case <-c.stopCh:
		return ErrStopped
	default:
	}

	if c.IsConnected() {
		return nil
	}

	token := c.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			c.client.Disconnect(0)
			return ctx.Err()
		case <-c.stopCh:
			c.client.Disconnect(0)
			return ErrStopped
		default:
		}
	}
}

// Publish sends payload to Topic(sub) with QoS 1.
func (c *Client) Publish(ctx context.Context, sub string, payload []byte) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	topic := c.Topic(sub)

	token := c.client.Publish(topic, QoS, false, payload)
	if err := c.wait(ctx, token, "publish "+topic); err != nil {
		return err
	}
	c.logger.Debug("published", "topic", topic, "size", len(payload))
	return nil
}

// Subscribe registers h for filter (relative to the prefix, may contain
// wildcards) and keeps it across reconnects. Called before Connect, the
// subscription is made once the connection is up.
func (c *Client) Subscribe(ctx context.Context, filter string, h Handler) error {
	topic := c.Topic(filter)

	c.mu.Lock()
	c.subscriptions[topic] = h
	c.mu.Unlock()

	if !c.IsConnected() {
		c.logger.Debug("subscription deferred until connect", "topic", topic)
		return nil
	}
	token := c.client.Subscribe(topic, QoS, c.dispatch(h))
	if err := c.wait(ctx, token, "subscribe "+topic); err != nil {
		return err
	}
	c.logger.Info("subscribed to mqtt topic", "topic", topic, "qos", QoS)
	return nil
}

func (c *Client) dispatch(h Handler) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		c.logger.Debug("received mqtt message", "topic", msg.Topic(), "size", len(msg.Payload()))
		h(msg.Topic(), msg.Payload())
	}
}

// resubscribe runs inside paho's connect callback, so it must not block on
// tokens.
func (c *Client) resubscribe(pc mqtt.Client) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for topic, h := range c.subscriptions {
		token := pc.Subscribe(topic, QoS, c.dispatch(h))
		go func(topic string) {
			if token.WaitTimeout(operationTimeout) && token.Error() != nil {
				c.logger.Error("resubscribe failed", "topic", topic, "error", token.Error())
			}
		}(topic)
	}
}

func (c *Client) wait(ctx context.Context, token mqtt.Token, what string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", what, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// IsConnected returns whether the client is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	return connected && c.client.IsConnected()
}

// Disconnect stops the client and closes the connection. It is idempotent;
// after it Connect returns ErrStopped.
func (c *Client) Disconnect() {
	c.stopOnce.Do(func() { close(c.stopCh) })

	if c.IsConnected() {
		c.mu.RLock()
		topics := make([]string, 0, len(c.subscriptions))
		for t := range c.subscriptions {
			topics = append(topics, t)
		}
		c.mu.RUnlock()
		if len(topics) > 0 {
			c.client.Unsubscribe(topics...).WaitTimeout(2 * time.Second)
		}
	}

	c.client.Disconnect(250)
	c.setConnected(false)
	c.logger.Info("mqtt disconnected")
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
