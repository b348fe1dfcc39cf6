package service

import (
	"context"
	"encoding/json"
	"fmt"

	"floodwatch/internal/modules/alerts/types"
)

// Publisher announces alerts outside the process.
type Publisher interface {
	PublishAlert(ctx context.Context, a types.Alert) error
}

// TopicPublisher is the subset of mqtt.Client the alert publisher needs.
type TopicPublisher interface {
	Publish(ctx context.Context, sub string, payload []byte) error
}

// MQTTPublisher sends each alert as a Message to <prefix>/<region-slug>.
type MQTTPublisher struct {
	client TopicPublisher
}

func NewMQTTPublisher(client TopicPublisher) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

func (p *MQTTPublisher) PublishAlert(ctx context.Context, a types.Alert) error {
	msg := types.NewMessage(a)
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode alert %s: %w", a.ID, err)
	}
	return p.client.Publish(ctx, msg.Slug, payload)
}
