// FILE: internal/service/analytics_consumer.go
package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/internal/repository/contract"
	"profile-concierge-be/pkg/convo/telemetry"
)

type IAnalyticsConsumer interface {
	Consume(ctx context.Context) error
}

// analyticsConsumer drains the telemetry bus and appends turn records
// to the analytics store. Invalid payloads are acked, storage failures
// nacked for redelivery.
type analyticsConsumer struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	interactions contract.IInteractionRepository
	log          logger.ILogger
}

func NewAnalyticsConsumer(
	pubSub *gochannel.GoChannel,
	topicName string,
	interactions contract.IInteractionRepository,
	log logger.ILogger,
) IAnalyticsConsumer {
	return &analyticsConsumer{
		pubSub:       pubSub,
		topicName:    topicName,
		interactions: interactions,
		log:          log,
	}
}

func (c *analyticsConsumer) Consume(ctx context.Context) error {
	messages, err := c.pubSub.Subscribe(ctx, c.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (c *analyticsConsumer) processMessage(ctx context.Context, msg *message.Message) {
	var record telemetry.TurnRecord
	if err := json.Unmarshal(msg.Payload, &record); err != nil {
		c.log.Error("analytics", "unparseable turn record dropped", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	if err := c.interactions.AppendTurn(ctx, record); err != nil {
		c.log.Error("analytics", "turn record append failed", map[string]interface{}{
			"session_id": record.Interaction.SessionID,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
