package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaReader abstracts the kafka-go reader for testing.
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditConsumer subscribes to the lifecycle topic and writes every event to
// the audit log. It commits a message only after it has been logged.
type AuditConsumer struct {
	reader KafkaReader
	logger *zap.Logger
}

// NewAuditConsumer builds a consumer joining the given group.
func NewAuditConsumer(brokers []string, topic, groupID string, logger *zap.Logger) *AuditConsumer {
	return &AuditConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger: logger.Named("audit_consumer"),
	}
}

// Start consumes in the background until the context is canceled.
func (c *AuditConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("failed to fetch message", zap.Error(err))
				continue
			}

			var event Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("failed to parse event",
					zap.Error(err),
					zap.ByteString("value", msg.Value),
				)
				continue
			}
			c.record(event)

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("failed to commit message",
					zap.Error(err),
					zap.String("event_type", string(event.Type)),
				)
			}
		}
	}()
}

func (c *AuditConsumer) record(event Event) {
	fields := []zap.Field{
		zap.String("event_type", string(event.Type)),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if event.Company != nil {
		fields = append(fields,
			zap.String("company_id", event.Company.ID.String()),
			zap.String("company_name", event.Company.Name),
		)
	}
	c.logger.Info("company lifecycle event", fields...)
}

// Close releases the reader.
func (c *AuditConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("failed to close Kafka reader", zap.Error(err))
	}
}
