// Package events publishes company lifecycle events to Kafka. Publishing is
// asynchronous and best-effort: a request never waits on the broker and a
// full queue drops the event with a warning.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gartstein/companydir/internal/company/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated EventType = "company_created"
	CompanyUpdated EventType = "company_updated"
	CompanyDeleted EventType = "company_deleted"
)

// Event is the payload written to the topic: the lifecycle transition, when
// it happened and a snapshot of the record as it was at that moment.
type Event struct {
	Type       EventType       `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Company    *models.Company `json:"company"`
}

// KafkaWriter abstracts the kafka-go writer for testing.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer queues lifecycle events and ships them from a single send loop.
type Producer struct {
	writer KafkaWriter
	queue  chan Event
	logger *zap.Logger
	done   chan struct{}
}

// NewProducer creates the topic when it does not exist yet and starts the
// send loop.
func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		queue:  make(chan Event, 1000),
		logger: logger.Named("kafka_producer"),
		done:   make(chan struct{}),
	}

	go p.run()
	return p, nil
}

// Produce enqueues a lifecycle event. Non-blocking; drops when the queue is
// full so the request path never waits on Kafka.
func (p *Producer) Produce(eventType EventType, company *models.Company) {
	event := Event{Type: eventType, OccurredAt: time.Now().UTC(), Company: company}
	select {
	case p.queue <- event:
	default:
		p.logger.Warn("event queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("company_id", company.ID.String()),
		)
	}
}

func (p *Producer) run() {
	for {
		select {
		case event := <-p.queue:
			p.publish(context.Background(), event)
		case <-p.done:
			return
		}
	}
}

func (p *Producer) publish(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("failed to serialize event",
			zap.Error(err),
			zap.String("company_id", event.Company.ID.String()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Company.ID.String()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("company_id", event.Company.ID.String()),
		)
	}
}

// Close stops the send loop and releases the writer.
func (p *Producer) Close() {
	close(p.done)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("failed to close Kafka writer", zap.Error(err))
	}
}
