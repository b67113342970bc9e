// Package publish forwards recomputed day metrics to Kafka.
package publish

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/observability"
	"pig-logistics/internal/scene"
	"pig-logistics/internal/session"
)

// DayEvent is the message value published on each recompute.
type DayEvent struct {
	SessionID     string              `json:"session_id"`
	Trigger       string              `json:"trigger"`
	Day           int                 `json:"day"`
	RestDay       bool                `json:"rest_day"`
	Metrics       domain.DailyMetrics `json:"metrics"`
	FacilityState string              `json:"facility_status"`
	DroppedStops  int                 `json:"dropped_stops"`
	PublishedAt   time.Time           `json:"published_at"`
}

// Publisher sends DayEvents to one topic.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *log.Logger
	now      func() time.Time
}

// NewPublisher connects a synchronous producer to brokers.
func NewPublisher(brokers []string, topic string, logger *log.Logger) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true // Must be true for SyncProducer
	config.Net.DialTimeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	if logger != nil {
		logger.Printf("Kafka producer connected to %v, topic %s", brokers, topic)
	}
	return NewPublisherWithProducer(producer, topic, logger), nil
}

// NewPublisherWithProducer wraps an existing producer.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Publish sends the event keyed by session id.
func (p *Publisher) Publish(ev DayEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode day event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.SessionID),
		Value: sarama.ByteEncoder(value),
	})
	observability.RecordEventPublished(err)
	if err != nil {
		return fmt.Errorf("send day %d event to %s: %w", ev.Day, p.topic, err)
	}
	return nil
}

// Attach publishes an event for every recompute of sess. Failures are logged.
func (p *Publisher) Attach(sess *session.Session) (detach func()) {
	id := sess.ID().String()
	return sess.Subscribe(func(trigger string, sc scene.Scene) {
		ev := DayEvent{
			SessionID:     id,
			Trigger:       trigger,
			Day:           sc.Day,
			RestDay:       sc.RestDay,
			Metrics:       sc.Metrics,
			FacilityState: sc.Facility.Tooltip.StatusLabel,
			DroppedStops:  sc.DroppedStops,
			PublishedAt:   p.now(),
		}
		if err := p.Publish(ev); err != nil {
			p.logger.Printf("publish: %v", err)
		}
	})
}

// Close closes the producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
