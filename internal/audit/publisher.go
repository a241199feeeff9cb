// Package audit publishes order lifecycle events to Kafka so swallowed
// collaborator failures (agent paging in particular) stay visible to
// operations even when the customer-facing reply hides them.
package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Event types recorded on the audit topic.
const (
	EventRescheduleApplied = "reschedule_applied"
	EventAgentPaged        = "agent_paged"
	EventPagingFailed      = "paging_failed"
)

// Event is one order-related occurrence worth recording.
type Event struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	OldStatus   string    `json:"old_status,omitempty"`
	NewStatus   string    `json:"new_status,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher records audit events. Implementations must not block the
// request path on broker failures beyond the producer timeout.
type Publisher interface {
	Publish(event Event)
	Close() error
}

// kafkaPublisher sends events to a Kafka topic via a sarama SyncProducer.
type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a synchronous producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic string) (Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return &kafkaPublisher{producer: producer, topic: topic}, nil
}

// Publish serializes the event and sends it. A broker failure is logged and
// dropped; audit delivery is best effort.
func (p *kafkaPublisher) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("audit: failed to marshal event %q: %v", event.Type, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("audit: failed to publish event %q for order %s: %v", event.Type, event.OrderID, err)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher discards all events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

func (NopPublisher) Close() error { return nil }
