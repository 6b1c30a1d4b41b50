package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

type PublisherAlias string

var (
	PublisherRegistry map[PublisherAlias]IRabbitmqPublisher
	registryMu        sync.RWMutex
)

func GetPublisher(alias PublisherAlias) IRabbitmqPublisher {
	registryMu.RLock()
	defer registryMu.RUnlock()

	publisher, ok := PublisherRegistry[alias]
	if !ok {
		panic(fmt.Sprintf("publisher %q not registered: call InitializePublisherRegistry() first", alias))
	}
	return publisher
}

// RegisterPublisher adds or replaces a single publisher in the registry.
func RegisterPublisher(alias PublisherAlias, publisher IRabbitmqPublisher) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if PublisherRegistry == nil {
		PublisherRegistry = make(map[PublisherAlias]IRabbitmqPublisher)
	}
	PublisherRegistry[alias] = publisher
}

func InitializePublisherRegistry(conn *amqp.Connection, publisherConfig []RabbitmqPublishersConfig) error {
	for _, publisher := range publisherConfig {
		channel, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("open channel for publisher %s: %w", publisher.PublisherAlias, err)
		}

		RegisterPublisher(publisher.PublisherAlias, NewPublisher(
			channel,
			publisher.Exchange,
			publisher.RoutingKey,
		))
	}
	return nil
}

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitmqPublisher struct {
	Channel    Channel
	Exchange   string
	RoutingKey string
}

func NewPublisher(ch Channel, exchange, routingKey string) *RabbitmqPublisher {
	return &RabbitmqPublisher{
		Channel:    ch,
		Exchange:   exchange,
		RoutingKey: routingKey,
	}
}

type IRabbitmqPublisher interface {
	Publish(body utilities.Serializable) error
}

func (rp *RabbitmqPublisher) Publish(body utilities.Serializable) error {
	json, err := body.Serialize()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return rp.Channel.PublishWithContext(
		ctx,
		rp.Exchange,
		rp.RoutingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         json,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
}
