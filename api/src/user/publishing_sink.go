package user

import (
	"context"
	"fmt"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rabbitmq"

	"github.com/google/uuid"
)

const UserEventsPublisher rabbitmq.PublisherAlias = "UserEventsPublisher"

// PublishingSink publishes registrations straight to the broker. Used where
// the store cannot share a transaction with an outbox table.
type PublishingSink struct {
	publisher rabbitmq.IRabbitmqPublisher
}

func NewPublishingSink(publisher rabbitmq.IRabbitmqPublisher) *PublishingSink {
	return &PublishingSink{publisher: publisher}
}

func (ps *PublishingSink) UserRegistered(_ context.Context, u *model.User) error {
	event := model.NewUserRegisteredEvent(uuid.NewString(), u)
	if err := ps.publisher.Publish(event); err != nil {
		return fmt.Errorf("publish registration of user %s: %w", event.UserId, err)
	}
	return nil
}
