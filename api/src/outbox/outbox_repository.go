package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxRetries = 5

var ErrEventNotFound = errors.New("outbox event not found")

type OutboxRepository interface {
	GetEvent(ctx context.Context, eventId uuid.UUID) (model.OutboxEvent, error)
	UserRegistered(ctx context.Context, u *model.User) (uuid.UUID, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, eventId uuid.UUID) error
	UpdateRetryValue(ctx context.Context, eventId uuid.UUID) error
	// WithTx binds the repository to tx so events commit with the data they describe.
	WithTx(tx *gorm.DB) OutboxRepository
}

type outboxRepository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (or *outboxRepository) WithTx(tx *gorm.DB) OutboxRepository {
	return &outboxRepository{db: tx}
}

// RecordRegistration returns a hook that stores the registration event in
// the transaction inserting the user.
func RecordRegistration(repo OutboxRepository) func(ctx context.Context, tx *gorm.DB, u *model.User) error {
	return func(ctx context.Context, tx *gorm.DB, u *model.User) error {
		_, err := repo.WithTx(tx).UserRegistered(ctx, u)
		return err
	}
}

func (or *outboxRepository) GetEvent(ctx context.Context, eventId uuid.UUID) (model.OutboxEvent, error) {
	var event model.OutboxEvent
	result := or.db.WithContext(ctx).Where("event_id = ?", eventId.String()).Limit(1).Find(&event)
	if result.Error != nil {
		return event, result.Error
	}
	if result.RowsAffected == 0 {
		return event, ErrEventNotFound
	}
	return event, nil
}

// UserRegistered stores the registration as a pending event for the worker.
func (or *outboxRepository) UserRegistered(ctx context.Context, u *model.User) (uuid.UUID, error) {
	eventId, err := uuid.NewRandom()
	if err != nil {
		return eventId, err
	}
	userId, _ := u.Identity()

	payload, err := model.NewUserRegisteredEvent(eventId.String(), u).Serialize()
	if err != nil {
		return eventId, fmt.Errorf("serialize registration of user %d: %w", userId, err)
	}

	result := or.db.WithContext(ctx).Create(&model.OutboxEvent{
		EventId: eventId.String(),
		UserId:  userId,
		Payload: string(payload),
	})
	if result.Error != nil {
		return eventId, fmt.Errorf("store registration of user %d: %w", userId, result.Error)
	}
	return eventId, nil
}

func (or *outboxRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	query := or.db.WithContext(ctx).Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&events)
	return events, result.Error
}

// MarkEventAsProcessed soft deletes the event; processed events are hidden
// from every other query.
func (or *outboxRepository) MarkEventAsProcessed(ctx context.Context, eventId uuid.UUID) error {
	result := or.db.WithContext(ctx).Where("event_id = ?", eventId.String()).Delete(&model.OutboxEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// UpdateRetryValue records a failed delivery. Past MaxRetries the event is
// parked as processed and has to be looked into manually.
func (or *outboxRepository) UpdateRetryValue(ctx context.Context, eventId uuid.UUID) error {
	result := or.db.WithContext(ctx).
		Model(&model.OutboxEvent{}).
		Where("event_id = ?", eventId.String()).
		Update("retry", gorm.Expr("retry + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	event, err := or.GetEvent(ctx, eventId)
	if err != nil {
		return err
	}
	if event.Retry > MaxRetries {
		return or.MarkEventAsProcessed(ctx, eventId)
	}
	return nil
}
