package outbox

import (
	"context"
	"sync"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

const outboxWorkerName = "OutboxCronWorker"

type OutboxWorker struct {
	publisher  rabbitmq.IRabbitmqPublisher
	repository OutboxRepository
	config     OutboxConfig
	cron       *cron.Cron

	mu      sync.Mutex
	stopped bool
	running sync.WaitGroup
}

func NewOutboxWorker(repository OutboxRepository, publisher rabbitmq.IRabbitmqPublisher, config OutboxConfig) *OutboxWorker {
	return &OutboxWorker{
		publisher:  publisher,
		repository: repository,
		config:     config,
		cron:       cron.New(),
	}
}

func (ow *OutboxWorker) GetServiceName() string {
	return outboxWorkerName
}

func (ow *OutboxWorker) StartService() {
	err := ow.cron.AddFunc(ow.config.Schedule, ow.runScheduled)
	if err != nil {
		logger.DefaultOr(logger.New).Errorf(err, "Could not add function to %s", outboxWorkerName)
		return
	}

	ow.cron.Start()
}

// StopService stops scheduling and waits for a batch in flight to finish.
func (ow *OutboxWorker) StopService() {
	ow.cron.Stop()

	ow.mu.Lock()
	ow.stopped = true
	ow.mu.Unlock()

	ow.running.Wait()
}

func (ow *OutboxWorker) runScheduled() {
	ow.mu.Lock()
	if ow.stopped {
		ow.mu.Unlock()
		return
	}
	ow.running.Add(1)
	ow.mu.Unlock()
	defer ow.running.Done()

	ow.ProcessOutboxEvents(context.Background())
}

// ProcessOutboxEvents publishes one batch of pending events and returns how
// many were delivered.
func (ow *OutboxWorker) ProcessOutboxEvents(ctx context.Context) int {
	outboxLogger := logger.DefaultOr(logger.New)

	events, err := ow.repository.GetUnprocessedEvents(ctx, ow.config.BatchSize)
	if err != nil {
		outboxLogger.Error(err, "Could not read events from database")
		return 0
	}

	published := 0
	for _, e := range events {
		eventId, err := uuid.Parse(e.EventId)
		if err != nil {
			outboxLogger.Errorf(err, "Malformed outbox event id %q", e.EventId)
			continue
		}

		if err := ow.publisher.Publish(e.Message()); err != nil {
			outboxLogger.Errorf(err, "Can't publish event %s to queue", e.EventId)
			if err := ow.repository.UpdateRetryValue(ctx, eventId); err != nil {
				outboxLogger.Errorf(err, "Could not update retry of event %s", e.EventId)
			}
			continue
		}

		if err := ow.repository.MarkEventAsProcessed(ctx, eventId); err != nil {
			outboxLogger.Errorf(err, "Could not mark event %s as processed", e.EventId)
			continue
		}
		published++
	}
	return published
}
