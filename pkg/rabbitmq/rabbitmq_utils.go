package rabbitmq

import (
	"math"
	"time"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const maxConnectRetries = 7

// WorkerService is a long running background component started by the application.
type WorkerService interface {
	GetServiceName() string
	StartService()
	StopService()
}

func ConnectToRabbitmq(config RabbitmqConfig) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	waitTime := 1 * time.Second

	queueLogger := logger.Default()

	for i := 0; i < maxConnectRetries; i++ {
		conn, err = amqp.Dial(config.URL())
		if err == nil {
			return conn, nil
		}
		queueLogger.Warnf("Attempt %d failed: %v. Retrying in %v...", i+1, err, waitTime)
		time.Sleep(waitTime)
		waitTime = time.Duration(math.Pow(2, float64(i+1))) * time.Second
	}
	return nil, err
}
