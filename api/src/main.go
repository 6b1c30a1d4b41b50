package main

import (
	builderextensions "github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/builder_extensions"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/middleware"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/outbox"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/user"
	appbuilder "github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/app_builder"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rabbitmq"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rest"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"
)

const (
	serviceName      = "users-api"
	configEnvKey     = "APP_CONFIG"
	logPublisherName = rabbitmq.PublisherAlias("LogPublisher")
)

type apiBuilder = appbuilder.AppBuilder[ApiConfigJson, ApiConfig]

func main() {
	appbuilder.New[ApiConfigJson, ApiConfig]().
		InitLogger(logger.GlobalLoggerConfig{
			Args: []logger.LoggerArg{{Key: "service", Value: serviceName}},
		}).
		ResolveEnvironment().
		LoadConfig(utilities.EnvOr(configEnvKey, "config.json")).

		// ----- RABBITMQ -----
		InitRabbitmqConnection().
		InitRabbitmqRegistries().
		WithOption(func(a *apiBuilder) {
			logSink := rabbitmq.CreateRabbitmqLoggerSink(serviceName, rabbitmq.GetPublisher(logPublisherName))
			logger.AddSinkToLoggerInstance(logger.Default(), logSink)
		}).

		// ----- DATABASE + USERS -----
		WithOption(func(a *apiBuilder) {
			stores := builderextensions.ConnectToDatabase(a)
			publisher := rabbitmq.GetPublisher(user.UserEventsPublisher)

			var repository user.Repository
			var sink user.EventSink
			if stores.Gorm != nil {
				// registration events commit with the user row
				outboxRepository := outbox.NewRepo(stores.Gorm)
				repository = builderextensions.NewUserRepository(stores,
					user.WithInsertHook(outbox.RecordRegistration(outboxRepository)))
				a.AddWorkerServices(outbox.NewOutboxWorker(outboxRepository, publisher, a.Config.OutboxConf))
			} else {
				repository = builderextensions.NewUserRepository(stores)
				sink = user.NewPublishingSink(publisher)
			}

			handler := user.Build(repository, sink, user.WithRegisterRetries(a.Config.UserConf.RegisterRetries))
			a.AddGinRoutes(user.Routes(handler)...)
		}).

		// ----- MIDDLEWARE -----
		WithOption(func(a *apiBuilder) {
			a.AddGinMiddleware(
				rest.NewMiddleware(rest.AllGroups, middleware.RequestLogger()),
				rest.NewMiddleware(rest.AllGroups, middleware.CORSMiddleware(a.Config.RestConf.CorsOrigin)),
				rest.NewMiddleware("v1/internal", middleware.InternalAuthMiddleware(a.Config.RestConf.InternalToken)),
			)
		}).
		InitGinRouter().
		Build().
		Start()
}
