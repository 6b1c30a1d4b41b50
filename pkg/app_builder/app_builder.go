package appbuilder

import (
	"fmt"
	"io"
	"os"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rabbitmq"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rest"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	ProfileEnvKey = "APP_PROFILE"
	EnvFileEnvKey = "APP_ENV_FILE"
)

type AppConfig interface {
	GetLoggerConfig() logger.LoggerConfig
	GetRabbitmqConfig() rabbitmq.RabbitmqConfig
	GetRestApiPort() uint16
}

type AppBuilder[T utilities.JsonConfigObj[U], U AppConfig] struct {
	Logger         *logger.Logger
	Config         U
	Profile        string
	Conn           *amqp.Connection
	workerServices []rabbitmq.WorkerService
	middlewares    []rest.Middleware
	routes         []rest.Route
	closers        []io.Closer
	engine         *gin.Engine
}

func New[T utilities.JsonConfigObj[U], U AppConfig]() *AppBuilder[T, U] {
	return &AppBuilder[T, U]{}
}

func (a *AppBuilder[T, U]) InitLogger(loggerArgs logger.GlobalLoggerConfig) *AppBuilder[T, U] {
	logger.InitDefaultLogger(loggerArgs)
	a.Logger = logger.Default()
	a.Logger.Info("Logger initialized")

	return a
}

// ResolveEnvironment loads the .env file (APP_ENV_FILE, default ".env") when
// present and picks the active profile from APP_PROFILE.
func (a *AppBuilder[T, U]) ResolveEnvironment() *AppBuilder[T, U] {
	envFile := utilities.EnvOr(EnvFileEnvKey, ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			a.Logger.Error(err, "Failed to load environment file")
			panic(err)
		}
		a.Logger.Debugf("No %s file, using process environment", envFile)
	}

	a.Profile = utilities.EnvOr(ProfileEnvKey, "")
	if a.Profile != "" {
		a.Logger.Infof("Active profile: %s", a.Profile)
	}
	return a
}

func (a *AppBuilder[T, U]) LoadConfig(filePath string) *AppBuilder[T, U] {
	a.Logger.Infof("Preparing to load config from %s ...", filePath)
	config, err := utilities.ReadConfigWithProfile[T, U](filePath, a.Profile)
	if err != nil {
		a.Logger.Error(err, "Failed to load config")
		panic(err)
	}

	a.Config = config
	if level := config.GetLoggerConfig().LogLevel; level != zerolog.NoLevel {
		a.Logger.WithLevel(level)
	}
	a.Logger.Info("Config successfully loaded.")
	return a
}

// WithOption runs an arbitrary wiring step against the builder.
func (a *AppBuilder[T, U]) WithOption(option func(a *AppBuilder[T, U])) *AppBuilder[T, U] {
	option(a)
	return a
}

func (a *AppBuilder[T, U]) InitRabbitmqConnection() *AppBuilder[T, U] {
	a.Logger.Info("Preparing to connect to Rabbitmq server...")
	conn, err := rabbitmq.ConnectToRabbitmq(a.Config.GetRabbitmqConfig())
	if err != nil {
		a.Logger.Error(err, "Could not connect to Rabbitmq")
		panic(err)
	}

	a.Conn = conn
	a.closers = append(a.closers, conn)
	a.Logger.Info("Connection with Rabbitmq server established")

	return a
}

func (a *AppBuilder[T, U]) InitRabbitmqRegistries() *AppBuilder[T, U] {
	a.Logger.Info("Initializing Rabbitmq registries from config")
	rabbitmqConf := a.Config.GetRabbitmqConfig()

	if err := rabbitmq.InitializePublisherRegistry(a.Conn, rabbitmqConf.PublishersConfig); err != nil {
		a.Logger.Error(err, "Could not initialize publisher registry")
		panic(err)
	}
	a.Logger.Info("Successfully initialized Rabbitmq registries from config")

	return a
}

func (a *AppBuilder[T, U]) AddWorkerServices(workerServices ...rabbitmq.WorkerService) *AppBuilder[T, U] {
	a.Logger.Info("Adding Worker Services to Application...")
	a.workerServices = append(a.workerServices, workerServices...)
	return a
}

func (a *AppBuilder[T, U]) AddGinMiddleware(middlewares ...rest.Middleware) *AppBuilder[T, U] {
	a.Logger.Info("Adding Gin middlewares to Application...")
	a.middlewares = append(a.middlewares, middlewares...)
	return a
}

func (a *AppBuilder[T, U]) AddGinRoutes(routes ...rest.Route) *AppBuilder[T, U] {
	a.Logger.Info("Adding Gin REST API routes to Application...")
	a.routes = append(a.routes, routes...)
	return a
}

// AddCloser registers a resource closed on shutdown, in reverse order of registration.
func (a *AppBuilder[T, U]) AddCloser(closers ...io.Closer) *AppBuilder[T, U] {
	a.closers = append(a.closers, closers...)
	return a
}

func (a *AppBuilder[T, U]) InitGinRouter() *AppBuilder[T, U] {
	a.Logger.Info("Initializing Gin Router...")
	router := gin.New()
	router.Use(gin.Recovery())

	a.Logger.Info("Registering REST API routes...")
	if err := rest.Register(router, a.middlewares, a.routes); err != nil {
		a.Logger.Error(err, "Could not register routes")
		panic(err)
	}

	a.engine = router
	a.Logger.Infof("Successfully registered %d REST API routes.", len(a.routes))
	return a
}

func (a *AppBuilder[T, U]) Build() ApplicationInterface {
	return &Application{
		Logger:         a.Logger,
		Addr:           fmt.Sprintf("0.0.0.0:%d", a.Config.GetRestApiPort()),
		WorkerServices: a.workerServices,
		Engine:         a.engine,
		Closers:        a.closers,
	}
}
