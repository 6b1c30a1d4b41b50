package logger

import "sync"

type LoggerArg struct {
	Key   string
	Value string
}

type GlobalLoggerConfig struct {
	Args []LoggerArg
}

var (
	defaultLogger     *Logger
	onceLogger        sync.Once
	initializedLogger bool
)

func InitDefaultLogger(config GlobalLoggerConfig) {
	onceLogger.Do(func() {
		fields := make(map[string]string, len(config.Args))
		for _, arg := range config.Args {
			fields[arg.Key] = arg.Value
		}
		defaultLogger = New().WithFields(fields)

		initializedLogger = true
	})
}

func Default() *Logger {
	if !initializedLogger {
		panic("Default logger not initialized: call InitDefaultLogger() first")
	}
	return defaultLogger
}

// DefaultOr returns the default logger, or the result of fallback when it
// was never initialised.
func DefaultOr(fallback func() *Logger) *Logger {
	if !initializedLogger {
		return fallback()
	}
	return defaultLogger
}
