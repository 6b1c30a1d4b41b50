package logger

import (
	"fmt"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities/timeutil"
	"github.com/rs/zerolog"
)

type SinkFunc func(msg string, level zerolog.Level, timestamp timeutil.TimeUTC)

func AddSinkToLoggerInstance(loggerInstance *Logger, sinkFunction SinkFunc) {
	loggerInstance.sink = sinkFunction
}

func (l *Logger) activateSinkFormatted(level zerolog.Level, format string, v ...interface{}) {
	if l.sink == nil {
		return
	}
	l.activateSink(level, fmt.Sprintf(format, v...))
}

func (l *Logger) activateSink(level zerolog.Level, msg string) {
	if l.sink != nil && level >= l.zl.GetLevel() {
		l.sink(msg, level, timeutil.NowUTC())
	}
}
