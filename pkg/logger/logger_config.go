package logger

import "github.com/rs/zerolog"

type LoggerConfigJson struct {
	LogLevel string `json:"log_level"`
}

type LoggerConfig struct {
	LogLevel zerolog.Level
}

// ConvertToDomain parses the textual level; an empty or unknown value leaves
// NoLevel so NewFromConfig falls back to info.
func (lcj LoggerConfigJson) ConvertToDomain() LoggerConfig {
	level, err := zerolog.ParseLevel(lcj.LogLevel)
	if err != nil {
		level = zerolog.NoLevel
	}
	return LoggerConfig{
		LogLevel: level,
	}
}
