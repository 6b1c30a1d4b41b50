package main

import (
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/outbox"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/user"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rabbitmq"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"
)

const (
	defaultRestPort     = 9000
	defaultCorsOrigin   = "http://localhost:8081"
	InternalTokenEnvKey = "INTERNAL_API_TOKEN"
)

type RestConfigJson struct {
	Port          uint16 `json:"port"`
	CorsOrigin    string `json:"cors_origin"`
	InternalToken string `json:"internal_token"`
}

type RestConfig struct {
	Port          uint16
	CorsOrigin    string
	InternalToken string
}

func (rcj RestConfigJson) ConvertToDomain() RestConfig {
	cfg := RestConfig{
		Port:          rcj.Port,
		CorsOrigin:    rcj.CorsOrigin,
		InternalToken: utilities.EnvOr(InternalTokenEnvKey, rcj.InternalToken),
	}
	if cfg.Port == 0 {
		cfg.Port = defaultRestPort
	}
	if cfg.CorsOrigin == "" {
		cfg.CorsOrigin = defaultCorsOrigin
	}
	return cfg
}

type UserConfigJson struct {
	RegisterRetries *int `json:"register_retries"`
}

type UserConfig struct {
	RegisterRetries int
}

func (ucj UserConfigJson) ConvertToDomain() UserConfig {
	if ucj.RegisterRetries == nil {
		return UserConfig{RegisterRetries: user.DefaultRegisterRetries}
	}
	return UserConfig{RegisterRetries: *ucj.RegisterRetries}
}

type ApiConfigJson struct {
	LoggerConf   logger.LoggerConfigJson    `json:"logger"`
	RestConf     RestConfigJson             `json:"rest"`
	DatabaseConf database.ConfigJson        `json:"database"`
	RabbitmqConf rabbitmq.RabbimqConfigJson `json:"rabbitmq"`
	OutboxConf   outbox.OutboxConfigJson    `json:"outbox"`
	UserConf     UserConfigJson             `json:"user"`
}

type ApiConfig struct {
	LoggerConf   logger.LoggerConfig
	RestConf     RestConfig
	DatabaseConf database.Config
	RabbitmqConf rabbitmq.RabbitmqConfig
	OutboxConf   outbox.OutboxConfig
	UserConf     UserConfig
}

func (acj ApiConfigJson) ConvertToDomain() ApiConfig {
	return ApiConfig{
		LoggerConf:   acj.LoggerConf.ConvertToDomain(),
		RestConf:     acj.RestConf.ConvertToDomain(),
		DatabaseConf: acj.DatabaseConf.ConvertToDomain(),
		RabbitmqConf: acj.RabbitmqConf.ConvertToDomain(),
		OutboxConf:   acj.OutboxConf.ConvertToDomain(),
		UserConf:     acj.UserConf.ConvertToDomain(),
	}
}

func (ac ApiConfig) GetLoggerConfig() logger.LoggerConfig {
	return ac.LoggerConf
}

func (ac ApiConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig {
	return ac.RabbitmqConf
}

func (ac ApiConfig) GetRestApiPort() uint16 {
	return ac.RestConf.Port
}

func (ac ApiConfig) GetDatabaseConfig() database.Config {
	return ac.DatabaseConf
}
