package rabbitmq

import (
	"fmt"
	"net/url"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"
)

type RabbimqConfigJson struct {
	Host             string                         `json:"host"`
	Port             uint16                         `json:"port"`
	User             string                         `json:"user"`
	Password         string                         `json:"password"`
	PublishersConfig []RabbitmqPublishersConfigJson `json:"publishers"`
}

type RabbitmqConfig struct {
	Host             string
	Port             uint16
	User             string
	Password         string
	PublishersConfig []RabbitmqPublishersConfig
}

func (rcj RabbimqConfigJson) ConvertToDomain() RabbitmqConfig {
	host := rcj.Host
	if host == "" {
		host = "rabbitmq"
	}
	port := rcj.Port
	if port == 0 {
		port = 5672
	}

	return RabbitmqConfig{
		Host:     host,
		Port:     port,
		User:     rcj.User,
		Password: rcj.Password,
		PublishersConfig: utilities.ConvertJsonArrayToDomain[
			RabbitmqPublishersConfigJson,
			RabbitmqPublishersConfig,
		](rcj.PublishersConfig),
	}
}

// URL renders the amqp connection string.
func (rc RabbitmqConfig) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(rc.User, rc.Password),
		Host:   fmt.Sprintf("%s:%d", rc.Host, rc.Port),
		Path:   "/",
	}
	return u.String()
}

type RabbitmqPublishersConfigJson struct {
	PublisherAlias string `json:"publisher_alias"`
	Exchange       string `json:"exchange"`
	RoutingKey     string `json:"routing_key"`
}

type RabbitmqPublishersConfig struct {
	PublisherAlias PublisherAlias
	Exchange       string
	RoutingKey     string
}

func (rpcj RabbitmqPublishersConfigJson) ConvertToDomain() RabbitmqPublishersConfig {
	return RabbitmqPublishersConfig{
		PublisherAlias: PublisherAlias(rpcj.PublisherAlias),
		Exchange:       rpcj.Exchange,
		RoutingKey:     rpcj.RoutingKey,
	}
}
