package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database     DatabaseConfigs
	ApiServer    ServerConfigs
	SocketServer ServerConfigs
	Auth         AuthConfigs
	Redis        RedisConfigs
	Kafka        KafkaConfigs
	Push         PushConfigs
	Notification NotificationConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

type PushConfigs struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration
}

type NotificationConfigs struct {
	// BatchWindow is the fixed delay between the first enqueued shift event
	// and the flush that drains all pending batches.
	BatchWindow time.Duration

	// Broker selects the relay transport between socket instances. Either
	// "redis" or "kafka". Leave empty to disable the relay.
	Broker     string
	RelayTopic string

	// InstanceID distinguishes this process in relay envelopes so it can
	// ignore events it published itself.
	InstanceID string
}
