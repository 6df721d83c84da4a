package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carerota/backend/config"
	"github.com/carerota/backend/internal/domain"
	"github.com/carerota/backend/internal/domain/delivery"
	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/authenticator"
	"github.com/carerota/backend/pkg/expopush"
	"github.com/carerota/backend/pkg/kafka"
	"github.com/carerota/backend/pkg/logger"
	"github.com/carerota/backend/pkg/pubsub"
	"github.com/carerota/backend/pkg/redis"
	"github.com/carerota/backend/pkg/router"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	userRepo         repository.UserRepository
	organizationRepo repository.OrganizationRepository
	memberRepo       repository.MemberRepository
	deviceTokenRepo  repository.DeviceTokenRepository
	notificationRepo repository.NotificationRepository

	chatRegistry      *delivery.Registry
	tasksRegistry     *delivery.Registry
	timesheetRegistry *delivery.Registry

	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber

	relay        *delivery.Relay
	orchestrator *delivery.Orchestrator

	chatDomain         domain.ChatDomain
	shiftDomain        domain.ShiftDomain
	timesheetDomain    domain.TimesheetDomain
	notificationDomain domain.NotificationDomain
	deviceDomain       domain.DeviceDomain
	joinRequestDomain  domain.JoinRequestDomain
	socketDomain       domain.SocketDomain

	router *router.Router
	server *http.Server
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return d
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "carerota"),
			User:     getEnv("MYSQL_USER", "carerota"),
			Password: getEnv("MYSQL_PASSWORD", "carerota"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", ""),
			Port: getEnv("API_PORT", "8080"),
		},
		SocketServer: config.ServerConfigs{
			Host: getEnv("SOCKET_HOST", ""),
			Port: getEnv("SOCKET_PORT", "8081"),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "24h")),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDR", "localhost:9092"),
		},
		Push: config.PushConfigs{
			Endpoint:    getEnv("PUSH_ENDPOINT", ""),
			AccessToken: getEnv("PUSH_ACCESS_TOKEN", ""),
			Timeout:     parseDuration(getEnv("PUSH_TIMEOUT", "10s")),
		},
		Notification: config.NotificationConfigs{
			BatchWindow: parseDuration(getEnv("NOTIFICATION_BATCH_WINDOW", "10s")),
			Broker:      getEnv("NOTIFICATION_BROKER", ""),
			RelayTopic:  getEnv("NOTIFICATION_RELAY_TOPIC", "delivery-relay"),
			InstanceID:  getEnv("NOTIFICATION_INSTANCE_ID", uuid.NewString()),
		},
	}
}

func (s *srv) loadLogger() {
	level, err := strconv.Atoi(getEnv("LOG_LEVEL", "1"))
	if err != nil {
		panic(err)
	}

	s.logger = logger.NewLoggerWithLevel(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

// newContext assembles the base context every request and background job
// derives from.
func (s *srv) newContext() context.Context {
	node, err := snowflake.NewNode(int64(os.Getpid() % 1024))
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine[model.AccessToken](
		s.configs.Auth.TokenSecret, s.configs.Auth.AccessToken))
	return ctx
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.organizationRepo = repository.NewOrganizationRepository()
	s.memberRepo = repository.NewMemberRepository()
	s.deviceTokenRepo = repository.NewDeviceTokenRepository()
	s.notificationRepo = repository.NewNotificationRepository()
}

func (s *srv) loadPubsub() {
	handler := func(ctx context.Context, pack *pubsub.Pack, t time.Time) {
		s.relay.HandleRelay(s.ctx, pack, t)
	}

	switch s.configs.Notification.Broker {
	case "redis":
		client := redis.NewClient(s.configs.Redis.Addr)
		s.publisher = redis.NewPublisher(client)
		s.subscriber = redis.NewSubscriber(client,
			[]string{s.configs.Notification.RelayTopic}, handler)

	case "kafka":
		s.publisher = kafka.NewPublisher(s.configs.Notification.InstanceID,
			[]string{s.configs.Kafka.Addr})
		s.subscriber = kafka.NewSubscriber(
			// Every instance consumes the whole relay stream, so each one
			// joins its own group.
			"relay-"+s.configs.Notification.InstanceID,
			[]string{s.configs.Kafka.Addr},
			[]string{s.configs.Notification.RelayTopic},
			handler,
		)

	default:
		// Single-instance deployment, local delivery only.
	}
}

func (s *srv) loadDelivery() {
	s.chatRegistry = delivery.NewRegistry(delivery.ChatChannel)
	s.tasksRegistry = delivery.NewRegistry(delivery.TasksChannel)
	s.timesheetRegistry = delivery.NewRegistry(delivery.TimesheetChannel)

	s.relay = delivery.NewRelay(s.ctx, s.publisher,
		s.chatRegistry, s.tasksRegistry, s.timesheetRegistry)

	provider := expopush.NewClient(
		s.configs.Push.Endpoint, s.configs.Push.AccessToken, s.configs.Push.Timeout)
	dispatcher := delivery.NewPushDispatcher(provider, s.deviceTokenRepo)
	recorder := delivery.NewHistoryRecorder(s.notificationRepo)
	batcher := delivery.NewBatcher(s.ctx, dispatcher, recorder)

	s.orchestrator = delivery.NewOrchestrator(
		s.relay, batcher, dispatcher, recorder, s.memberRepo)
}

func (s *srv) loadDomains() {
	s.chatDomain = domain.NewChatDomain(s.userRepo, s.memberRepo, s.orchestrator)
	s.shiftDomain = domain.NewShiftDomain(s.userRepo, s.organizationRepo, s.memberRepo, s.orchestrator)
	s.timesheetDomain = domain.NewTimesheetDomain(s.memberRepo, s.orchestrator)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo, s.memberRepo)
	s.deviceDomain = domain.NewDeviceDomain(s.deviceTokenRepo)
	s.joinRequestDomain = domain.NewJoinRequestDomain(
		s.userRepo, s.organizationRepo, s.memberRepo, s.orchestrator)
	s.socketDomain = domain.NewSocketDomain(
		s.chatRegistry, s.tasksRegistry, s.timesheetRegistry,
		s.chatDomain, s.timesheetDomain)
}
