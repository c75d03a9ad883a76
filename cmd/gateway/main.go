package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/piolla/waterpump/internal/config"
	"github.com/piolla/waterpump/internal/controller/http/v1"
	"github.com/piolla/waterpump/internal/domain/entity"
	"github.com/piolla/waterpump/internal/domain/usecase"
	psqlRepo "github.com/piolla/waterpump/internal/repository/psql"
	"github.com/piolla/waterpump/internal/repository/rabbitmq"
	"github.com/piolla/waterpump/internal/repository/redis"
	"github.com/piolla/waterpump/internal/repository/s3"
	"github.com/piolla/waterpump/pkg/client/psql"
	redisGo "github.com/piolla/waterpump/pkg/client/redis"
	s3ClientGo "github.com/piolla/waterpump/pkg/client/s3"
	"github.com/piolla/waterpump/pkg/middleware"
)

const (
	runsExchange   = "runs.exchange"
	runsCreatedKey = "runs.created"
)

func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	r := gin.Default()
	r.Use(middleware.JWTAuthMiddleware())

	redisClient, err := redisGo.NewRedisClient(ctx, redisGo.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RedisClient: redisClient,
		Limit:       10,
		Window:      time.Second,
		KeyPrefix:   "rl:",
	})
	r.Use(rl)

	db, err := psql.NewPostgresDB(psql.Config{
		Host:     cfg.Postgres.Host,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		Port:     cfg.Postgres.Port,
		SslMode:  cfg.Postgres.SSLMode,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := db.AutoMigrate(&entity.Run{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	runRepo := psqlRepo.NewGormRunRepo(db)
	redisRepo := redis.NewRedisRepo(redisClient)

	s3Client, err := s3ClientGo.NewS3Client(cfg.S3.Host, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket)
	if err != nil {
		log.Fatalf("failed to init s3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		log.Fatalf("failed to prepare bucket: %v", err)
	}
	s3Repo := s3.NewS3Repo(s3Client)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	runPublisher, err := rabbitmq.NewRabbitPublisher(conn, runsExchange, runsCreatedKey)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer runPublisher.Close()

	uc := usecase.NewRunUseCase(redisRepo, s3Repo, runRepo, runPublisher, cfg.WindowSize)
	handler := v1.NewRunHandler(uc)
	handler.Register(r.Group("/api/v1"))

	log.WithField("addr", cfg.HTTPAddr).Info("Gateway service started")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}
