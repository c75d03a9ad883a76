package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/piolla/waterpump/internal/config"
	"github.com/piolla/waterpump/internal/domain/usecase"
	psqlRepo "github.com/piolla/waterpump/internal/repository/psql"
	"github.com/piolla/waterpump/internal/repository/rabbitmq"
	"github.com/piolla/waterpump/internal/repository/redis"
	"github.com/piolla/waterpump/internal/repository/s3"
	"github.com/piolla/waterpump/pkg/client/psql"
	redisGo "github.com/piolla/waterpump/pkg/client/redis"
	s3ClientGo "github.com/piolla/waterpump/pkg/client/s3"
)

const (
	runsExchange     = "runs.exchange"
	runsCreatedKey   = "runs.created"
	runsCreatedQueue = "runs.created.q"
	runsCompletedKey = "runs.completed"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	redisClient, err := redisGo.NewRedisClient(ctx, redisGo.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	summaryCache := redis.NewRedisRepo(redisClient)

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
	runRepo := psqlRepo.NewGormRunRepo(db)

	s3Client, err := s3ClientGo.NewS3Client(cfg.S3.Host, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket)
	if err != nil {
		log.Fatalf("failed to init s3 client: %v", err)
	}
	s3Repo := s3.NewS3Repo(s3Client)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	completedPublisher, err := rabbitmq.NewRabbitPublisher(conn, runsExchange, runsCompletedKey)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer completedPublisher.Close()

	analysisUC := usecase.NewAnalysisUseCase(runRepo, s3Repo, summaryCache, completedPublisher,
		cfg.Analyzer.WindowSize, cfg.Analyzer.Concurrency)

	consumer, err := rabbitmq.NewRunConsumer(conn, runsExchange, runsCreatedKey, runsCreatedQueue, analysisUC)
	if err != nil {
		log.Fatalf("failed to init consumer: %v", err)
	}

	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Fatalf("consumer stopped with error: %v", err)
		}
	}()

	log.WithFields(log.Fields{
		"window_size": cfg.Analyzer.WindowSize,
		"concurrency": cfg.Analyzer.Concurrency,
	}).Info("Worker service started")
	<-sigCh
	log.Println("Shutting down worker service...")
	cancel()
	time.Sleep(time.Second)
}
