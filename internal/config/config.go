package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Redis struct {
	Addr string
	DB   int
}

type Postgres struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type S3 struct {
	Host      string
	Bucket    string
	AccessKey string
	SecretKey string
}

type Analyzer struct {
	WindowSize  int
	Concurrency int
}

type Gateway struct {
	HTTPAddr    string
	Redis       Redis
	Postgres    Postgres
	S3          S3
	RabbitMQURL string
	WindowSize  int
}

type Worker struct {
	Redis       Redis
	Postgres    Postgres
	S3          S3
	RabbitMQURL string
	Analyzer    Analyzer
}

// Getenv reads a variable; it is swapped out in tests.
var Getenv = os.Getenv

func LoadGateway() (Gateway, error) {
	loadDotEnv()

	env := &reader{}
	analyzer := env.analyzer()
	cfg := Gateway{
		HTTPAddr:    env.withDefault("HTTP_ADDR", ":8080"),
		Redis:       env.redis(),
		Postgres:    env.postgres(),
		S3:          env.s3(),
		RabbitMQURL: env.rabbitMQURL(),
		WindowSize:  analyzer.WindowSize,
	}
	return cfg, env.err
}

func LoadWorker() (Worker, error) {
	loadDotEnv()

	env := &reader{}
	cfg := Worker{
		Redis:       env.redis(),
		Postgres:    env.postgres(),
		S3:          env.s3(),
		RabbitMQURL: env.rabbitMQURL(),
		Analyzer:    env.analyzer(),
	}
	return cfg, env.err
}

func loadDotEnv() {
	if err := godotenv.Load("./.env.local"); err != nil {
		log.Println("No .env file found. Falling back to OS environment variables.")
	}
}

// reader collects the first error so callers can read every key before checking.
type reader struct {
	err error
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) mustGetEnv(key string) string {
	val := Getenv(key)
	if val == "" {
		r.fail(fmt.Errorf("environment variable %s is not set", key))
	}
	return val
}

func (r *reader) withDefault(key, def string) string {
	if val := Getenv(key); val != "" {
		return val
	}
	return def
}

func (r *reader) atoi(key, val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		r.fail(fmt.Errorf("invalid %s value: %w", key, err))
	}
	return n
}

func (r *reader) positive(key, def string) int {
	n := r.atoi(key, r.withDefault(key, def))
	if n <= 0 {
		r.fail(fmt.Errorf("invalid %s value: must be positive, got %d", key, n))
	}
	return n
}

func (r *reader) redis() Redis {
	host := r.mustGetEnv("REDIS_HOST")
	port := r.mustGetEnv("REDIS_PORT")
	return Redis{
		Addr: host + ":" + port,
		DB:   r.atoi("REDIS_DB", r.withDefault("REDIS_DB", "0")),
	}
}

func (r *reader) postgres() Postgres {
	return Postgres{
		Host:     r.mustGetEnv("PSQL_HOST"),
		Port:     r.atoi("PSQL_PORT", r.mustGetEnv("PSQL_PORT")),
		User:     r.mustGetEnv("PSQL_USER"),
		Password: r.mustGetEnv("PSQL_PASSWORD"),
		DBName:   r.mustGetEnv("PSQL_DB"),
		SSLMode:  r.withDefault("PSQL_SSLMODE", "disable"),
	}
}

func (r *reader) s3() S3 {
	return S3{
		Host:      r.mustGetEnv("S3_HOST") + ":" + r.mustGetEnv("S3_PORT"),
		Bucket:    r.mustGetEnv("S3_BUCKET"),
		AccessKey: r.mustGetEnv("S3_ACCESS_KEY"),
		SecretKey: r.mustGetEnv("S3_SECRET_KEY"),
	}
}

func (r *reader) rabbitMQURL() string {
	user := r.mustGetEnv("RABBITMQ_USER")
	password := r.mustGetEnv("RABBITMQ_PASSWORD")
	host := r.mustGetEnv("RABBITMQ_HOST")
	port := r.mustGetEnv("RABBITMQ_PORT")
	return "amqp://" + user + ":" + password + "@" + host + ":" + port + "/"
}

func (r *reader) analyzer() Analyzer {
	return Analyzer{
		WindowSize:  r.positive("ANALYZER_WINDOW_SIZE", "100"),
		Concurrency: r.positive("ANALYZER_CONCURRENCY", "8"),
	}
}
