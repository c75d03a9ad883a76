package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	prev := Getenv
	Getenv = func(key string) string { return vars[key] }
	t.Cleanup(func() { Getenv = prev })
}

func baseEnv() map[string]string {
	return map[string]string{
		"REDIS_HOST":        "localhost",
		"REDIS_PORT":        "6379",
		"PSQL_HOST":         "db",
		"PSQL_PORT":         "5432",
		"PSQL_USER":         "pump",
		"PSQL_PASSWORD":     "secret",
		"PSQL_DB":           "waterpump",
		"S3_HOST":           "minio",
		"S3_PORT":           "9000",
		"S3_BUCKET":         "runs",
		"S3_ACCESS_KEY":     "ak",
		"S3_SECRET_KEY":     "sk",
		"RABBITMQ_USER":     "guest",
		"RABBITMQ_PASSWORD": "guest",
		"RABBITMQ_HOST":     "mq",
		"RABBITMQ_PORT":     "5672",
	}
}

func TestLoadWorkerDefaults(t *testing.T) {
	fakeEnv(t, baseEnv())

	cfg, err := LoadWorker()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "minio:9000", cfg.S3.Host)
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQURL)
	assert.Equal(t, 100, cfg.Analyzer.WindowSize)
	assert.Equal(t, 8, cfg.Analyzer.Concurrency)
}

func TestLoadGatewayOverrides(t *testing.T) {
	env := baseEnv()
	env["HTTP_ADDR"] = ":9090"
	env["ANALYZER_WINDOW_SIZE"] = "60"
	env["REDIS_DB"] = "2"
	fakeEnv(t, env)

	cfg, err := LoadGateway()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 60, cfg.WindowSize)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadRejectsBadWindow(t *testing.T) {
	for _, v := range []string{"0", "-3", "ten"} {
		env := baseEnv()
		env["ANALYZER_WINDOW_SIZE"] = v
		fakeEnv(t, env)

		_, err := LoadWorker()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "ANALYZER_WINDOW_SIZE")
	}
}

func TestLoadMissingVariable(t *testing.T) {
	env := baseEnv()
	delete(env, "PSQL_HOST")
	fakeEnv(t, env)

	_, err := LoadGateway()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PSQL_HOST")
}
