package main

import (
	"os"
	"time"

	"celebstyle-backend/pkg/container"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Config - phần cấu hình worker cần, lấy từ config chung của container
type Config struct {
	RedisOpt        asynq.RedisClientOpt
	Concurrency     int
	ShutdownTimeout time.Duration
	ReconcileCron   string
	HealthAddr      string
}

func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		RedisOpt:        c.RedisClientOpt(),
		Concurrency:     c.Config.Worker.Concurrency,
		ShutdownTimeout: c.Config.Worker.ShutdownTimeout,
		ReconcileCron:   c.Config.Worker.ReconcileCron,
		HealthAddr:      ":" + getEnv("WORKER_HEALTH_PORT", "9999"),
	}

	log.Info().
		Str("redis", cfg.RedisOpt.Addr).
		Int("concurrency", cfg.Concurrency).
		Str("reconcile_cron", cfg.ReconcileCron).
		Msg("[Config] Worker configuration loaded")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
