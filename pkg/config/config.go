// Package config loads the process configuration from environment
// variables (and an optional .env file), struct-tag driven.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load loads cfg from the environment and returns any parse error instead
// of panicking.
func Load[T any](cfg T) error {
	_ = godotenv.Load()
	return env.Parse(cfg)
}

// Config is the full process configuration for the matching engine binary.
type Config struct {
	Pair string `env:"PAIR,required"`

	SnapshotInterval    time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"30s"`
	SnapshotOffsetDelta int64         `env:"SNAPSHOT_OFFSET_DELTA" envDefault:"1000"`

	FeeScheduleTrace bool `env:"FEE_SCHEDULE_TRACE" envDefault:"false"`

	Kafka KafkaConfig `envPrefix:"KAFKA_"`
	Redis RedisConfig `envPrefix:"REDIS_"`
}

// KafkaConfig configures the order-submission consumer and the
// trade-publication producer.
type KafkaConfig struct {
	Brokers    []string `env:"BROKER,required"`
	OrderTopic string   `env:"ORDER_TOPIC,required"`
	TradeTopic string   `env:"TRADE_TOPIC,required"`
	GroupID    string   `env:"GROUP_ID" envDefault:"matchcore"`
}

// RedisConfig configures the snapshot store.
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
