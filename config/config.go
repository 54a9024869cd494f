package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Realtime RealtimeConfig `yaml:"realtime"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type StoreConfig struct {
	// Backend selects where the ledger and journal documents live:
	// "file" (default) or "redis".
	Backend            string `yaml:"backend"`
	DataDir            string `yaml:"data_dir"`
	SaveTimeoutSeconds int    `yaml:"save_timeout_seconds"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	// EventsTopic enables the broadcast mirror when non-empty.
	EventsTopic string `yaml:"events_topic"`
}

type RealtimeConfig struct {
	HeartbeatSeconds int `yaml:"heartbeat_seconds"`
	ClientBuffer     int `yaml:"client_buffer"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "data"
	}
	if c.Store.SaveTimeoutSeconds <= 0 {
		c.Store.SaveTimeoutSeconds = 5
	}
	if c.Realtime.HeartbeatSeconds <= 0 {
		c.Realtime.HeartbeatSeconds = 30
	}
	if c.Realtime.ClientBuffer <= 0 {
		c.Realtime.ClientBuffer = 16
	}
}
