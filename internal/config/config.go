package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type NatsConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

type AuthConfig struct {
	MaxLoginAttempts     int64 `mapstructure:"max_login_attempts"`
	AttemptWindowSeconds int   `mapstructure:"attempt_window_seconds"`
}

type Config struct {
	App   AppConfig   `mapstructure:"app"`
	Mongo MongoConfig `mapstructure:"mongo"`
	Redis RedisConfig `mapstructure:"redis"`
	Kafka KafkaConfig `mapstructure:"kafka"`
	Nats  NatsConfig  `mapstructure:"nats"`
	JWT   JWTConfig   `mapstructure:"jwt"`
	Auth  AuthConfig  `mapstructure:"auth"`

	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`

	// derived
	TokenTTL       time.Duration
	AttemptWindow  time.Duration
	RequestTimeout time.Duration
}

// Load reads the yaml config at path, with APP_-prefixed environment
// variables taking precedence, and fills in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "sohbet"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "message.sent"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "sohbet-server"
	}
	if c.JWT.TTLMinutes == 0 {
		c.JWT.TTLMinutes = 24 * 60
	}
	if c.Auth.MaxLoginAttempts == 0 {
		c.Auth.MaxLoginAttempts = 5
	}
	if c.Auth.AttemptWindowSeconds == 0 {
		c.Auth.AttemptWindowSeconds = 300
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	c.TokenTTL = time.Duration(c.JWT.TTLMinutes) * time.Minute
	c.AttemptWindow = time.Duration(c.Auth.AttemptWindowSeconds) * time.Second
	c.RequestTimeout = 10 * time.Second
}
