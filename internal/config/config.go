package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type App struct {
	Env             string `mapstructure:"env"`
	Port            int    `mapstructure:"port"`
	ShutdownSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

func (a App) Addr() string { return fmt.Sprintf(":%d", a.Port) }

func (a App) ShutdownTimeout() time.Duration {
	return time.Duration(a.ShutdownSeconds) * time.Second
}

type Mongo struct {
	URI string `mapstructure:"uri"`
	DB  string `mapstructure:"db"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type NATS struct {
	URL string `mapstructure:"url"`
}

type JWT struct {
	Secret     string `mapstructure:"secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

func (j JWT) TTL() time.Duration { return time.Duration(j.TTLMinutes) * time.Minute }

type Config struct {
	App   App   `mapstructure:"app"`
	Mongo Mongo `mapstructure:"mongo"`
	Redis Redis `mapstructure:"redis"`
	Kafka Kafka `mapstructure:"kafka"`
	NATS  NATS  `mapstructure:"nats"`
	JWT   JWT   `mapstructure:"jwt"`
}

// Load reads config.yaml (if present), then applies POSTFLOW_* environment
// overrides, e.g. POSTFLOW_MONGO_URI or POSTFLOW_JWT_SECRET.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("POSTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.shutdown_timeout_seconds", 10)
	v.SetDefault("mongo.db", "postflow")
	v.SetDefault("redis.prefix", "postflow")
	v.SetDefault("kafka.topic", "postflow.messages")
	v.SetDefault("jwt.ttl_minutes", 60)

	if err := v.ReadInConfig(); err != nil {
		// the file is optional, env vars can carry the whole config
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri missing")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret missing")
	}
	return nil
}
