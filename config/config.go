package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Engine   EngineConfig   `yaml:"engine"`
	Cache    CacheConfig    `yaml:"cache"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers        []string `yaml:"brokers"`
	RawOffersTopic string   `yaml:"raw_offers_topic"`
	ReportsTopic   string   `yaml:"reports_topic"`
	GroupID        string   `yaml:"group_id"`
	PublishRetries int      `yaml:"publish_retries"`
	// PublishBackoffMs is the wait after the first failed publish; later
	// waits grow linearly.
	PublishBackoffMs int `yaml:"publish_backoff_ms"`
}

func (c KafkaConfig) PublishBackoff() time.Duration {
	return time.Duration(c.PublishBackoffMs) * time.Millisecond
}

type EngineConfig struct {
	// Rules lists rule ids in evaluation order; empty selects the defaults.
	Rules                    []string `yaml:"rules"`
	PriceToleranceMinorUnits int      `yaml:"price_tolerance_minor_units"`
	MaxBatchConcurrency      int      `yaml:"max_batch_concurrency"`
}

type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type WorkerConfig struct {
	RetentionCron string `yaml:"retention_cron"`
	RetentionDays int    `yaml:"retention_days"`
}

func (w WorkerConfig) Retention() time.Duration {
	return time.Duration(w.RetentionDays) * 24 * time.Hour
}

func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		HTTP:   HTTPConfig{Address: ":8080", SwaggerDir: "api/swagger"},
		GRPC:   GRPCConfig{Address: ":9090"},
		Engine: EngineConfig{PriceToleranceMinorUnits: 1, MaxBatchConcurrency: 8},
		Kafka:  KafkaConfig{PublishRetries: 3, PublishBackoffMs: 500},
		Cache:  CacheConfig{TTLSeconds: 300},
		Worker: WorkerConfig{RetentionCron: "@every 1h", RetentionDays: 30},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Engine.MaxBatchConcurrency <= 0 {
		return nil, fmt.Errorf("engine.max_batch_concurrency must be positive, got %d", cfg.Engine.MaxBatchConcurrency)
	}
	if cfg.Engine.PriceToleranceMinorUnits < 0 {
		return nil, fmt.Errorf("engine.price_tolerance_minor_units must not be negative, got %d", cfg.Engine.PriceToleranceMinorUnits)
	}
	return &cfg, nil
}

// Path returns CONFIG_PATH or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
