package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName  string
	Server       ServerConfig
	Database     DatabaseConfig
	Log          LogConfig
	Order        OrderConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Notification NotificationConfig
	Telemetry    TelemetryConfig
}

type ServerConfig struct {
	Port     int
	GRPCPort int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
}

type LogConfig struct {
	Level string
}

type OrderConfig struct {
	ReservationTxTimeout time.Duration
	MaxRetryAttempts     int
	PaymentGuardTTL      time.Duration
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	SummaryCacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
}

type NotificationConfig struct {
	Workers   int
	QueueSize int
}

type TelemetryConfig struct {
	ExporterEndpoint string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVICE_NAME", "supplyhub")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("GRPC_PORT", 9090)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "supplyhub")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "supplyhub")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ORDER_RESERVATION_TX_TIMEOUT", "5s")
	viper.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("PAYMENT_GUARD_TTL", "24h")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SUMMARY_CACHE_TTL", "30s")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_NOTIFICATION_TOPIC", "order-notifications")
	viper.SetDefault("NOTIFICATION_WORKERS", 4)
	viper.SetDefault("NOTIFICATION_QUEUE_SIZE", 256)
	viper.SetDefault("OTEL_EXPORTER_ENDPOINT", "")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}
	txTimeout, err := time.ParseDuration(viper.GetString("ORDER_RESERVATION_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	guardTTL, err := time.ParseDuration(viper.GetString("PAYMENT_GUARD_TTL"))
	if err != nil {
		return nil, err
	}
	summaryTTL, err := time.ParseDuration(viper.GetString("SUMMARY_CACHE_TTL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServiceName: viper.GetString("SERVICE_NAME"),
		Server: ServerConfig{
			Port:     viper.GetInt("SERVER_PORT"),
			GRPCPort: viper.GetInt("GRPC_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			Migrate:         viper.GetBool("DB_MIGRATE"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Order: OrderConfig{
			ReservationTxTimeout: txTimeout,
			MaxRetryAttempts:     viper.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
			PaymentGuardTTL:      guardTTL,
		},
		Redis: RedisConfig{
			Addr:            viper.GetString("REDIS_ADDR"),
			Password:        viper.GetString("REDIS_PASSWORD"),
			DB:              viper.GetInt("REDIS_DB"),
			SummaryCacheTTL: summaryTTL,
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(viper.GetString("KAFKA_BROKERS")),
			NotificationTopic: viper.GetString("KAFKA_NOTIFICATION_TOPIC"),
		},
		Notification: NotificationConfig{
			Workers:   viper.GetInt("NOTIFICATION_WORKERS"),
			QueueSize: viper.GetInt("NOTIFICATION_QUEUE_SIZE"),
		},
		Telemetry: TelemetryConfig{
			ExporterEndpoint: viper.GetString("OTEL_EXPORTER_ENDPOINT"),
		},
	}

	if cfg.Order.MaxRetryAttempts < 1 {
		cfg.Order.MaxRetryAttempts = 1
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
