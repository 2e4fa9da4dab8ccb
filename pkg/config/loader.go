package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("CRFMS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without CRFMS_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "CRFMS_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "CRFMS_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "CRFMS_REDIS_URL")
	viper.BindEnv("nats.url", "NATS_URL", "CRFMS_NATS_URL")
	viper.BindEnv("rabbitmq.url", "RABBITMQ_URL", "CRFMS_RABBITMQ_URL")

	// Scope broker subjects per deployment so stacks can share a broker
	viper.SetDefault("nats.subject_prefix", "crfms")
	viper.SetDefault("rabbitmq.subject_prefix", "crfms")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "CRFMS_JWT_SECRET")
	viper.BindEnv("payment.stripe.secret_key", "STRIPE_SECRET_KEY")
	viper.BindEnv("payment.paypal.client_id", "PAYPAL_CLIENT_ID")
	viper.BindEnv("payment.paypal.secret", "PAYPAL_SECRET")
	viper.BindEnv("email.api_key", "SENDGRID_API_KEY")
	viper.BindEnv("app.environment", "CRFMS_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file is fine, env vars only
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
