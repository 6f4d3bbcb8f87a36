package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Deployment variables without the APP_ prefix
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("logging.level", "LOG_LEVEL", "APP_LOGGING_LEVEL")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("services.url", "SERVICES_URL", "APP_SERVICES_URL")
	v.BindEnv("recast.token", "RECAST_DEV_TOKEN", "APP_RECAST_TOKEN")
	v.BindEnv("google.api_key", "GOOGLE_API_KEY", "APP_GOOGLE_API_KEY")
	v.BindEnv("ibm.url", "IBM_TTS_URL", "APP_IBM_URL")
	v.BindEnv("ibm.username", "IBM_TTS_USERNAME", "APP_IBM_USERNAME")
	v.BindEnv("ibm.password", "IBM_TTS_PASSWORD", "APP_IBM_PASSWORD")
	v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	v.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "converse-gateway")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 5000)
	v.SetDefault("http.read_timeout", 30*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)
	v.SetDefault("http.body_limit", 10*1024*1024)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
	v.SetDefault("http.client_timeout", 15*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("recast.url", "https://api.recast.ai/build/v1")
	v.SetDefault("recast.token", "")
	v.SetDefault("google.url", "https://speech.googleapis.com")
	v.SetDefault("google.api_key", "")
	v.SetDefault("ibm.url", "")
	v.SetDefault("ibm.username", "")
	v.SetDefault("ibm.password", "")
	v.SetDefault("services.url", "")
	v.SetDefault("redis.url", "")

	v.SetDefault("cache.crypto_ttl", time.Minute)
	v.SetDefault("cache.news_ttl", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", time.Minute)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.path", "secret/data/converse")

	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", 60*time.Second)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 5)

	v.SetDefault("opentelemetry.enabled", false)
	v.SetDefault("opentelemetry.service_name", "converse-gateway")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")

	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.max_requests", 60)
	v.SetDefault("rate_limiting.window", time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.expose_headers", []string{"X-Result-JSON", "JSON", "X-Request-ID"})
}
