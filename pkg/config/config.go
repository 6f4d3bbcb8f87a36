package config

import (
	"errors"
	"time"
)

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Recast         RecastConfig         `mapstructure:"recast"`
	Google         GoogleConfig         `mapstructure:"google"`
	IBM            IBMConfig            `mapstructure:"ibm"`
	Services       ServicesConfig       `mapstructure:"services"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Vault          VaultConfig          `mapstructure:"vault"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	OpenTelemetry  OpenTelemetryConfig  `mapstructure:"opentelemetry"`
	RateLimiting   RateLimitingConfig   `mapstructure:"rate_limiting"`
	CORS           CORSConfig           `mapstructure:"cors"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	BodyLimit       int           `mapstructure:"body_limit"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// ClientTimeout bounds every outbound call to an external service.
	ClientTimeout time.Duration `mapstructure:"client_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RecastConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

type GoogleConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

type IBMConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ServicesConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type CacheConfig struct {
	CryptoTTL       time.Duration `mapstructure:"crypto_ttl"`
	NewsTTL         time.Duration `mapstructure:"news_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type VaultConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
	Path    string `mapstructure:"path"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

type OpenTelemetryConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	ServiceName string       `mapstructure:"service_name"`
	Jaeger      JaegerConfig `mapstructure:"jaeger"`
}

type JaegerConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type RateLimitingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
}

// Secret keys understood by ApplySecrets.
const (
	SecretRecastToken  = "recast_token"
	SecretGoogleAPIKey = "google_api_key"
	SecretIBMURL       = "ibm_url"
	SecretIBMUsername  = "ibm_username"
	SecretIBMPassword  = "ibm_password"
	SecretServicesURL  = "services_url"
)

// ApplySecrets overrides credentials with the non-empty values of secrets.
func (c *Config) ApplySecrets(secrets map[string]string) {
	targets := map[string]*string{
		SecretRecastToken:  &c.Recast.Token,
		SecretGoogleAPIKey: &c.Google.APIKey,
		SecretIBMURL:       &c.IBM.URL,
		SecretIBMUsername:  &c.IBM.Username,
		SecretIBMPassword:  &c.IBM.Password,
		SecretServicesURL:  &c.Services.URL,
	}
	for key, target := range targets {
		if value := secrets[key]; value != "" {
			*target = value
		}
	}
}

// Validate reports every missing external-service setting at once.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"services.url (SERVICES_URL)", c.Services.URL},
		{"recast.url", c.Recast.URL},
		{"recast.token (RECAST_DEV_TOKEN)", c.Recast.Token},
		{"google.url", c.Google.URL},
		{"google.api_key (GOOGLE_API_KEY)", c.Google.APIKey},
		{"ibm.url (IBM_TTS_URL)", c.IBM.URL},
		{"ibm.username (IBM_TTS_USERNAME)", c.IBM.Username},
		{"ibm.password (IBM_TTS_PASSWORD)", c.IBM.Password},
	}

	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, errors.New(r.name+" is required"))
		}
	}
	if c.HTTP.Port <= 0 {
		errs = append(errs, errors.New("http.port must be positive"))
	}
	return errors.Join(errs...)
}
