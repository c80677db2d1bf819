package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/hospital_backend/pkg/constants"
)

var GlobalConf *Config

// legacyEnv maps config keys to the bare variable names older deployments use.
var legacyEnv = map[string]string{
	"payment.frontend_url":      "FRONTEND_URL",
	"payment.stripe.secret_key": "STRIPE_SECRET_KEY",
}

func ReadConfig(configPath string) (*Config, error) {
	// .env is optional; values already present in the environment win.
	if err := godotenv.Load(filepath.Join(configPath, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// e.g. HOSPITAL_DATABASE_HOST overrides database.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, legacy := range legacyEnv {
		prefixed := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// The file is optional when everything comes from the environment.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "hospital")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.pool.max_open_conns", 10)
	v.SetDefault("database.pool.max_idle_conns", 2)
	v.SetDefault("database.pool.conn_max_lifetime_minutes", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("server.port", 4000)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", constants.EnvDevelopment)
	v.SetDefault("server.databases", []string{"hospital"})
	v.SetDefault("server.cors.enabled", true)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173", "http://localhost:5174"})
	v.SetDefault("server.cors.allow_credentials", true)
	v.SetDefault("server.rate_limit.max", 20)
	v.SetDefault("server.rate_limit.expiration_seconds", 30)

	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.issuer", "hospital_backend")
	v.SetDefault("authentication.paseto.audience", "hospital_frontend")
	v.SetDefault("authentication.paseto.access_ttl_minutes", 15)
	v.SetDefault("authentication.paseto.refresh_ttl_days", 30)
	v.SetDefault("authentication.session_ttl_minutes", 60*24*30)
	v.SetDefault("authentication.otp_ttl_minutes", 5)
	v.SetDefault("authentication.otp_max_attempts", 5)
	v.SetDefault("authentication.otp_resend_cooldown_seconds", 60)
	v.SetDefault("authentication.default_region", "IN")

	v.SetDefault("authorization.enabled", false)

	v.SetDefault("otp.default_length", 6)
	v.SetDefault("otp.min_length", 4)
	v.SetDefault("otp.max_length", 10)

	v.SetDefault("observability.service_name", constants.AppName)
	v.SetDefault("observability.service_version", "dev")
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output.stdout", true)

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.presign_ttl_sec", 300)
	v.SetDefault("s3.timeout_seconds", 15)

	v.SetDefault("payment.frontend_url", "")
	v.SetDefault("payment.currency", "inr")
	v.SetDefault("payment.timeout_seconds", 15)
	v.SetDefault("payment.stripe.secret_key", "")

	v.SetDefault("nats.url", "")
}
