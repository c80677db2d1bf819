package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alijeyrad/hospital_backend/pkg/constants"
)

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Server.Environment {
	case constants.EnvDevelopment, constants.EnvStaging, constants.EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("server.environment %q is not one of development|staging|production", c.Server.Environment))
	}
	if c.Server.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("server.timeout_seconds must not be negative"))
	}

	switch c.Authentication.Paseto.Mode {
	case "local", "public":
	default:
		errs = append(errs, fmt.Errorf("authentication.paseto.mode %q is not one of local|public", c.Authentication.Paseto.Mode))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is unknown", c.Logging.Level))
	}

	if cur := c.Payment.Currency; cur != "" && len(cur) != 3 {
		errs = append(errs, fmt.Errorf("payment.currency %q must be a 3-letter ISO code", cur))
	}
	if c.Payment.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("payment.timeout_seconds must not be negative"))
	}
	if c.S3.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("s3.timeout_seconds must not be negative"))
	}

	return errors.Join(errs...)
}
