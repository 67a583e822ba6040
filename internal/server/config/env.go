package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is an intermediate DTO for environment parsing. Pointer fields
// distinguish "unset" from zero values so the overlay only touches what the
// environment actually provides.
type envConfig struct {
	EndpointAddrHTTP            *string        `env:"ADDRESS"`
	DatabaseDSN                 *string        `env:"DATABASE_DSN"`
	SecretKey                   *string        `env:"JWT_SECRET"`
	AccessTokenValidityDuration *time.Duration `env:"ACCESS_TOKEN_VALIDITY"`
	MaxLoginAttempts            *int           `env:"MAX_LOGIN_ATTEMPTS"`
	LockoutDuration             *time.Duration `env:"LOCKOUT_DURATION"`
	TenantHeaderName            *string        `env:"TENANT_HEADER"`
	ResetTokenValidityDuration  *time.Duration `env:"RESET_TOKEN_VALIDITY"`
	AppEmail                    *string        `env:"APP_EMAIL"`
}

func parseEnv(config *Config) error {
	e := &envConfig{}
	if err := env.Parse(e); err != nil {
		return fmt.Errorf("config env error: %w", err)
	}

	if e.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *e.EndpointAddrHTTP
	}
	if e.DatabaseDSN != nil {
		config.DatabaseDSN = *e.DatabaseDSN
	}
	if e.SecretKey != nil {
		config.SecretKey = *e.SecretKey
	}
	if e.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *e.AccessTokenValidityDuration
	}
	if e.MaxLoginAttempts != nil {
		config.MaxLoginAttempts = *e.MaxLoginAttempts
	}
	if e.LockoutDuration != nil {
		config.LockoutDuration = *e.LockoutDuration
	}
	if e.TenantHeaderName != nil {
		config.TenantHeaderName = *e.TenantHeaderName
	}
	if e.ResetTokenValidityDuration != nil {
		config.ResetTokenValidityDuration = *e.ResetTokenValidityDuration
	}
	if e.AppEmail != nil {
		config.AppEmail = *e.AppEmail
	}
	return nil
}
