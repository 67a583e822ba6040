package config

import (
	"encoding/json"
	"os"

	"github.com/tenauth/tenauth/internal/flagx"
)

// jsonConfig is an intermediate DTO for reading JSON configuration files.
// After unmarshalling, its fields are copied into the runtime Config.
type jsonConfig struct {
	EndpointAddrHTTP            string   `json:"endpoint_addr_http"`
	DatabaseDSN                 string   `json:"database_dsn"`
	SecretKey                   string   `json:"secret_key"`
	AccessTokenValidityDuration Duration `json:"access_token_validity_duration"`
	MaxLoginAttempts            int      `json:"max_login_attempts"`
	LockoutDuration             Duration `json:"lockout_duration"`
	TenantHeaderName            string   `json:"tenant_header_name"`
	ResetTokenValidityDuration  Duration `json:"reset_token_validity_duration"`
	AppEmail                    string   `json:"app_email"`
}

// parseJSON loads configuration from the JSON file named by the -c/-config
// flags. When no file is named, it is a no-op. An unreadable or invalid file
// panics: startup must not continue on a half-read configuration.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &jsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.MaxLoginAttempts != 0 {
		config.MaxLoginAttempts = c.MaxLoginAttempts
	}
	if c.LockoutDuration.Duration != 0 {
		config.LockoutDuration = c.LockoutDuration.Duration
	}
	if c.TenantHeaderName != "" {
		config.TenantHeaderName = c.TenantHeaderName
	}
	if c.ResetTokenValidityDuration.Duration != 0 {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	if c.AppEmail != "" {
		config.AppEmail = c.AppEmail
	}
}
