package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/dmitrijs2005/contactkeeper/internal/flagx"
	"github.com/dmitrijs2005/contactkeeper/internal/timex"
)

// configFileKey is the environment fallback for -c/-config.
const configFileKey = "CMS_CONFIG"

// JsonConfig is the on-disk shape of the configuration file. Every field is
// optional: absent keys keep the value from the previous layer, so an
// explicit "" can still clear a setting such as the gRPC address.
// Durations accept "24h" as well as integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      *string         `json:"endpoint_addr_grpc"`
	DatabaseDriver        *string         `json:"database_driver"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	PasswordHashAlgorithm *string         `json:"password_hash_algorithm"`
	PasswordHashCost      *int            `json:"password_hash_cost"`
	AllowedOrigins        []string        `json:"allowed_origins"`
	Development           *bool           `json:"development"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into config.
//
// The file path comes from the -c or -config flag, falling back to the
// CMS_CONFIG environment variable. With neither set nothing is loaded.
func parseJson(config *Config) error {

	jsonConfigFile := flagx.ConfigFile(configFileKey)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	c.applyTo(config)
	return nil
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PasswordHashAlgorithm, c.PasswordHashAlgorithm)
	setString(&config.LogLevel, c.LogLevel)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.PasswordHashCost != nil {
		config.PasswordHashCost = *c.PasswordHashCost
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.Development != nil {
		config.Development = *c.Development
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// splitList parses a comma separated list, dropping empty items.
func splitList(s string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
