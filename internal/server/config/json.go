package config

import (
	"encoding/json"
	"os"

	"github.com/carTloyal123/shoppi/internal/flagx"
	"github.com/carTloyal123/shoppi/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds. Absent fields are nil
// and leave Config untouched.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	RedisAddr                   *string         `json:"redis_addr"`
	RedisPassword               *string         `json:"redis_password"`
	RedisDB                     *int            `json:"redis_db"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	AuthRateLimit               *float64        `json:"auth_rate_limit"`
	AuthRateBurst               *int            `json:"auth_rate_burst"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file given by the -c
// or -config flag. If neither is set, nothing is loaded. If the file cannot
// be read or contains invalid JSON, the function panics.
func parseJson(cfg *Config, args []string) {

	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&cfg.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&cfg.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&cfg.DatabaseDSN, c.DatabaseDSN)
	setIf(&cfg.RedisAddr, c.RedisAddr)
	setIf(&cfg.RedisPassword, c.RedisPassword)
	setIf(&cfg.RedisDB, c.RedisDB)
	setIf(&cfg.SecretKey, c.SecretKey)
	setIf(&cfg.AuthRateLimit, c.AuthRateLimit)
	setIf(&cfg.AuthRateBurst, c.AuthRateBurst)
	setIf(&cfg.LogLevel, c.LogLevel)
	if c.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
