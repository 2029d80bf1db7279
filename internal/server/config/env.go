package config

import (
	"os"
	"time"
)

const (
	envPort        = "PORT"
	envGRPCAddress = "GRPC_ADDRESS"
	envDatabaseURL = "DATABASE_URL"
	envSecretKey   = "SECRET_KEY"
	envTokenTTL    = "TOKEN_TTL"
	envLogFormat   = "LOG_FORMAT"
)

// parseEnv overlays Config with environment variables. PORT is a bare port
// number and binds on all interfaces. A TOKEN_TTL that does not parse as a Go
// duration is ignored.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(envPort); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := os.LookupEnv(envGRPCAddress); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := os.LookupEnv(envDatabaseURL); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(envSecretKey); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(envTokenTTL); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv(envLogFormat); ok && v != "" {
		config.LogFormat = v
	}
}
