package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddr      = "AUTHKEEPER_HTTP_ADDR"
	EnvGRPCAddr      = "AUTHKEEPER_GRPC_ADDR"
	EnvDatabaseDSN   = "AUTHKEEPER_DATABASE_DSN"
	EnvStorage       = "AUTHKEEPER_STORAGE"
	EnvSecretKey     = "AUTHKEEPER_SECRET_KEY"
	EnvTokenValidity = "AUTHKEEPER_TOKEN_VALIDITY"
	EnvPasswordHash  = "AUTHKEEPER_PASSWORD_HASH"
	EnvBcryptCost    = "AUTHKEEPER_BCRYPT_COST"
	EnvLogLevel      = "AUTHKEEPER_LOG_LEVEL"
)

type lookupFunc func(key string) (string, bool)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return nil
}

// parseEnv overlays config with AUTHKEEPER_* variables.
func parseEnv(config *Config, lookup lookupFunc) error {
	str := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(&config.EndpointAddrHTTP, EnvHTTPAddr)
	str(&config.EndpointAddrGRPC, EnvGRPCAddr)
	str(&config.DatabaseDSN, EnvDatabaseDSN)
	str(&config.StorageType, EnvStorage)
	str(&config.SecretKey, EnvSecretKey)
	str(&config.PasswordHashAlgorithm, EnvPasswordHash)
	str(&config.LogLevel, EnvLogLevel)

	if v, ok := lookup(EnvTokenValidity); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvTokenValidity, err)
		}
		config.TokenValidityDuration = d
	}

	if v, ok := lookup(EnvBcryptCost); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvBcryptCost, err)
		}
		config.BcryptCost = n
	}

	return nil
}
