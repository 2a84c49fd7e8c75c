package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-m", "-s", "-t", "-h", "-b", "-l"}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-m string   storage type: postgres | memory
//	-s string   token HMAC secret key
//	-t int      token validity, minutes
//	-h string   password hash algorithm: bcrypt | argon2id
//	-b int      bcrypt cost
//	-l string   log level
//
// Arguments are filtered through flagx.FilterArgs first, so flags owned by
// other components (-c) do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run REST API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageType, "m", config.StorageType, "storage type (postgres|memory)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")

	fs.StringVar(&config.PasswordHashAlgorithm, "h", config.PasswordHashAlgorithm, "password hash algorithm (bcrypt|argon2id)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	// only override when -t was given, so sub-minute values from JSON or env survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})

	return nil
}
