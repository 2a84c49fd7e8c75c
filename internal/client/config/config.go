package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the AuthKeeper CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the REST API.
//   - GRPCEndpointAddr: host:port of the gRPC endpoint, probed for liveness.
//   - RequestTimeout: per-request timeout for API calls.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LocalDBPath: SQLite file holding the saved session.
type Config struct {
	ServerEndpointAddr  string
	GRPCEndpointAddr    string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LocalDBPath         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.GRPCEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LocalDBPath = "authkeeper.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
