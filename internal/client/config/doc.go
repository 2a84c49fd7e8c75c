// Package config loads runtime configuration for the AuthKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-g string   address:port of the gRPC endpoint
//	-r int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-f string   local session database file
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "grpc_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "online_check_interval": "3s",
//	  "local_db_path": "authkeeper.db"
//	}
package config
