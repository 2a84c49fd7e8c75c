// Package cli provides the interactive AuthKeeper command-line client.
//
// It wires configuration, the local session database, the REST and gRPC
// clients and an interactive REPL. On start it resumes a saved session if
// its token has not expired, then probes the server's gRPC health service
// in the background to show whether it is online.
//
// Commands: register, login, profile, protected, logout, help, exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
