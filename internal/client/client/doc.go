// Package client contains client-side building blocks for AuthKeeper.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the AuthKeeper backend: Register, Login, Profile and Protected.
//  2. A concrete REST implementation (see HTTPClient) that encodes JSON
//     requests, attaches bearer tokens and maps HTTP status codes to
//     sentinel errors. Idempotent GET requests are retried with backoff
//     while the server is unreachable.
//  3. A liveness probe (see GRPCHealthClient) over the standard gRPC health
//     service.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrConflict, ErrBadRequest,
// ErrServer. The server's error message is appended to the wrapped error.
package client
