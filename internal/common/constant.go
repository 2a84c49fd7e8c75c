// Package common contains shared constants and sentinel errors used across
// AuthKeeper components.
package common

// AuthorizationHeaderName is the HTTP header / gRPC metadata key used to carry
// the bearer token on protected requests.
const AuthorizationHeaderName = "authorization"

// BearerScheme is the auth scheme prefix expected in AuthorizationHeaderName.
const BearerScheme = "Bearer"
