// Package auth holds the credential primitives of the server: signed
// session tokens (TokenService) and password hashers.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// tokenSegments is the number of '.'-separated parts of a compact JWS.
const tokenSegments = 3

var (
	ErrEmptySubject  = errors.New("token subject must not be empty")
	ErrEmptySecret   = errors.New("token secret must not be empty")
	ErrBadValidity   = errors.New("token validity must be positive")
	signingMethod    = jwt.SigningMethodHS256
	allowedAlgorithm = []string{signingMethod.Alg()}
	segmentEncoding  = base64.RawURLEncoding.Strict()
)

// TokenState is the outcome of validating a token.
type TokenState int

const (
	StateInvalid TokenState = iota
	StateValid
	StateExpired
)

func (s TokenState) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// ValidationResult carries the state of a validated token. Subject and
// ExpiresAt are filled for valid and expired tokens.
type ValidationResult struct {
	State     TokenState
	Subject   string
	ExpiresAt time.Time
}

// Err maps the state onto the common token errors. Expired tokens match both
// common.ErrInvalidToken and common.ErrTokenExpired.
func (r ValidationResult) Err() error {
	switch r.State {
	case StateValid:
		return nil
	case StateExpired:
		return fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
	default:
		return common.ErrInvalidToken
	}
}

// Token is an issued bearer token together with its decoded claims.
type Token struct {
	Raw       string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and validates HS256 tokens carrying a username subject.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	validity time.Duration
	parser   *jwt.Parser
	now      func() time.Time
}

// NewTokenService returns a TokenService signing with a private copy of secret.
func NewTokenService(secret []byte, validity time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if validity <= 0 {
		return nil, ErrBadValidity
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenService{
		secret:   key,
		validity: validity,
		// expiry is checked by Validate itself against s.now
		parser: jwt.NewParser(jwt.WithValidMethods(allowedAlgorithm), jwt.WithoutClaimsValidation()),
		now:    time.Now,
	}, nil
}

// Issue signs a new token for subject valid from now for the configured window.
func (s *TokenService) Issue(subject string) (*Token, error) {
	if subject == "" {
		return nil, ErrEmptySubject
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
	}

	raw, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}

	return &Token{
		Raw:       raw,
		Subject:   subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate runs the structural check, the signature check and the expiry
// check in that order. It never panics.
func (s *TokenService) Validate(raw string) (result ValidationResult) {
	defer func() {
		if recover() != nil {
			result = ValidationResult{State: StateInvalid}
		}
	}()

	if !wellFormed(raw) {
		return ValidationResult{State: StateInvalid}
	}

	claims := &jwt.RegisteredClaims{}
	token, err := s.parser.ParseWithClaims(raw, claims, s.key)
	if err != nil || !token.Valid {
		return ValidationResult{State: StateInvalid}
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return ValidationResult{State: StateInvalid}
	}

	result = ValidationResult{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}
	if !s.now().Before(claims.ExpiresAt.Time) {
		result.State = StateExpired
		return result
	}

	result.State = StateValid
	return result
}

// ExtractSubject returns the subject of a valid token. Expired tokens are
// rejected like any other invalid token.
func (s *TokenService) ExtractSubject(raw string) (string, error) {
	r := s.Validate(raw)
	if err := r.Err(); err != nil {
		return "", err
	}
	return r.Subject, nil
}

// ExtractExpiration returns the expiry of a valid token.
func (s *TokenService) ExtractExpiration(raw string) (time.Time, error) {
	r := s.Validate(raw)
	if err := r.Err(); err != nil {
		return time.Time{}, err
	}
	return r.ExpiresAt, nil
}

// IsValid reports whether raw is a well-formed, correctly signed, unexpired token.
func (s *TokenService) IsValid(raw string) bool {
	return s.Validate(raw).State == StateValid
}

func (s *TokenService) key(*jwt.Token) (any, error) {
	return s.secret, nil
}

// wellFormed checks the segment count and that every segment is non-empty
// canonical base64url, before anything reaches the signature primitive.
func wellFormed(raw string) bool {
	parts := strings.Split(raw, ".")
	if len(parts) != tokenSegments {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		if _, err := segmentEncoding.DecodeString(p); err != nil {
			return false
		}
	}
	return true
}
