package services

import (
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Outcome classifies the result of a credential operation.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeDuplicateIdentity
	OutcomeUnknownIdentity
	OutcomeInvalidCredentials
	OutcomeInvalidPassword
	OutcomeUnexpected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeDuplicateIdentity:
		return "duplicate_identity"
	case OutcomeUnknownIdentity:
		return "unknown_identity"
	case OutcomeInvalidCredentials:
		return "invalid_credentials"
	case OutcomeInvalidPassword:
		return "invalid_password"
	default:
		return "unexpected"
	}
}

// OutcomeOf maps an error returned by Register or Login to its Outcome.
// Anything outside the credential taxonomy is OutcomeUnexpected.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, common.ErrDuplicateIdentity):
		return OutcomeDuplicateIdentity
	case errors.Is(err, common.ErrUnknownIdentity):
		return OutcomeUnknownIdentity
	case errors.Is(err, common.ErrInvalidCredentials):
		return OutcomeInvalidCredentials
	case errors.Is(err, common.ErrInvalidPassword):
		return OutcomeInvalidPassword
	default:
		return OutcomeUnexpected
	}
}
