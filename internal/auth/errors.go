package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for the token lifecycle. Matched with errors.Is.
var (
	// ErrNotAuthenticated indicates no refresh token is present. The user must
	// sign in before any token can be produced.
	ErrNotAuthenticated = errors.New("not authenticated, run 'squads auth login' first")

	// ErrAuthorizationPending indicates the user has not yet completed
	// device-code sign-in. Recoverable: keep polling.
	ErrAuthorizationPending = errors.New("authorization pending")

	// ErrAuthorizationDenied indicates the user declined the sign-in request.
	ErrAuthorizationDenied = errors.New("authorization denied by user")

	// ErrAuthorizationTimeout indicates the polling attempt budget was
	// exhausted before the user completed sign-in.
	ErrAuthorizationTimeout = errors.New("authorization timed out, restart login")
)

// ExchangeError reports a failed network exchange with the identity platform.
// Covers device-code issuance, refresh renewal, scope exchange and skype
// derivation; Op names the failing exchange.
type ExchangeError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates a 2xx provider response was missing an
// expected field. The raw body is retained for diagnosis.
type MalformedResponseError struct {
	Op    string
	Field string
	Body  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: no %s in response: %s", e.Op, e.Field, e.Body)
}
