// Package common defines sentinel errors shared by the repositories, services
// and transport layers of the diet service. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal    = errors.New("internal error")
	ErrorUnavailable = errors.New("service unavailable")

	// Session and identity errors.
	ErrorUnauthenticated    = errors.New("not found session")
	ErrorSessionExpired     = errors.New("expired session")
	ErrorUserNotFound       = errors.New("user not found")
	ErrorInvalidCredentials = errors.New("the password is incorrect")

	// Input errors.
	ErrorValidation = errors.New("validation error")
	ErrorDecryption = errors.New("decryption error")
)
