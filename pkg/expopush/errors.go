package expopush

import "errors"

var (
	// ErrDeviceNotRegistered means the token no longer maps to an installed
	// app. The caller should retire the token; the provider will keep
	// rejecting it.
	ErrDeviceNotRegistered = errors.New("device is not registered")

	// ErrInvalidCredentials means the provider rejected our access token.
	// Every send in the batch is expected to have failed the same way.
	ErrInvalidCredentials = errors.New("invalid push credentials")

	// ErrRateExceeded means the provider throttled the message.
	ErrRateExceeded = errors.New("message rate exceeded")

	ErrInvalidToken = errors.New("invalid push token")
)
