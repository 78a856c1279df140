package fulfillment

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the API key is invalid
	ErrUnauthorized = errors.New("unauthorized: invalid API key")

	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrRequestFailed is returned for any other provider-side failure
	ErrRequestFailed = errors.New("provider request failed")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")
)
