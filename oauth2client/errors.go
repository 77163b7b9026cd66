package oauth2client

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the acquisition error types.
var (
	ErrNetwork    = errors.New("oauth2client: network error")
	ErrHTTPStatus = errors.New("oauth2client: unexpected HTTP status")
	ErrDecode     = errors.New("oauth2client: malformed token response")
)

// NetworkError reports a transport-level failure reaching the token endpoint.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("oauth2client: token request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// HTTPStatusError reports a non-2xx response from the token endpoint.
type HTTPStatusError struct {
	StatusCode int
	// Body holds a truncated copy of the response body, if any.
	Body string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("oauth2client: token endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("oauth2client: token endpoint returned status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrHTTPStatus }

// DecodeError reports a response body that could not be parsed into an AccessToken.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("oauth2client: decode token response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
