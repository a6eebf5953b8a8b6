package apperr

import "errors"

// ErrInvalidInput is returned when a domain, selector or record name fails
// validation before any query is made.
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned by HTTP-based transports when the request fails
// at the transport level or the server responds with a non-2xx status code.
var ErrRequestFailed = errors.New("request failed")

// ErrCheckFailed is returned by the check command when at least one key
// could not be validated. Individual failures are reported in the output.
var ErrCheckFailed = errors.New("one or more DKIM key checks failed")
