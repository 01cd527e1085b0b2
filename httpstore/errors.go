package httpstore

import "errors"

var (
	// ErrInvalidEndpoint is returned by New when the endpoint is blank or
	// not an absolute URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrUnexpectedStatus is returned when the tenant service responds
	// with a status other than 200 or 404.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
