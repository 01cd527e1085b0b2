package memstore

import "errors"

// ErrInvalidConfig is returned when bulk population from configuration
// fails: a descriptor is missing a required field, two descriptors
// collide, or the configuration source cannot be read. The error text
// names the offending tenant.
var ErrInvalidConfig = errors.New("invalid tenant configuration")
