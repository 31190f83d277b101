package sigs

import (
	"github.com/iov-one/barter/errors"
)

// ErrInvalidSequence is returned when the signature sequence does not match
// the next expected value of the signer.
var ErrInvalidSequence = errors.Register(20, "invalid sequence number")
