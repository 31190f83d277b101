package escrow

import (
	"github.com/iov-one/barter/errors"
)

var (
	// ErrRecordMismatch is returned when the maker or the asset types
	// provided by a taker do not match the stored escrow.
	ErrRecordMismatch = errors.Register(40, "record mismatch")

	// ErrEscrowInsufficientFunds is returned when a taker cannot pay the
	// amount required by an escrow.
	ErrEscrowInsufficientFunds = errors.Register(41, "escrow insufficient funds")
)
