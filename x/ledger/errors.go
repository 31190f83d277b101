package ledger

import (
	"github.com/iov-one/barter/errors"
)

var (
	// ErrAssetTypeMismatch is returned when an account or an asset
	// descriptor does not match the registered asset type.
	ErrAssetTypeMismatch = errors.Register(30, "asset type mismatch")

	// ErrNonZeroBalance is returned when closing an account that still
	// holds funds.
	ErrNonZeroBalance = errors.Register(31, "non zero balance")
)
