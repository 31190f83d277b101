package sigs

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
)

// RegisterQuery registers "/auth", returning the signing state of the
// queried public key. Unknown keys report sequence zero.
func RegisterQuery(qr barter.QueryRouter) {
	bucket := NewBucket()
	qr.Register("/auth", barter.QueryFunc(func(db barter.ReadOnlyKVStore, data []byte) (interface{}, error) {
		pubkey := crypto.PublicKey(data)
		if err := pubkey.Validate(); err != nil {
			return nil, err
		}
		return bucket.GetOrCreate(db, pubkey)
	}))
}
