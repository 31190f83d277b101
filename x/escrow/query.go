package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/x/ledger"
)

// EscrowView is the query representation of an open escrow.
type EscrowView struct {
	Address barter.Address `json:"address"`
	EscrowState
	Vault  barter.Address `json:"vault"`
	Locked uint64         `json:"locked"`
}

// RegisterQuery registers "/escrows", returning the escrow stored under the
// queried address, and "/escrows/maker", returning all open escrows of the
// queried maker public key.
func RegisterQuery(qr barter.QueryRouter, bank ledger.Controller) {
	bucket := NewBucket()
	view := func(db barter.ReadOnlyKVStore, addr barter.Address) (*EscrowView, error) {
		if err := addr.Validate(); err != nil {
			return nil, err
		}
		e, err := bucket.Read(db, addr)
		if err != nil {
			return nil, err
		}
		vault := VaultAddress(addr, e.AssetA)
		locked, err := bank.Balance(db, vault)
		if err != nil {
			return nil, err
		}
		return &EscrowView{Address: addr, EscrowState: *e, Vault: vault, Locked: locked}, nil
	}

	qr.Register("/escrows", barter.QueryFunc(func(db barter.ReadOnlyKVStore, data []byte) (interface{}, error) {
		return view(db, data)
	}))
	qr.Register("/escrows/maker", barter.QueryFunc(func(db barter.ReadOnlyKVStore, data []byte) (interface{}, error) {
		addrs, err := bucket.ByMaker(db, data)
		if err != nil {
			return nil, err
		}
		res := make([]*EscrowView, 0, len(addrs))
		for _, a := range addrs {
			v, err := view(db, a)
			if err != nil {
				return nil, err
			}
			res = append(res, v)
		}
		return res, nil
	}))
}
