package ledger

import (
	"github.com/iov-one/barter"
)

// AccountView is the query representation of a holding account.
type AccountView struct {
	Address barter.Address `json:"address"`
	Account
}

// RegisterQuery registers "/assets", returning the asset type of the queried
// ticker, "/accounts", returning the holding account stored under the queried
// address, and "/accounts/owner", returning all holding accounts of the
// queried owner.
func RegisterQuery(qr barter.QueryRouter) {
	ctrl := NewController()
	qr.Register("/assets", barter.QueryFunc(func(db barter.ReadOnlyKVStore, data []byte) (interface{}, error) {
		return ctrl.Asset(db, string(data))
	}))
	qr.Register("/accounts", barter.QueryFunc(func(db barter.ReadOnlyKVStore, data []byte) (interface{}, error) {
		addr := barter.Address(data)
		if err := addr.Validate(); err != nil {
			return nil, err
		}
		acc, err := ctrl.Account(db, addr)
		if err != nil {
			return nil, err
		}
		return AccountView{Address: data, Account: *acc}, nil
	}))
	qr.Register("/accounts/owner", barter.QueryFunc(func(db barter.ReadOnlyKVStore, data []byte) (interface{}, error) {
		addrs, err := ctrl.AccountsOf(db, data)
		if err != nil {
			return nil, err
		}
		res := make([]AccountView, 0, len(addrs))
		for _, a := range addrs {
			acc, err := ctrl.Account(db, a)
			if err != nil {
				return nil, err
			}
			res = append(res, AccountView{Address: a, Account: *acc})
		}
		return res, nil
	}))
}
