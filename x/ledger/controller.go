package ledger

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

// Controller is the narrow interface other extensions use to move funds
// between holding accounts.
type Controller interface {
	// Transfer moves amount of asset from one holding account to another.
	// authority must be the condition owning the source account.
	Transfer(db barter.KVStore, from, to barter.Address, authority barter.Condition, amount uint64, asset Asset) error

	// CloseAccount removes an empty holding account. The released
	// storage size is returned and accounted to refundTo.
	CloseAccount(db barter.KVStore, account barter.Address, authority barter.Condition, refundTo barter.Address) (int, error)

	// ProvisionHoldingAccount returns the holding account of owner for
	// given asset, creating an empty one if it does not exist yet.
	ProvisionHoldingAccount(db barter.KVStore, owner barter.Address, asset Asset) (barter.Address, error)

	// Balance returns the balance of a holding account.
	Balance(db barter.ReadOnlyKVStore, account barter.Address) (uint64, error)

	// CheckAsset returns ErrAssetTypeMismatch unless the descriptor
	// matches a registered asset type.
	CheckAsset(db barter.ReadOnlyKVStore, asset Asset) error
}

// BaseController implements Controller on top of the asset and account
// buckets.
type BaseController struct {
	assets   orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default buckets.
func NewController() BaseController {
	return BaseController{
		assets:   NewAssetBucket(),
		accounts: NewAccountBucket(),
	}
}

// RegisterAsset stores a new asset type. Registering the same ticker twice
// fails with ErrAlreadyExists.
func (c BaseController) RegisterAsset(db barter.KVStore, asset Asset) error {
	if _, err := c.assets.Create(db, []byte(asset.Ticker), &asset); err != nil {
		return errors.Wrap(err, "cannot register asset")
	}
	return nil
}

func (c BaseController) CheckAsset(db barter.ReadOnlyKVStore, asset Asset) error {
	if err := asset.Validate(); err != nil {
		return errors.Wrap(ErrAssetTypeMismatch, err.Error())
	}
	var registered Asset
	switch err := c.assets.One(db, []byte(asset.Ticker), &registered); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(ErrAssetTypeMismatch, "%s is not registered", asset.Ticker)
	case err != nil:
		return err
	}
	if !registered.Equals(asset) {
		return errors.Wrapf(ErrAssetTypeMismatch, "%s has %d decimals, not %d",
			asset.Ticker, registered.Decimals, asset.Decimals)
	}
	return nil
}

// Asset returns the registered asset type with given ticker.
func (c BaseController) Asset(db barter.ReadOnlyKVStore, ticker string) (*Asset, error) {
	var a Asset
	if err := c.assets.One(db, []byte(ticker), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Account returns the holding account stored under given address.
func (c BaseController) Account(db barter.ReadOnlyKVStore, addr barter.Address) (*Account, error) {
	var acc Account
	if err := c.accounts.One(db, addr, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// AccountsOf returns the addresses of all holding accounts owned by owner.
func (c BaseController) AccountsOf(db barter.ReadOnlyKVStore, owner barter.Address) ([]barter.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	keys, err := c.accounts.IndexKeys(db, "owner", owner)
	if err != nil {
		return nil, err
	}
	res := make([]barter.Address, len(keys))
	for i, k := range keys {
		res[i] = k
	}
	return res, nil
}

func (c BaseController) Balance(db barter.ReadOnlyKVStore, account barter.Address) (uint64, error) {
	acc, err := c.Account(db, account)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (c BaseController) ProvisionHoldingAccount(db barter.KVStore, owner barter.Address, asset Asset) (barter.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if err := c.CheckAsset(db, asset); err != nil {
		return nil, err
	}
	addr := HoldingAddress(owner, asset.Ticker)
	ok, err := c.accounts.Has(db, addr)
	if err != nil {
		return nil, err
	}
	if ok {
		return addr, nil
	}
	acc := Account{Owner: owner, Ticker: asset.Ticker}
	if _, err := c.accounts.Create(db, addr, &acc); err != nil {
		return nil, errors.Wrap(err, "cannot create holding account")
	}
	return addr, nil
}

// Transfer moves funds, checking the asset type against the registry and
// both accounts. Nothing is written unless every check passes.
func (c BaseController) Transfer(db barter.KVStore, from, to barter.Address, authority barter.Condition, amount uint64, asset Asset) error {
	if err := c.CheckAsset(db, asset); err != nil {
		return err
	}

	src, err := c.Account(db, from)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrap(errors.ErrInsufficientFunds, "no source account")
	case err != nil:
		return errors.Wrap(err, "source")
	}
	if src.Ticker != asset.Ticker {
		return errors.Wrapf(ErrAssetTypeMismatch, "source holds %s, not %s", src.Ticker, asset.Ticker)
	}
	if authority == nil || !authority.Address().Equals(src.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "not the source account owner")
	}
	if src.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, need %d", src.Balance, amount)
	}

	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if dst.Ticker != asset.Ticker {
		return errors.Wrapf(ErrAssetTypeMismatch, "destination holds %s, not %s", dst.Ticker, asset.Ticker)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Balance+amount < dst.Balance {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	src.Balance -= amount
	dst.Balance += amount
	if _, err := c.accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "cannot save source")
	}
	if _, err := c.accounts.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "cannot save destination")
	}
	return nil
}

func (c BaseController) CloseAccount(db barter.KVStore, account barter.Address, authority barter.Condition, refundTo barter.Address) (int, error) {
	if err := refundTo.Validate(); err != nil {
		return 0, errors.Wrap(err, "refund destination")
	}
	acc, err := c.Account(db, account)
	if err != nil {
		return 0, err
	}
	if authority == nil || !authority.Address().Equals(acc.Owner) {
		return 0, errors.Wrap(errors.ErrUnauthorized, "not the account owner")
	}
	if acc.Balance != 0 {
		return 0, errors.Wrapf(ErrNonZeroBalance, "%d %s left", acc.Balance, acc.Ticker)
	}
	return c.accounts.Delete(db, account)
}

// Issue adds amount to the balance of an existing holding account. It is
// only used to initialize the state from genesis.
func (c BaseController) Issue(db barter.KVStore, account barter.Address, amount uint64) error {
	acc, err := c.Account(db, account)
	if err != nil {
		return err
	}
	if acc.Balance+amount < acc.Balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	acc.Balance += amount
	_, err = c.accounts.Put(db, account, acc)
	return err
}
