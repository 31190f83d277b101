package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/ledger"
)

// AuthorityFor returns the condition owning the vault of the escrow stored
// under given address. There is no key for this condition, only the engine
// can act with it.
func AuthorityFor(escrow barter.Address) barter.Condition {
	return barter.NewCondition("escrow", "vault", escrow)
}

// VaultAddress returns the holding account address of the escrow vault.
func VaultAddress(escrow barter.Address, asset ledger.Asset) barter.Address {
	return ledger.HoldingAddress(AuthorityFor(escrow).Address(), asset.Ticker)
}

// vaultAuthority is the capability to move funds out of a single vault. It
// can only be obtained from a stored escrow whose address re-derives
// correctly.
type vaultAuthority struct {
	escrow barter.Address
	cond   barter.Condition
}

// authorityOf validates that e is the record stored under addr and returns
// the capability over its vault.
func authorityOf(addr barter.Address, e *EscrowState) (vaultAuthority, error) {
	derived, err := e.Address()
	if err != nil {
		return vaultAuthority{}, errors.Wrap(err, "cannot derive escrow address")
	}
	if !derived.Equals(addr) {
		return vaultAuthority{}, errors.Wrap(errors.ErrUnauthorized, "escrow address does not match its derivation")
	}
	return vaultAuthority{escrow: addr, cond: AuthorityFor(addr)}, nil
}

// Vault moves funds in and out of escrow vaults.
type Vault struct {
	ledger ledger.Controller
}

// NewVault returns a vault controller backed by given ledger.
func NewVault(l ledger.Controller) Vault {
	return Vault{ledger: l}
}

// Provision creates the empty vault holding account.
func (v Vault) Provision(db barter.KVStore, auth vaultAuthority, asset ledger.Asset) (barter.Address, error) {
	return v.ledger.ProvisionHoldingAccount(db, auth.cond.Address(), asset)
}

// Deposit moves funds from an account owned by authority into the vault.
func (v Vault) Deposit(db barter.KVStore, vault, from barter.Address, authority barter.Condition, amount uint64, asset ledger.Asset) error {
	return v.ledger.Transfer(db, from, vault, authority, amount, asset)
}

// Release moves funds out of the vault. It fails with ErrUnauthorized
// unless auth was obtained for the escrow owning the vault.
func (v Vault) Release(db barter.KVStore, vault, to barter.Address, amount uint64, asset ledger.Asset, auth vaultAuthority) error {
	if err := auth.controls(vault, asset); err != nil {
		return err
	}
	return v.ledger.Transfer(db, vault, to, auth.cond, amount, asset)
}

// Close removes an empty vault. The released storage is accounted to
// refundTo. Remaining funds are never swept, a vault holding funds fails with
// ledger.ErrNonZeroBalance.
func (v Vault) Close(db barter.KVStore, vault barter.Address, auth vaultAuthority, refundTo barter.Address) (int, error) {
	if auth.cond == nil {
		return 0, errors.Wrap(errors.ErrUnauthorized, "missing vault authority")
	}
	return v.ledger.CloseAccount(db, vault, auth.cond, refundTo)
}

// Balance returns the vault content.
func (v Vault) Balance(db barter.ReadOnlyKVStore, vault barter.Address) (uint64, error) {
	return v.ledger.Balance(db, vault)
}

func (a vaultAuthority) controls(vault barter.Address, asset ledger.Asset) error {
	if a.cond == nil || !VaultAddress(a.escrow, asset).Equals(vault) {
		return errors.Wrap(errors.ErrUnauthorized, "authority does not control this vault")
	}
	return nil
}
