package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x"
	"github.com/iov-one/barter/x/ledger"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r barter.Registry, auth x.Authenticator, bank ledger.Controller) {
	bucket := NewBucket()
	vault := NewVault(bank)

	r.Handle(pathOpenMsg, OpenHandler{auth, bucket, vault, bank})
	r.Handle(pathSettleMsg, SettleHandler{auth, bucket, vault, bank})
	r.Handle(pathCancelMsg, CancelHandler{auth, bucket, vault})
}

// OpenHandler creates an escrow and funds its vault.
type OpenHandler struct {
	auth   x.Authenticator
	bucket Bucket
	vault  Vault
	bank   ledger.Controller
}

var _ barter.Handler = OpenHandler{}

// Check verifies the maker signed the message and the seed is not in use.
func (h OpenHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{}, nil
}

// Deliver stores the escrow, provisions its vault and deposits the maker
// funds. The escrow address is returned as data.
func (h OpenHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, addr, bump, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	escrow := &EscrowState{
		Seed:           msg.Seed,
		Maker:          msg.Maker,
		AssetA:         msg.AssetA,
		AssetB:         msg.AssetB,
		AmountRequired: msg.AmountRequired,
		Bump:           uint32(bump),
	}
	size, err := h.bucket.Create(db, addr, escrow)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	auth, err := authorityOf(addr, escrow)
	if err != nil {
		return nil, err
	}
	vault, err := h.vault.Provision(db, auth, msg.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "cannot provision vault")
	}
	makerA := ledger.HoldingAddress(msg.Maker.Address(), msg.AssetA.Ticker)
	if err := h.vault.Deposit(db, vault, makerA, msg.Maker.Condition(), msg.DepositAmount, msg.AssetA); err != nil {
		return nil, errors.Wrap(err, "cannot deposit")
	}

	barter.GetLogger(ctx).Info("escrow opened",
		"escrow", addr,
		"maker", msg.Maker,
		"seed", msg.Seed,
		"deposit", msg.DepositAmount,
		"asset_a", msg.AssetA,
		"required", msg.AmountRequired,
		"asset_b", msg.AssetB,
		"size", size)
	return &barter.DeliverResult{Data: addr}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h OpenHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*OpenMsg, barter.Address, uint8, error) {
	var msg OpenMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Maker.Address(), "maker"); err != nil {
		return nil, nil, 0, err
	}
	if err := h.bank.CheckAsset(db, msg.AssetB); err != nil {
		return nil, nil, 0, errors.Wrap(err, "asset b")
	}
	addr, bump, err := DeriveAddress(msg.Maker, msg.Seed)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "cannot derive escrow address")
	}
	switch ok, err := h.bucket.Has(db, addr); {
	case err != nil:
		return nil, nil, 0, err
	case ok:
		return nil, nil, 0, errors.Wrapf(errors.ErrAlreadyExists, "seed %d is in use", msg.Seed)
	}
	return &msg, addr, bump, nil
}

// SettleHandler swaps the vault content for the required payment of the
// taker.
type SettleHandler struct {
	auth   x.Authenticator
	bucket Bucket
	vault  Vault
	bank   ledger.Controller
}

var _ barter.Handler = SettleHandler{}

// Check verifies the taker signed the message, the message matches the
// escrow and the taker can pay.
func (h SettleHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{}, nil
}

// Deliver releases the whole vault content to the taker, pays the maker,
// closes the vault and deletes the escrow, in this order.
func (h SettleHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth, err := authorityOf(msg.Escrow, escrow)
	if err != nil {
		return nil, err
	}

	vault := VaultAddress(msg.Escrow, escrow.AssetA)
	locked, err := h.vault.Balance(db, vault)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	takerA, err := h.bank.ProvisionHoldingAccount(db, msg.Taker.Address(), escrow.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "cannot provision taker account")
	}
	if err := h.vault.Release(db, vault, takerA, locked, escrow.AssetA, auth); err != nil {
		return nil, errors.Wrap(err, "cannot release vault")
	}

	makerB, err := h.bank.ProvisionHoldingAccount(db, escrow.Maker.Address(), escrow.AssetB)
	if err != nil {
		return nil, errors.Wrap(err, "cannot provision maker account")
	}
	takerB := ledger.HoldingAddress(msg.Taker.Address(), escrow.AssetB.Ticker)
	if err := h.bank.Transfer(db, takerB, makerB, msg.Taker.Condition(), escrow.AmountRequired, escrow.AssetB); err != nil {
		return nil, errors.Wrap(err, "cannot pay maker")
	}

	if err := closeEscrow(ctx, db, h.bucket, h.vault, msg.Escrow, escrow, auth); err != nil {
		return nil, err
	}
	barter.GetLogger(ctx).Info("escrow settled",
		"escrow", msg.Escrow,
		"taker", msg.Taker,
		"released", locked,
		"asset_a", escrow.AssetA,
		"paid", escrow.AmountRequired,
		"asset_b", escrow.AssetB)
	return &barter.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver. Every
// precondition is checked here, before any funds move.
func (h SettleHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*SettleMsg, *EscrowState, error) {
	var msg SettleMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Taker.Address(), "taker"); err != nil {
		return nil, nil, err
	}
	escrow, err := h.bucket.Read(db, msg.Escrow)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow")
	}
	if !escrow.Maker.Equals(msg.Maker) {
		return nil, nil, errors.Wrap(ErrRecordMismatch, "maker")
	}
	if !escrow.AssetA.Equals(msg.AssetA) {
		return nil, nil, errors.Wrapf(ErrRecordMismatch, "escrow holds %s", escrow.AssetA)
	}
	if !escrow.AssetB.Equals(msg.AssetB) {
		return nil, nil, errors.Wrapf(ErrRecordMismatch, "escrow requires %s", escrow.AssetB)
	}

	takerB := ledger.HoldingAddress(msg.Taker.Address(), escrow.AssetB.Ticker)
	available, err := h.bank.Balance(db, takerB)
	switch {
	case errors.ErrNotFound.Is(err):
		available = 0
	case err != nil:
		return nil, nil, err
	}
	if available < escrow.AmountRequired {
		return nil, nil, errors.Wrapf(ErrEscrowInsufficientFunds,
			"escrow requires %d %s, taker has %d", escrow.AmountRequired, escrow.AssetB, available)
	}
	return &msg, escrow, nil
}

// CancelHandler returns the vault content to the maker.
type CancelHandler struct {
	auth   x.Authenticator
	bucket Bucket
	vault  Vault
}

var _ barter.Handler = CancelHandler{}

// Check verifies the maker of the escrow signed the message.
func (h CancelHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{}, nil
}

// Deliver releases the whole vault content to the maker, closes the vault
// and deletes the escrow.
func (h CancelHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth, err := authorityOf(msg.Escrow, escrow)
	if err != nil {
		return nil, err
	}

	vault := VaultAddress(msg.Escrow, escrow.AssetA)
	locked, err := h.vault.Balance(db, vault)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	makerA := ledger.HoldingAddress(escrow.Maker.Address(), escrow.AssetA.Ticker)
	if err := h.vault.Release(db, vault, makerA, locked, escrow.AssetA, auth); err != nil {
		return nil, errors.Wrap(err, "cannot release vault")
	}

	if err := closeEscrow(ctx, db, h.bucket, h.vault, msg.Escrow, escrow, auth); err != nil {
		return nil, err
	}
	barter.GetLogger(ctx).Info("escrow cancelled",
		"escrow", msg.Escrow,
		"refunded", locked,
		"asset_a", escrow.AssetA)
	return &barter.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CancelHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*CancelMsg, *EscrowState, error) {
	var msg CancelMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.bucket.Read(db, msg.Escrow)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow")
	}
	if !escrow.Maker.Equals(msg.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can cancel")
	}
	if err := x.RequireSigner(ctx, h.auth, escrow.Maker.Address(), "maker"); err != nil {
		return nil, nil, err
	}
	return &msg, escrow, nil
}

// closeEscrow closes the emptied vault and deletes the escrow record. Both
// release their storage to the maker.
func closeEscrow(ctx barter.Context, db barter.KVStore, bucket Bucket, v Vault, addr barter.Address, escrow *EscrowState, auth vaultAuthority) error {
	maker := escrow.Maker.Address()
	vaultSize, err := v.Close(db, VaultAddress(addr, escrow.AssetA), auth, maker)
	if err != nil {
		return errors.Wrap(err, "cannot close vault")
	}
	recordSize, err := bucket.Delete(db, addr)
	if err != nil {
		return errors.Wrap(err, "cannot delete escrow")
	}
	barter.GetLogger(ctx).Debug("storage released",
		"escrow", addr,
		"to", maker,
		"vault", vaultSize,
		"record", recordSize)
	return nil
}
