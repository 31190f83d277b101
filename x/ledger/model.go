package ledger

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

// IsTicker is the RegExp to ensure valid asset tickers.
var IsTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// MaxDecimals is the highest precision an asset type can declare.
const MaxDecimals = 18

// Asset describes an asset type. Two descriptors refer to the same asset
// type only when both the ticker and the decimals are equal.
type Asset struct {
	Ticker   string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker"`
	Decimals uint64 `protobuf:"varint,2,opt,name=decimals,proto3" json:"decimals"`
}

var _ orm.Model = (*Asset)(nil)

// Validate checks the descriptor is well formed. It does not look at the
// registry.
func (a *Asset) Validate() error {
	if !IsTicker(a.Ticker) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid ticker %q", a.Ticker)
	}
	if a.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrInvalidInput, "too many decimals: %d", a.Decimals)
	}
	return nil
}

// Equals returns true if both descriptors refer to the same asset type.
func (a Asset) Equals(o Asset) bool {
	return a.Ticker == o.Ticker && a.Decimals == o.Decimals
}

func (a Asset) String() string {
	return a.Ticker
}

// wireAsset is Asset without the Marshal methods, so that proto encodes it
// using the field tags.
type wireAsset Asset

func (m *wireAsset) Reset()         { *m = wireAsset{} }
func (m *wireAsset) String() string { return proto.CompactTextString(m) }
func (*wireAsset) ProtoMessage()    {}

func (a *Asset) Marshal() ([]byte, error) {
	return proto.Marshal((*wireAsset)(a))
}

func (a *Asset) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*wireAsset)(a)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

// Account is a holding account. It stores a balance of a single asset type.
type Account struct {
	// Owner is the address of the condition allowed to move the funds.
	Owner   barter.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	Ticker  string         `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker"`
	Balance uint64         `protobuf:"varint,3,opt,name=balance,proto3" json:"balance"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if !IsTicker(a.Ticker) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid ticker %q", a.Ticker)
	}
	return nil
}

type wireAccount Account

func (m *wireAccount) Reset()         { *m = wireAccount{} }
func (m *wireAccount) String() string { return proto.CompactTextString(m) }
func (*wireAccount) ProtoMessage()    {}

func (a *Account) Marshal() ([]byte, error) {
	return proto.Marshal((*wireAccount)(a))
}

func (a *Account) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*wireAccount)(a)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

// HoldingAddress returns the address of the holding account of given owner
// for the asset with given ticker.
func HoldingAddress(owner barter.Address, ticker string) barter.Address {
	data := make([]byte, 0, len(owner)+len(ticker))
	data = append(data, owner...)
	data = append(data, ticker...)
	return barter.NewCondition("ledger", "holding", data).Address()
}

const (
	// AssetBucketName is where the registered asset types are stored.
	AssetBucketName = "asset"
	// AccountBucketName is where the holding accounts are stored.
	AccountBucketName = "account"
)

// NewAssetBucket returns a bucket of registered asset types keyed by ticker.
func NewAssetBucket() orm.ModelBucket {
	return orm.NewModelBucket(AssetBucketName, &Asset{})
}

// NewAccountBucket returns a bucket of holding accounts keyed by holding
// address, indexed by owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket(AccountBucketName, &Account{},
		orm.WithIndex("owner", ownerIndex))
}

func ownerIndex(m orm.Model) ([]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return a.Owner, nil
}
