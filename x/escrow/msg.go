package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/ledger"
)

const (
	pathOpenMsg   = "escrow/open"
	pathSettleMsg = "escrow/settle"
	pathCancelMsg = "escrow/cancel"
)

var _ barter.Msg = (*OpenMsg)(nil)
var _ barter.Msg = (*SettleMsg)(nil)
var _ barter.Msg = (*CancelMsg)(nil)

// OpenMsg locks DepositAmount of AssetA in a new escrow, asking for
// AmountRequired of AssetB.
type OpenMsg struct {
	Maker          crypto.PublicKey `protobuf:"bytes,1,opt,name=maker,proto3" json:"maker"`
	Seed           uint64           `protobuf:"varint,2,opt,name=seed,proto3" json:"seed"`
	AssetA         ledger.Asset     `protobuf:"bytes,3,opt,name=asset_a,json=assetA,proto3" json:"asset_a"`
	AssetB         ledger.Asset     `protobuf:"bytes,4,opt,name=asset_b,json=assetB,proto3" json:"asset_b"`
	AmountRequired uint64           `protobuf:"varint,5,opt,name=amount_required,json=amountRequired,proto3" json:"amount_required"`
	DepositAmount  uint64           `protobuf:"varint,6,opt,name=deposit_amount,json=depositAmount,proto3" json:"deposit_amount"`
}

// Path fulfills barter.Msg interface to allow routing
func (OpenMsg) Path() string {
	return pathOpenMsg
}

// Validate makes sure that this is sensible
func (m *OpenMsg) Validate() error {
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := m.AssetA.Validate(); err != nil {
		return errors.Wrap(err, "asset a")
	}
	if err := m.AssetB.Validate(); err != nil {
		return errors.Wrap(err, "asset b")
	}
	if m.AmountRequired == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "amount required must be positive")
	}
	if m.DepositAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "deposit must be positive")
	}
	return nil
}

type wireOpenMsg OpenMsg

func (m *wireOpenMsg) Reset()         { *m = wireOpenMsg{} }
func (m *wireOpenMsg) String() string { return proto.CompactTextString(m) }
func (*wireOpenMsg) ProtoMessage()    {}

func (m *OpenMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*wireOpenMsg)(m))
}

func (m *OpenMsg) Unmarshal(raw []byte) error {
	return unmarshalMsg(raw, (*wireOpenMsg)(m))
}

// SettleMsg pays the escrow requirement and takes the vault content. Maker
// and asset types must repeat the stored escrow, so that a taker never pays
// for something else than expected.
type SettleMsg struct {
	Taker  crypto.PublicKey `protobuf:"bytes,1,opt,name=taker,proto3" json:"taker"`
	Escrow barter.Address   `protobuf:"bytes,2,opt,name=escrow,proto3" json:"escrow"`
	Maker  crypto.PublicKey `protobuf:"bytes,3,opt,name=maker,proto3" json:"maker"`
	AssetA ledger.Asset     `protobuf:"bytes,4,opt,name=asset_a,json=assetA,proto3" json:"asset_a"`
	AssetB ledger.Asset     `protobuf:"bytes,5,opt,name=asset_b,json=assetB,proto3" json:"asset_b"`
}

// Path fulfills barter.Msg interface to allow routing
func (SettleMsg) Path() string {
	return pathSettleMsg
}

// Validate makes sure that this is sensible
func (m *SettleMsg) Validate() error {
	if err := m.Taker.Validate(); err != nil {
		return errors.Wrap(err, "taker")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := m.AssetA.Validate(); err != nil {
		return errors.Wrap(err, "asset a")
	}
	if err := m.AssetB.Validate(); err != nil {
		return errors.Wrap(err, "asset b")
	}
	return nil
}

type wireSettleMsg SettleMsg

func (m *wireSettleMsg) Reset()         { *m = wireSettleMsg{} }
func (m *wireSettleMsg) String() string { return proto.CompactTextString(m) }
func (*wireSettleMsg) ProtoMessage()    {}

func (m *SettleMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*wireSettleMsg)(m))
}

func (m *SettleMsg) Unmarshal(raw []byte) error {
	return unmarshalMsg(raw, (*wireSettleMsg)(m))
}

// CancelMsg returns the vault content to the maker and closes the escrow.
type CancelMsg struct {
	Maker  crypto.PublicKey `protobuf:"bytes,1,opt,name=maker,proto3" json:"maker"`
	Escrow barter.Address   `protobuf:"bytes,2,opt,name=escrow,proto3" json:"escrow"`
}

// Path fulfills barter.Msg interface to allow routing
func (CancelMsg) Path() string {
	return pathCancelMsg
}

// Validate makes sure that this is sensible
func (m *CancelMsg) Validate() error {
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	return nil
}

type wireCancelMsg CancelMsg

func (m *wireCancelMsg) Reset()         { *m = wireCancelMsg{} }
func (m *wireCancelMsg) String() string { return proto.CompactTextString(m) }
func (*wireCancelMsg) ProtoMessage()    {}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*wireCancelMsg)(m))
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return unmarshalMsg(raw, (*wireCancelMsg)(m))
}

func unmarshalMsg(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}
