package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/x/ledger"
)

// ProgramID is the address under which all escrow addresses are derived.
var ProgramID = barter.NewAddress([]byte("barter/escrow"))

// seedTag is the domain tag of escrow address derivation.
const seedTag = "escrow"

func derivationSeeds(maker crypto.PublicKey, seed uint64) [][]byte {
	le := make([]byte, 8)
	binary.LittleEndian.PutUint64(le, seed)
	return [][]byte{[]byte(seedTag), maker, le}
}

// DeriveAddress returns the address of the escrow opened by maker with given
// seed, together with the canonical bump.
func DeriveAddress(maker crypto.PublicKey, seed uint64) (barter.Address, uint8, error) {
	if err := maker.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "maker")
	}
	return barter.FindDerivedAddress(ProgramID, derivationSeeds(maker, seed)...)
}

// CreateAddress computes the escrow address using a known bump. It fails
// with barter.ErrOnCurve if the bump does not produce a valid address.
func CreateAddress(maker crypto.PublicKey, seed uint64, bump uint8) (barter.Address, error) {
	if err := maker.Validate(); err != nil {
		return nil, errors.Wrap(err, "maker")
	}
	seeds := append(derivationSeeds(maker, seed), []byte{bump})
	return barter.CreateDerivedAddress(ProgramID, seeds...)
}

// discriminator prefixes every stored EscrowState.
var discriminator = func() []byte {
	h := sha256.Sum256([]byte("state:EscrowState"))
	return h[:8]
}()

// EscrowState describes an open escrow. It is never modified after
// creation.
type EscrowState struct {
	Seed           uint64           `protobuf:"varint,1,opt,name=seed,proto3" json:"seed"`
	Maker          crypto.PublicKey `protobuf:"bytes,2,opt,name=maker,proto3" json:"maker"`
	AssetA         ledger.Asset     `protobuf:"bytes,3,opt,name=asset_a,json=assetA,proto3" json:"asset_a"`
	AssetB         ledger.Asset     `protobuf:"bytes,4,opt,name=asset_b,json=assetB,proto3" json:"asset_b"`
	AmountRequired uint64           `protobuf:"varint,5,opt,name=amount_required,json=amountRequired,proto3" json:"amount_required"`
	// Bump is the canonical bump of the escrow address, always below 256.
	Bump uint32 `protobuf:"varint,6,opt,name=bump,proto3" json:"bump"`
}

var _ orm.Model = (*EscrowState)(nil)

func (e *EscrowState) Validate() error {
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := e.AssetA.Validate(); err != nil {
		return errors.Wrap(err, "asset a")
	}
	if err := e.AssetB.Validate(); err != nil {
		return errors.Wrap(err, "asset b")
	}
	if e.AmountRequired == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "amount required must be positive")
	}
	if e.Bump > math.MaxUint8 {
		return errors.Wrapf(errors.ErrInvalidInput, "bump %d out of range", e.Bump)
	}
	return nil
}

// Address re-derives the address of this escrow.
func (e *EscrowState) Address() (barter.Address, error) {
	if e.Bump > math.MaxUint8 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bump %d out of range", e.Bump)
	}
	return CreateAddress(e.Maker, e.Seed, uint8(e.Bump))
}

type wireEscrowState EscrowState

func (m *wireEscrowState) Reset()         { *m = wireEscrowState{} }
func (m *wireEscrowState) String() string { return proto.CompactTextString(m) }
func (*wireEscrowState) ProtoMessage()    {}

func (e *EscrowState) Marshal() ([]byte, error) {
	state, err := proto.Marshal((*wireEscrowState)(e))
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), discriminator...), state...), nil
}

func (e *EscrowState) Unmarshal(raw []byte) error {
	if !bytes.HasPrefix(raw, discriminator) {
		return errors.Wrap(errors.ErrInvalidType, "not an escrow state")
	}
	if err := proto.Unmarshal(raw[len(discriminator):], (*wireEscrowState)(e)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if e.Bump > math.MaxUint8 {
		return errors.Wrapf(errors.ErrInvalidInput, "bump %d out of range", e.Bump)
	}
	return nil
}

// BucketName is where the escrow records are stored.
const BucketName = "escrow"

// Bucket stores EscrowState under the escrow address, indexed by maker.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for escrow records.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &EscrowState{},
			orm.WithIndex("maker", makerIndex)),
	}
}

func makerIndex(m orm.Model) ([]byte, error) {
	e, ok := m.(*EscrowState)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return e.Maker, nil
}

// Create stores a new escrow. It fails with ErrAlreadyExists if the address
// is occupied.
func (b Bucket) Create(db barter.KVStore, addr barter.Address, e *EscrowState) (int, error) {
	return b.ModelBucket.Create(db, addr, e)
}

// Read returns the escrow stored under addr or ErrNotFound.
func (b Bucket) Read(db barter.ReadOnlyKVStore, addr barter.Address) (*EscrowState, error) {
	var e EscrowState
	if err := b.One(db, addr, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes the escrow stored under addr. It returns the number of
// bytes released or ErrNotFound.
func (b Bucket) Delete(db barter.KVStore, addr barter.Address) (int, error) {
	return b.ModelBucket.Delete(db, addr)
}

// ByMaker returns the addresses of all open escrows of maker.
func (b Bucket) ByMaker(db barter.ReadOnlyKVStore, maker crypto.PublicKey) ([]barter.Address, error) {
	if err := maker.Validate(); err != nil {
		return nil, errors.Wrap(err, "maker")
	}
	keys, err := b.IndexKeys(db, "maker", maker)
	if err != nil {
		return nil, err
	}
	res := make([]barter.Address, len(keys))
	for i, k := range keys {
		res[i] = k
	}
	return res, nil
}
