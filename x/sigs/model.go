package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the clients, that cannot represent integers
// greater than 2^53 - 1 exactly.
const maxSequenceValue = (1 << 53) - 1

// UserData stores the next expected sequence of a public key.
type UserData struct {
	Pubkey   crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey"`
	Sequence uint64           `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	if err := u.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if u.Sequence > maxSequenceValue {
		return errors.Wrap(ErrInvalidSequence, "out of range")
	}
	return nil
}

type wireUserData UserData

func (m *wireUserData) Reset()         { *m = wireUserData{} }
func (m *wireUserData) String() string { return proto.CompactTextString(m) }
func (*wireUserData) ProtoMessage()    {}

func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal((*wireUserData)(u))
}

func (u *UserData) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*wireUserData)(u)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected uint64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	if u.Sequence >= maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// Bucket stores UserData under the address of the public key.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the UserData of given key, or returns a fresh one with
// sequence zero.
func (b Bucket) GetOrCreate(db barter.ReadOnlyKVStore, pubkey crypto.PublicKey) (*UserData, error) {
	var u UserData
	switch err := b.One(db, pubkey.Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the UserData under the address of its key.
func (b Bucket) Save(db barter.KVStore, u *UserData) error {
	_, err := b.Put(db, u.Pubkey.Address(), u)
	return err
}
