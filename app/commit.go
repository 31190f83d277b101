package app

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// state keeps the two working copies the Runner needs over the committed
// store. Delivered transactions collect in deliver until Commit, checks run
// on check and never reach the disk. The Runner serializes every call.
type state struct {
	committed barter.CommitKVStore
	deliver   barter.KVCacheWrap
	check     barter.KVCacheWrap
}

func loadState(db barter.CommitKVStore) (*state, error) {
	if err := db.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	s := &state{committed: db}
	s.reset()
	return s, nil
}

// reset drops anything staged and starts over from the committed state.
func (s *state) reset() {
	if s.deliver != nil {
		s.deliver.Discard()
	}
	if s.check != nil {
		s.check.Discard()
	}
	s.deliver = s.committed.CacheWrap()
	s.check = s.committed.CacheWrap()
}

// commit writes the deliver copy through and persists a new version.
func (s *state) commit() (barter.CommitID, error) {
	if err := s.deliver.Write(); err != nil {
		return barter.CommitID{}, errors.Wrap(err, "flush deliver state")
	}
	id, err := s.committed.Commit()
	if err != nil {
		return id, err
	}
	s.reset()
	return id, nil
}

func (s *state) info() (barter.CommitID, error) {
	return s.committed.LatestVersion()
}

// The chain id lives under a reserved key outside of every bucket.
var chainIDKey = []byte("_bt:chainID")

func loadChainID(db barter.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID fails if a chain id is already stored.
func saveChainID(db barter.KVStore, chainID string) error {
	if !barter.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	switch has, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case has:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}
