package store

// sliceIterator iterates over collected entries.
type sliceIterator struct {
	entries []entry
}

var _ Iterator = (*sliceIterator)(nil)

// NewSliceIterator returns an iterator over given key value pairs, which
// must be sorted by key.
func NewSliceIterator(pairs ...[2][]byte) Iterator {
	entries := make([]entry, len(pairs))
	for i, p := range pairs {
		entries[i] = entry{key: p[0], value: p[1]}
	}
	return &sliceIterator{entries: entries}
}

func (s *sliceIterator) Valid() bool {
	return len(s.entries) > 0
}

func (s *sliceIterator) Next() {
	s.mustBeValid()
	s.entries = s.entries[1:]
}

func (s *sliceIterator) Key() []byte {
	s.mustBeValid()
	return s.entries[0].key
}

func (s *sliceIterator) Value() []byte {
	s.mustBeValid()
	return s.entries[0].value
}

func (s *sliceIterator) Close() {
	s.entries = nil
}

func (s *sliceIterator) mustBeValid() {
	if len(s.entries) == 0 {
		panic("iterator is not valid")
	}
}
