package weavetest

import "github.com/iov-one/barter"

// Tx wraps a single message. A non nil Err is returned instead of it.
type Tx struct {
	Msg barter.Msg
	Err error
}

var _ barter.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (barter.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Msg is a valid message routed to RoutePath. Its binary form is the path.
type Msg struct {
	RoutePath string
}

var _ barter.Msg = (*Msg)(nil)

func (m *Msg) Path() string             { return m.RoutePath }
func (m *Msg) Validate() error          { return nil }
func (m *Msg) Marshal() ([]byte, error) { return []byte(m.RoutePath), nil }

func (m *Msg) Unmarshal(raw []byte) error {
	m.RoutePath = string(raw)
	return nil
}
