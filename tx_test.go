package barter

import (
	"testing"

	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/weavetest/assert"
)

// DemoMsg
type DemoMsg struct {
	Num  int
	Text string
}

func (DemoMsg) Path() string               { return "path" }
func (DemoMsg) Validate() error            { return nil }
func (DemoMsg) Marshal() ([]byte, error)   { return []byte("foo"), nil }
func (*DemoMsg) Unmarshal(bz []byte) error { return nil }

var _ Msg = (*DemoMsg)(nil)

func TestGetPath(t *testing.T) {
	assert.Equal(t, "path", GetPath(&TxMock{Msg: &DemoMsg{}}))
	assert.Equal(t, "(missing)", GetPath(&TxMock{}))
	assert.Equal(t, "(missing)", GetPath(&TxMock{Msg: &DemoMsg{}, Err: errors.ErrInvalidInput}))
}
