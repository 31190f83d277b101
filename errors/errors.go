/*
Package errors holds the registered root errors of barter.

Every failure returned by a handler wraps exactly one root error, so callers
can classify it with Is and report it by code:

	if errors.ErrInsufficientFunds.Is(err) {
		...
	}
*/
package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized      = Register(2, "unauthorized")
	ErrNotFound          = Register(3, "not found")
	ErrAlreadyExists     = Register(4, "already exists")
	ErrInvalidInput      = Register(5, "invalid input")
	ErrInvalidAmount     = Register(6, "invalid amount")
	ErrInsufficientFunds = Register(7, "insufficient funds")
	ErrOverflow          = Register(8, "value overflow")
	ErrInvalidState      = Register(9, "invalid state")
	ErrInvalidType       = Register(10, "invalid type")
	ErrDatabase          = Register(11, "database")

	// ErrHuman marks a code path that correct wiring never reaches.
	ErrHuman = Register(12, "coding error")

	// ErrPanic is set by Recover. Its details are dropped by Redact before
	// they leave the application.
	ErrPanic = Register(111222, "panic")
)

var registry = map[uint32]*Error{}

// Register declares a root error. Codes are unique, registering a code twice
// panics, so call it from package level var blocks only.
func Register(code uint32, desc string) *Error {
	if prev, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already taken by %q", code, prev.desc))
	}
	e := &Error{code: code, desc: desc}
	registry[code] = e
	return e
}

// Error is a root error with a registered code.
type Error struct {
	code uint32
	desc string
}

func (e *Error) Error() string {
	return e.desc
}

// Is returns true if err is e or wraps e. A nil *Error matches only nil
// errors, including typed nil pointers.
func (e *Error) Is(err error) bool {
	if e == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	for err != nil {
		if err == e {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds context to err. The innermost wrap records the stack. Wrapping
// nil returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stackOf(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrapped{msg: msg, cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string {
	return w.msg + ": " + w.cause.Error()
}

func (w *wrapped) Cause() error {
	return w.cause
}

// Format appends the recorded stack for %+v.
func (w *wrapped) Format(s fmt.State, verb rune) {
	fmt.Fprint(s, w.Error())
	if verb == 'v' && s.Flag('+') {
		if st := stackOf(w); st != nil {
			fmt.Fprintf(s, "%+v", st)
		}
	}
}

// Recover turns a panic into an ErrPanic assigned to *err. Use it with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// Code returns the code of the root error that err wraps. It is 0 for nil and
// 1 for errors without a registered root.
func Code(err error) uint32 {
	if err == nil {
		return 0
	}
	for {
		if e, ok := err.(*Error); ok {
			return e.code
		}
		c, ok := err.(causer)
		if !ok {
			return 1
		}
		err = c.Cause()
	}
}

// Redact strips the details of a recovered panic.
func Redact(err error) error {
	if ErrPanic.Is(err) {
		return ErrPanic
	}
	return err
}

type causer interface {
	Cause() error
}

func stackOf(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(interface{ StackTrace() errors.StackTrace }); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}
