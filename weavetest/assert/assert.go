/*
Package assert has the few checks barter tests use most. Each one stops the
test on failure.
*/
package assert

import (
	"reflect"

	"github.com/iov-one/barter/errors"
)

// Tester is the part of testing.TB the checks need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil stops the test unless value is nil or a typed nil. Errors print with
// their stack.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	t.Fatalf("want nil, got %+v", value)
}

// Equal stops the test unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// IsErr stops the test unless got wraps the root error want. A nil want
// expects no error.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	if !want.Is(got) {
		t.Fatalf("want %v error, got %+v", want, got)
	}
}

// Panics stops the test unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("want panic")
		}
	}()
	fn()
}
