// @focus: #bridge { errors }
package bridge

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/termbridge/host"
)

// Origin classifies where a failure started
type Origin uint8

const (
	OriginIO    Origin = iota // terminal write, flush, read or mode change
	OriginCall                // host call machinery or a pending foreign exception
	OriginRange               // numeric field did not fit its native width
)

var originNames = [...]string{"io", "call", "range"}

func (o Origin) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}
	return fmt.Sprintf("Origin(%d)", o)
}

// Error is the unified failure of every fallible bridge operation
type Error struct {
	Origin Origin
	Err    error

	// OriginRange only
	Field string
	Value int64
}

func (e *Error) Error() string {
	return e.Origin.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IOError marks err as a terminal I/O failure. nil stays nil.
func IOError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Origin: OriginIO, Err: err}
}

// CallError marks err as a host call failure. nil stays nil.
func CallError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Origin: OriginCall, Err: err}
}

// RangeError reports a value that does not fit an unsigned field of the given width
func RangeError(field string, value int64, bits int) error {
	return &Error{
		Origin: OriginRange,
		Err:    fmt.Errorf("%s=%d does not fit in u%d", field, value, bits),
		Field:  field,
		Value:  value,
	}
}

// Unify classifies an arbitrary non-nil error. Host call failures and
// foreign exceptions become OriginCall, everything else OriginIO.
func Unify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var (
		ce  *host.CallError
		exc *host.Exception
		me  *host.MismatchError
	)
	if errors.As(err, &ce) || errors.As(err, &exc) || errors.As(err, &me) ||
		errors.Is(err, host.ErrExceptionPending) {
		return &Error{Origin: OriginCall, Err: err}
	}
	return &Error{Origin: OriginIO, Err: err}
}

// DecodeError is an unknown tag: the two sides disagree on a closed set of
// variants. It is raised as a panic, never returned, and is not an Error.
type DecodeError struct {
	Family string
	Tag    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("not a valid %s: %s", e.Family, e.Tag)
}

func unknownTag(family, tag string) {
	panic(&DecodeError{Family: family, Tag: tag})
}
