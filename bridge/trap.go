// @focus: #bridge { trap }
package bridge

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/lixenwraith/termbridge/host"
)

// ContractViolation is the exception class raised for unknown tags
const ContractViolation = "ContractViolation"

// Message prefixes of raised RuntimeExceptions, one per origin
const (
	prefixIO    = "IO error: "
	prefixCall  = "Error from boundary call: "
	prefixRange = "Range violation: "
)

// Unwrap runs fn as a boundary entry point. On success the value is
// returned. On failure the error is raised through env and the zero value
// is returned; callers must check env before using it. Panics never escape.
func Unwrap[T any](env host.Env, fn func() (T, error)) (result T) {
	defer func() {
		if r := recover(); r != nil {
			raisePanic(env, r)
			var zero T
			result = zero
		}
	}()

	v, err := fn()
	if err != nil {
		Raise(env, err)
		var zero T
		return zero
	}
	return v
}

// Raise surfaces err through env. A foreign exception that is already
// pending, or that err carries, is raised unchanged.
func Raise(env host.Env, err error) {
	if env.ExceptionCheck() {
		return
	}
	var exc *host.Exception
	if errors.As(err, &exc) {
		_ = env.Throw(exc)
		return
	}
	_ = env.ThrowNew(host.RuntimeException, Describe(Unify(err)))
}

// Describe renders e with the prefix of its origin
func Describe(e *Error) string {
	switch e.Origin {
	case OriginIO:
		return prefixIO + e.Err.Error()
	case OriginRange:
		return prefixRange + e.Err.Error()
	}
	return prefixCall + e.Err.Error()
}

func raisePanic(env host.Env, r any) {
	if de, ok := r.(*DecodeError); ok {
		log.Printf("bridge: contract violation: %v\n%s", de, debug.Stack())
		_ = env.ThrowNew(ContractViolation, de.Error())
		return
	}
	log.Printf("bridge: recovered panic: %v\n%s", r, debug.Stack())
	_ = env.ThrowNew(host.RuntimeException, fmt.Sprintf("native panic: %v", r))
}

// Guard runs fn and returns its result as a plain (value, error) pair.
// Failures come back as *Error, unknown tags as *DecodeError, and other
// panics as errors.
func Guard[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			if de, ok := r.(*DecodeError); ok {
				log.Printf("bridge: contract violation: %v\n%s", de, debug.Stack())
				err = de
				return
			}
			err = fmt.Errorf("native panic: %v", r)
		}
	}()

	v, err := fn()
	if err != nil {
		var zero T
		return zero, Unify(err)
	}
	return v, nil
}
