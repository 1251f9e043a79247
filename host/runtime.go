package host

import (
	"errors"
	"fmt"
)

// Env is the call surface of the host runtime. Operations fail with a
// *CallError when the call machinery itself fails, with an *Exception when
// the invoked member raised one, and with ErrExceptionPending while an
// exception is outstanding.
type Env interface {
	// Tag returns the discriminant of a record or the name of an enum constant
	Tag(obj *Object) (string, error)
	// GetField reads a record component with the declared kind
	GetField(obj *Object, name string, kind Kind) (Value, error)
	// CallMethod invokes a zero or one argument method
	CallMethod(obj *Object, name string, args ...Value) (Value, error)
	// Elements returns the members of a list
	Elements(list Value) ([]Value, error)
	// NewObject allocates a record with positional constructor arguments
	NewObject(class string, args ...Value) (*Object, error)
	// EnumConstant returns the singleton constant of an enum class
	EnumConstant(class, name string) (*Object, error)
	NewString(s string) (Value, error)

	// Throw raises exc; ThrowNew raises a fresh exception of class
	Throw(exc *Exception) error
	ThrowNew(class, msg string) error
	ExceptionCheck() bool
}

// Exception is a foreign exception. It is also returned as the error of the
// call that raised it.
type Exception struct {
	Class   string
	Message string
}

func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Class
	}
	return e.Class + ": " + e.Message
}

// Common exception classes
const (
	RuntimeException       = "RuntimeException"
	NoSuchElementException = "NoSuchElementException"
	NullPointerException   = "NullPointerException"
)

var (
	ErrExceptionPending = errors.New("exception pending")
	ErrNoSuchClass      = errors.New("no such class")
	ErrNoSuchField      = errors.New("no such field")
	ErrNoSuchMethod     = errors.New("no such method")
	ErrNoSuchConstant   = errors.New("no such enum constant")
	ErrNullReference    = errors.New("null reference")
	ErrArity            = errors.New("wrong number of arguments")
)

// CallError is a failure of the call machinery (bad signature, missing member)
type CallError struct {
	Op     string
	Target string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// UnknownVariantError reports a tree naming no member of a sealed family or enum
type UnknownVariantError struct {
	Family string
	Tag    string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s: unknown variant %q", e.Family, e.Tag)
}

// OptionalClass is the built-in optional container, with a nullable "value" component
const OptionalClass = "host/Optional"

var optionalClass = &Class{
	Name:   OptionalClass,
	Family: "Optional",
	Tag:    "Optional",
	Fields: []Field{{Name: "value", Kind: KindObject}},
}

// Runtime is an in-process Env over a class catalog.
// Not safe for concurrent use.
type Runtime struct {
	catalog  *Catalog
	optional *Class
	enums    map[string][]*Object
	pending  *Exception
}

// NewRuntime creates a runtime for the catalog, registering the optional class
func NewRuntime(catalog *Catalog) *Runtime {
	opt, ok := catalog.Class(OptionalClass)
	if !ok {
		opt = optionalClass
		_ = catalog.Add(opt)
	}
	rt := &Runtime{
		catalog:  catalog,
		optional: opt,
		enums:    make(map[string][]*Object),
	}
	for _, cls := range catalog.classes {
		if !cls.IsEnum() {
			continue
		}
		consts := make([]*Object, len(cls.Constants))
		for i, name := range cls.Constants {
			consts[i] = &Object{class: cls, name: name, ordinal: i}
		}
		rt.enums[cls.Name] = consts
	}
	return rt
}

func (rt *Runtime) Catalog() *Catalog { return rt.catalog }

// Pending returns the outstanding exception, if any
func (rt *Runtime) Pending() *Exception { return rt.pending }

// TakeException returns and clears the outstanding exception
func (rt *Runtime) TakeException() *Exception {
	exc := rt.pending
	rt.pending = nil
	return exc
}

func (rt *Runtime) ExceptionCheck() bool { return rt.pending != nil }

func (rt *Runtime) Throw(exc *Exception) error {
	if exc == nil {
		return &CallError{Op: "Throw", Target: "null", Err: ErrNullReference}
	}
	rt.pending = exc
	return nil
}

func (rt *Runtime) ThrowNew(class, msg string) error {
	rt.pending = &Exception{Class: class, Message: msg}
	return nil
}

// raise sets the pending exception and returns it as the call's error
func (rt *Runtime) raise(class, msg string) error {
	exc := &Exception{Class: class, Message: msg}
	rt.pending = exc
	return exc
}

func (rt *Runtime) Tag(obj *Object) (string, error) {
	if rt.pending != nil {
		return "", ErrExceptionPending
	}
	if obj == nil {
		return "", &CallError{Op: "Tag", Target: "null", Err: ErrNullReference}
	}
	if obj.class.IsEnum() {
		return obj.name, nil
	}
	return obj.class.Tag, nil
}

func (rt *Runtime) GetField(obj *Object, name string, kind Kind) (Value, error) {
	if rt.pending != nil {
		return Null, ErrExceptionPending
	}
	if obj == nil {
		return Null, &CallError{Op: "GetField", Target: name, Err: ErrNullReference}
	}
	target := obj.class.Name + "." + name
	i, ok := obj.class.FieldIndex(name)
	if !ok {
		return Null, &CallError{Op: "GetField", Target: target, Err: ErrNoSuchField}
	}
	if declared := obj.class.Fields[i].Kind; declared != kind {
		return Null, &CallError{Op: "GetField", Target: target, Err: &MismatchError{Want: kind, Got: declared}}
	}
	return obj.fields[i], nil
}

func (rt *Runtime) CallMethod(obj *Object, name string, args ...Value) (Value, error) {
	if rt.pending != nil {
		return Null, ErrExceptionPending
	}
	if obj == nil {
		return Null, rt.raise(NullPointerException, "cannot invoke "+name+" on null")
	}
	target := obj.class.Name + "." + name
	if len(args) > 1 {
		return Null, &CallError{Op: "CallMethod", Target: target, Err: ErrArity}
	}

	switch name {
	case "toString":
		return String(obj.String()), nil
	case "name":
		if obj.class.IsEnum() {
			return String(obj.name), nil
		}
	case "ordinal":
		if obj.class.IsEnum() {
			return Int(int32(obj.ordinal)), nil
		}
	}

	if obj.class.Name == OptionalClass {
		v := obj.fields[0]
		switch name {
		case "isEmpty":
			return Bool(v.IsNull()), nil
		case "isPresent":
			return Bool(!v.IsNull()), nil
		case "get":
			if v.IsNull() {
				return Null, rt.raise(NoSuchElementException, "No value present")
			}
			return v, nil
		}
	}

	// Record accessors
	if len(args) == 0 && !obj.class.IsEnum() {
		if i, ok := obj.class.FieldIndex(name); ok {
			return obj.fields[i], nil
		}
	}
	return Null, &CallError{Op: "CallMethod", Target: target, Err: ErrNoSuchMethod}
}

func (rt *Runtime) Elements(list Value) ([]Value, error) {
	if rt.pending != nil {
		return nil, ErrExceptionPending
	}
	if list.IsNull() {
		return nil, rt.raise(NullPointerException, "list is null")
	}
	elems, err := list.AsList()
	if err != nil {
		return nil, &CallError{Op: "Elements", Target: list.Kind().String(), Err: err}
	}
	return elems, nil
}

func (rt *Runtime) NewObject(class string, args ...Value) (*Object, error) {
	if rt.pending != nil {
		return nil, ErrExceptionPending
	}
	cls, ok := rt.catalog.Class(class)
	if !ok {
		return nil, &CallError{Op: "NewObject", Target: class, Err: ErrNoSuchClass}
	}
	if cls.IsEnum() {
		return nil, &CallError{Op: "NewObject", Target: class, Err: errors.New("cannot instantiate enum")}
	}
	if len(args) != len(cls.Fields) {
		return nil, &CallError{Op: "NewObject", Target: class, Err: ErrArity}
	}
	for i, f := range cls.Fields {
		if !assignable(f.Kind, args[i]) {
			return nil, &CallError{
				Op:     "NewObject",
				Target: class + "." + f.Name,
				Err:    &MismatchError{Want: f.Kind, Got: args[i].Kind()},
			}
		}
	}
	fields := make([]Value, len(args))
	copy(fields, args)
	return &Object{class: cls, fields: fields}, nil
}

// assignable allows null for reference kinds
func assignable(k Kind, v Value) bool {
	if v.Kind() == k {
		return true
	}
	return v.IsNull() && (k == KindObject || k == KindString || k == KindList)
}

func (rt *Runtime) EnumConstant(class, name string) (*Object, error) {
	if rt.pending != nil {
		return nil, ErrExceptionPending
	}
	consts, ok := rt.enums[class]
	if !ok {
		return nil, &CallError{Op: "EnumConstant", Target: class, Err: ErrNoSuchClass}
	}
	for _, c := range consts {
		if c.name == name {
			return c, nil
		}
	}
	return nil, &CallError{Op: "EnumConstant", Target: class + "." + name, Err: ErrNoSuchConstant}
}

func (rt *Runtime) NewString(s string) (Value, error) {
	if rt.pending != nil {
		return Null, ErrExceptionPending
	}
	return String(s), nil
}

// Some wraps obj in an optional
func (rt *Runtime) Some(obj *Object) *Object {
	return &Object{class: rt.optional, fields: []Value{Ref(obj)}}
}

// None returns an empty optional
func (rt *Runtime) None() *Object {
	return &Object{class: rt.optional, fields: []Value{Null}}
}
