package host

import (
	"fmt"
	"strconv"
)

// Kind is the primitive type of a foreign value
type Kind uint8

const (
	KindNull Kind = iota
	KindInt       // 32-bit signed
	KindLong      // 64-bit signed
	KindChar      // UTF-16 code unit
	KindBool
	KindString
	KindObject
	KindList
)

var kindNames = [...]string{"null", "int", "long", "char", "boolean", "String", "Object", "List"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a foreign value: a primitive, a string, an object reference or a list
type Value struct {
	kind Kind
	num  int64
	str  string
	obj  *Object
	list []Value
}

// Null is the null reference
var Null = Value{}

func Int(v int32) Value   { return Value{kind: KindInt, num: int64(v)} }
func Long(v int64) Value  { return Value{kind: KindLong, num: v} }
func Char(v uint16) Value { return Value{kind: KindChar, num: int64(v)} }

func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

func String(s string) Value { return Value{kind: KindString, str: s} }

// Ref wraps an object reference; nil becomes Null
func Ref(o *Object) Value {
	if o == nil {
		return Null
	}
	return Value{kind: KindObject, obj: o}
}

// List builds a list value
func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// MismatchError reports a value read with the wrong primitive type
type MismatchError struct {
	Want Kind
	Got  Kind
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
}

func (v Value) expect(k Kind) error {
	if v.kind != k {
		return &MismatchError{Want: k, Got: v.kind}
	}
	return nil
}

func (v Value) AsInt() (int32, error) {
	if err := v.expect(KindInt); err != nil {
		return 0, err
	}
	return int32(v.num), nil
}

func (v Value) AsLong() (int64, error) {
	if err := v.expect(KindLong); err != nil {
		return 0, err
	}
	return v.num, nil
}

func (v Value) AsChar() (uint16, error) {
	if err := v.expect(KindChar); err != nil {
		return 0, err
	}
	return uint16(v.num), nil
}

func (v Value) AsBool() (bool, error) {
	if err := v.expect(KindBool); err != nil {
		return false, err
	}
	return v.num != 0, nil
}

func (v Value) AsString() (string, error) {
	if err := v.expect(KindString); err != nil {
		return "", err
	}
	return v.str, nil
}

// AsObject returns the referenced object; null is rejected
func (v Value) AsObject() (*Object, error) {
	if err := v.expect(KindObject); err != nil {
		return nil, err
	}
	return v.obj, nil
}

func (v Value) AsList() ([]Value, error) {
	if err := v.expect(KindList); err != nil {
		return nil, err
	}
	return v.list, nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindInt, KindLong:
		return strconv.FormatInt(v.num, 10)
	case KindChar:
		return string(rune(v.num))
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindString:
		return v.str
	case KindObject:
		return v.obj.String()
	case KindList:
		s := "["
		for i, e := range v.list {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	}
	return "?"
}
