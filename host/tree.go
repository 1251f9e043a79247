package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf16"
)

// TypeKey is the discriminant key of a record in a decoded tree
const TypeKey = "type"

// FromTree builds a value shaped by f from a decoded JSON or YAML tree.
// Records are maps carrying TypeKey, enum constants are strings, optionals
// are null or their payload, and lists are sequences.
func (rt *Runtime) FromTree(f Field, tree any) (Value, error) {
	switch f.Kind {
	case KindInt:
		n, err := treeInt(tree)
		if err != nil {
			return Null, fmt.Errorf("%s: %w", f.Name, err)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return Null, fmt.Errorf("%s: %d overflows int", f.Name, n)
		}
		return Int(int32(n)), nil

	case KindLong:
		n, err := treeInt(tree)
		if err != nil {
			return Null, fmt.Errorf("%s: %w", f.Name, err)
		}
		return Long(n), nil

	case KindChar:
		switch t := tree.(type) {
		case string:
			units := utf16.Encode([]rune(t))
			if len(units) != 1 {
				return Null, fmt.Errorf("%s: char must be a single UTF-16 unit, got %q", f.Name, t)
			}
			return Char(units[0]), nil
		default:
			n, err := treeInt(tree)
			if err != nil || n < 0 || n > math.MaxUint16 {
				return Null, fmt.Errorf("%s: invalid char %v", f.Name, tree)
			}
			return Char(uint16(n)), nil
		}

	case KindBool:
		b, ok := tree.(bool)
		if !ok {
			return Null, fmt.Errorf("%s: expected boolean, got %T", f.Name, tree)
		}
		return Bool(b), nil

	case KindString:
		switch t := tree.(type) {
		case nil:
			return Null, nil
		case string:
			return String(t), nil
		}
		return Null, fmt.Errorf("%s: expected string, got %T", f.Name, tree)

	case KindObject:
		if f.Type == "Optional" {
			if tree == nil {
				return Ref(rt.None()), nil
			}
			obj, err := rt.ObjectFromTree(f.Elem, tree)
			if err != nil {
				return Null, fmt.Errorf("%s: %w", f.Name, err)
			}
			return Ref(rt.Some(obj)), nil
		}
		if tree == nil {
			return Null, nil
		}
		obj, err := rt.ObjectFromTree(f.Type, tree)
		if err != nil {
			return Null, fmt.Errorf("%s: %w", f.Name, err)
		}
		return Ref(obj), nil

	case KindList:
		if tree == nil {
			return Null, nil
		}
		seq, ok := tree.([]any)
		if !ok {
			return Null, fmt.Errorf("%s: expected list, got %T", f.Name, tree)
		}
		elems := make([]Value, len(seq))
		for i, e := range seq {
			obj, err := rt.ObjectFromTree(f.Elem, e)
			if err != nil {
				return Null, fmt.Errorf("%s[%d]: %w", f.Name, i, err)
			}
			elems[i] = Ref(obj)
		}
		return List(elems...), nil
	}
	return Null, fmt.Errorf("%s: unsupported kind %s", f.Name, f.Kind)
}

// ObjectFromTree builds a member of family from a decoded tree. A bare
// string names an enum constant or a variant without components.
func (rt *Runtime) ObjectFromTree(family string, tree any) (*Object, error) {
	if enum, ok := rt.catalog.Enum(family); ok {
		name, ok := tree.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected constant name, got %T", family, tree)
		}
		obj, err := rt.EnumConstant(enum.Name, name)
		if errors.Is(err, ErrNoSuchConstant) {
			return nil, &UnknownVariantError{Family: family, Tag: name}
		}
		return obj, err
	}

	var tag string
	var fields map[string]any
	switch t := tree.(type) {
	case string:
		tag = t
	case map[string]any:
		s, ok := t[TypeKey].(string)
		if !ok {
			return nil, fmt.Errorf("%s: missing %q discriminant", family, TypeKey)
		}
		tag, fields = s, t
	default:
		return nil, fmt.Errorf("%s: expected object, got %T", family, tree)
	}

	cls, ok := rt.catalog.Variant(family, tag)
	if !ok {
		return nil, &UnknownVariantError{Family: family, Tag: tag}
	}
	args := make([]Value, len(cls.Fields))
	for i, f := range cls.Fields {
		raw, present := fields[f.Name]
		if !present && f.Type != "Optional" {
			return nil, fmt.Errorf("%s.%s: missing field %q", family, tag, f.Name)
		}
		v, err := rt.FromTree(f, raw)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", family, tag, err)
		}
		args[i] = v
	}
	return rt.NewObject(cls.Name, args...)
}

// ToTree converts a value into plain maps, slices and scalars for encoding
func ToTree(v Value) any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt, KindLong:
		return v.num
	case KindChar:
		return string(utf16.Decode([]uint16{uint16(v.num)}))
	case KindBool:
		return v.num != 0
	case KindString:
		return v.str
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = ToTree(e)
		}
		return out
	case KindObject:
		obj := v.obj
		if obj.class.IsEnum() {
			return obj.name
		}
		if obj.class.Name == OptionalClass {
			return ToTree(obj.fields[0])
		}
		m := make(map[string]any, len(obj.fields)+1)
		m[TypeKey] = obj.class.Tag
		for i, f := range obj.class.Fields {
			m[f.Name] = ToTree(obj.fields[i])
		}
		return m
	}
	return nil
}

func treeInt(tree any) (int64, error) {
	switch t := tree.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows long", t)
		}
		return int64(t), nil
	case float64:
		// float64(MaxInt64) rounds up to 2^63, which int64 cannot hold
		if t != math.Trunc(t) || t < -(1<<63) || t >= 1<<63 {
			return 0, fmt.Errorf("%v is not an integer", t)
		}
		return int64(t), nil
	case json.Number:
		return t.Int64()
	}
	return 0, fmt.Errorf("expected integer, got %T", tree)
}
