// @focus: #bridge { codec }
package bridge

import (
	"math"
	"time"

	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/terminal"
)

var cursorShapes = [...]terminal.CursorShape{
	terminal.CursorUnderScore,
	terminal.CursorLine,
	terminal.CursorBlock,
}

var clearTypes = [...]terminal.ClearType{
	terminal.ClearAll,
	terminal.ClearPurge,
	terminal.ClearFromCursorDown,
	terminal.ClearFromCursorUp,
	terminal.ClearCurrentLine,
	terminal.ClearUntilNewLine,
}

var (
	namedColors     = make(map[string]terminal.ColorKind)
	cursorShapeTags = make(map[string]terminal.CursorShape)
	clearTypeTags   = make(map[string]terminal.ClearType)
)

func init() {
	for k := terminal.ColorReset; k < terminal.ColorRgb; k++ {
		namedColors[k.String()] = k
	}
	for _, s := range cursorShapes {
		cursorShapeTags[s.String()] = s
	}
	for _, c := range clearTypes {
		clearTypeTags[c.String()] = c
	}
}

// --- Field access ---

func tagOf(env host.Env, obj *host.Object) (string, error) {
	tag, err := env.Tag(obj)
	if err != nil {
		return "", CallError(err)
	}
	return tag, nil
}

func readInt(env host.Env, obj *host.Object, name string) (int32, error) {
	v, err := env.GetField(obj, name, host.KindInt)
	if err != nil {
		return 0, CallError(err)
	}
	n, err := v.AsInt()
	if err != nil {
		return 0, CallError(err)
	}
	return n, nil
}

func readLong(env host.Env, obj *host.Object, name string) (int64, error) {
	v, err := env.GetField(obj, name, host.KindLong)
	if err != nil {
		return 0, CallError(err)
	}
	n, err := v.AsLong()
	if err != nil {
		return 0, CallError(err)
	}
	return n, nil
}

// readU8 keeps the low byte; producers guarantee the range
func readU8(env host.Env, obj *host.Object, name string) (uint8, error) {
	n, err := readInt(env, obj, name)
	return uint8(n), err
}

func readU16(env host.Env, obj *host.Object, name string) (uint16, error) {
	n, err := readInt(env, obj, name)
	if err != nil {
		return 0, err
	}
	return narrowU16(name, int64(n))
}

func narrowU16(field string, n int64) (uint16, error) {
	if n < 0 || n > math.MaxUint16 {
		return 0, RangeError(field, n, 16)
	}
	return uint16(n), nil
}

func readObject(env host.Env, obj *host.Object, name string) (*host.Object, error) {
	v, err := env.GetField(obj, name, host.KindObject)
	if err != nil {
		return nil, CallError(err)
	}
	o, err := v.AsObject()
	if err != nil {
		return nil, CallError(err)
	}
	return o, nil
}

func readString(env host.Env, obj *host.Object, name string) (string, error) {
	v, err := env.GetField(obj, name, host.KindString)
	if err != nil {
		return "", CallError(err)
	}
	s, err := v.AsString()
	if err != nil {
		return "", CallError(err)
	}
	return s, nil
}

// --- Decoders ---

// DecodeColor reads a Color variant
func DecodeColor(env host.Env, obj *host.Object) (terminal.Color, error) {
	tag, err := tagOf(env, obj)
	if err != nil {
		return terminal.Color{}, err
	}
	switch tag {
	case "Rgb":
		r, err := readU8(env, obj, "r")
		if err != nil {
			return terminal.Color{}, err
		}
		g, err := readU8(env, obj, "g")
		if err != nil {
			return terminal.Color{}, err
		}
		b, err := readU8(env, obj, "b")
		if err != nil {
			return terminal.Color{}, err
		}
		return terminal.Rgb(r, g, b), nil
	case "AnsiValue":
		idx, err := readU8(env, obj, "color")
		if err != nil {
			return terminal.Color{}, err
		}
		return terminal.AnsiValue(idx), nil
	}
	kind, ok := namedColors[tag]
	if !ok {
		unknownTag(FamilyColor, tag)
	}
	return terminal.Color{Kind: kind}, nil
}

// DecodeOptionalColor reads an optional Color; an empty optional yields nil
func DecodeOptionalColor(env host.Env, opt *host.Object) (*terminal.Color, error) {
	v, err := env.CallMethod(opt, "isEmpty")
	if err != nil {
		return nil, CallError(err)
	}
	empty, err := v.AsBool()
	if err != nil {
		return nil, CallError(err)
	}
	if empty {
		return nil, nil
	}

	v, err = env.CallMethod(opt, "get")
	if err != nil {
		return nil, CallError(err)
	}
	obj, err := v.AsObject()
	if err != nil {
		return nil, CallError(err)
	}
	c, err := DecodeColor(env, obj)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeOptionalColorField(env host.Env, obj *host.Object, name string) (*terminal.Color, error) {
	opt, err := readObject(env, obj, name)
	if err != nil {
		return nil, err
	}
	return DecodeOptionalColor(env, opt)
}

// DecodeAttribute reads an Attribute constant
func DecodeAttribute(env host.Env, obj *host.Object) (terminal.Attribute, error) {
	tag, err := tagOf(env, obj)
	if err != nil {
		return 0, err
	}
	a, ok := terminal.AttributeByName(tag)
	if !ok {
		unknownTag(FamilyAttribute, tag)
	}
	return a, nil
}

// DecodeAttributeList folds a list of Attribute constants into a set
func DecodeAttributeList(env host.Env, list host.Value) (terminal.Attributes, error) {
	elems, err := env.Elements(list)
	if err != nil {
		return 0, CallError(err)
	}
	var set terminal.Attributes
	for _, e := range elems {
		obj, err := e.AsObject()
		if err != nil {
			return 0, CallError(err)
		}
		a, err := DecodeAttribute(env, obj)
		if err != nil {
			return 0, err
		}
		set = set.With(a)
	}
	return set, nil
}

// DecodeAttributes reads the attributes accessor of a record and folds it into a set
func DecodeAttributes(env host.Env, obj *host.Object) (terminal.Attributes, error) {
	list, err := env.CallMethod(obj, "attributes")
	if err != nil {
		return 0, CallError(err)
	}
	return DecodeAttributeList(env, list)
}

// DecodeCursorShape reads a CursorShape constant
func DecodeCursorShape(env host.Env, obj *host.Object) (terminal.CursorShape, error) {
	tag, err := tagOf(env, obj)
	if err != nil {
		return 0, err
	}
	s, ok := cursorShapeTags[tag]
	if !ok {
		unknownTag(FamilyCursorShape, tag)
	}
	return s, nil
}

// DecodeClearType reads a ClearType constant
func DecodeClearType(env host.Env, obj *host.Object) (terminal.ClearType, error) {
	tag, err := tagOf(env, obj)
	if err != nil {
		return 0, err
	}
	c, ok := clearTypeTags[tag]
	if !ok {
		unknownTag(FamilyClearType, tag)
	}
	return c, nil
}

// DecodeKeyboardEnhancementFlags reads the bits of a KeyboardEnhancementFlags
// record. Undefined bits are dropped.
func DecodeKeyboardEnhancementFlags(env host.Env, obj *host.Object) (terminal.KeyboardEnhancementFlags, error) {
	bits, err := readInt(env, obj, "bits")
	if err != nil {
		return 0, err
	}
	return terminal.KeyboardFlagsFromBits(uint32(bits)), nil
}

// DecodeDuration reads a Duration record. Negative parts count as zero and
// durations past the native range saturate.
func DecodeDuration(env host.Env, obj *host.Object) (time.Duration, error) {
	secs, err := readLong(env, obj, "secs")
	if err != nil {
		return 0, err
	}
	nanos, err := readInt(env, obj, "nanos")
	if err != nil {
		return 0, err
	}
	if secs < 0 {
		secs = 0
	}
	if nanos < 0 {
		nanos = 0
	}
	if secs > (math.MaxInt64-int64(nanos))/int64(time.Second) {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(secs)*time.Second + time.Duration(nanos), nil
}

// --- Encoders ---
// Records are allocated on every call; enum constants are the host's own singletons.

func newVariant(env host.Env, family, tag string, args ...host.Value) (*host.Object, error) {
	obj, err := env.NewObject(VariantClass(family, tag), args...)
	if err != nil {
		return nil, CallError(err)
	}
	return obj, nil
}

func newStandalone(env host.Env, name string, args ...host.Value) (*host.Object, error) {
	obj, err := env.NewObject(EnumClass(name), args...)
	if err != nil {
		return nil, CallError(err)
	}
	return obj, nil
}

func enumConstant(env host.Env, family, name string) (*host.Object, error) {
	obj, err := env.EnumConstant(EnumClass(family), name)
	if err != nil {
		return nil, CallError(err)
	}
	return obj, nil
}

// EncodeColor allocates the foreign Color variant for c
func EncodeColor(env host.Env, c terminal.Color) (*host.Object, error) {
	switch c.Kind {
	case terminal.ColorRgb:
		return newVariant(env, FamilyColor, "Rgb",
			host.Int(int32(c.R)), host.Int(int32(c.G)), host.Int(int32(c.B)))
	case terminal.ColorAnsiValue:
		return newVariant(env, FamilyColor, "AnsiValue", host.Int(int32(c.Index)))
	}
	return newVariant(env, FamilyColor, c.Kind.String())
}

func EncodeAttribute(env host.Env, a terminal.Attribute) (*host.Object, error) {
	return enumConstant(env, FamilyAttribute, a.String())
}

func EncodeCursorShape(env host.Env, s terminal.CursorShape) (*host.Object, error) {
	return enumConstant(env, FamilyCursorShape, s.String())
}

func EncodeClearType(env host.Env, c terminal.ClearType) (*host.Object, error) {
	return enumConstant(env, FamilyClearType, c.String())
}

// EncodeAttributes produces a list of Attribute constants in declaration order
func EncodeAttributes(env host.Env, set terminal.Attributes) (host.Value, error) {
	attrs := set.List()
	elems := make([]host.Value, len(attrs))
	for i, a := range attrs {
		obj, err := EncodeAttribute(env, a)
		if err != nil {
			return host.Null, err
		}
		elems[i] = host.Ref(obj)
	}
	return host.List(elems...), nil
}
