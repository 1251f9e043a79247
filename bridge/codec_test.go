package bridge

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/termbridge/host"
	"github.com/lixenwraith/termbridge/terminal"
)

func newTestRuntime(t *testing.T, extra ...*host.Class) *host.Runtime {
	t.Helper()
	cat, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	for _, cls := range extra {
		if err := cat.Add(cls); err != nil {
			t.Fatalf("Add %s: %v", cls.Name, err)
		}
	}
	return host.NewRuntime(cat)
}

func mustObject(t *testing.T, rt *host.Runtime, class string, args ...host.Value) *host.Object {
	t.Helper()
	obj, err := rt.NewObject(class, args...)
	if err != nil {
		t.Fatalf("NewObject %s: %v", class, err)
	}
	return obj
}

// expectDecodeError runs fn and requires a *DecodeError panic
func expectDecodeError(t *testing.T, fn func()) *DecodeError {
	t.Helper()
	var de *DecodeError
	func() {
		defer func() {
			r := recover()
			var ok bool
			if de, ok = r.(*DecodeError); !ok {
				t.Fatalf("expected *DecodeError panic, got %v", r)
			}
		}()
		fn()
	}()
	return de
}

func TestColor_RoundTrip(t *testing.T) {
	rt := newTestRuntime(t)
	colors := []terminal.Color{terminal.Rgb(1, 2, 3), terminal.AnsiValue(200)}
	for k := terminal.ColorReset; k < terminal.ColorRgb; k++ {
		colors = append(colors, terminal.Color{Kind: k})
	}

	for _, c := range colors {
		t.Run(c.String(), func(t *testing.T) {
			obj, err := EncodeColor(rt, c)
			if err != nil {
				t.Fatalf("EncodeColor: %v", err)
			}
			got, err := DecodeColor(rt, obj)
			if err != nil {
				t.Fatalf("DecodeColor: %v", err)
			}
			if got != c {
				t.Errorf("round trip = %v, want %v", got, c)
			}
		})
	}
}

func TestEnums_RoundTrip(t *testing.T) {
	rt := newTestRuntime(t)
	for i := 0; i < terminal.AttributeCount; i++ {
		a := terminal.Attribute(i)
		obj, err := EncodeAttribute(rt, a)
		if err != nil {
			t.Fatalf("EncodeAttribute %v: %v", a, err)
		}
		if got, _ := DecodeAttribute(rt, obj); got != a {
			t.Errorf("attribute %v round trip = %v", a, got)
		}
	}
	for _, s := range cursorShapes {
		obj, _ := EncodeCursorShape(rt, s)
		if got, _ := DecodeCursorShape(rt, obj); got != s {
			t.Errorf("cursor shape %v round trip = %v", s, got)
		}
	}
	for _, c := range clearTypes {
		obj, _ := EncodeClearType(rt, c)
		if got, _ := DecodeClearType(rt, obj); got != c {
			t.Errorf("clear type %v round trip = %v", c, got)
		}
	}
}

func TestAttributes_RoundTrip(t *testing.T) {
	rt := newTestRuntime(t)
	tests := []struct {
		name string
		set  terminal.Attributes
		want []string
	}{
		{"empty", 0, []string{}},
		{"single", terminal.Attributes(0).With(terminal.AttrItalic), []string{"Italic"}},
		{"declaration order", terminal.Attributes(0).With(terminal.AttrNotOverLined).With(terminal.AttrBold).With(terminal.AttrReverse),
			[]string{"Bold", "Reverse", "NotOverLined"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := EncodeAttributes(rt, tc.set)
			if err != nil {
				t.Fatalf("EncodeAttributes: %v", err)
			}
			tree, _ := host.ToTree(list).([]any)
			if len(tree) != len(tc.want) {
				t.Fatalf("encoded %v, want %v", tree, tc.want)
			}
			for i, name := range tc.want {
				if tree[i] != name {
					t.Errorf("[%d] = %v, want %s", i, tree[i], name)
				}
			}
			got, err := DecodeAttributeList(rt, list)
			if err != nil || got != tc.set {
				t.Errorf("round trip = %v, %v; want %v", got, err, tc.set)
			}
		})
	}
}

func TestDecodeColor_Rgb(t *testing.T) {
	rt := newTestRuntime(t)
	obj := mustObject(t, rt, VariantClass(FamilyColor, "Rgb"), host.Int(1), host.Int(2), host.Int(3))
	c, err := DecodeColor(rt, obj)
	if err != nil {
		t.Fatalf("DecodeColor: %v", err)
	}
	if c != terminal.Rgb(1, 2, 3) {
		t.Errorf("got %v, want Rgb(1,2,3)", c)
	}
}

func TestDecodeColor_ComponentsKeepLowByte(t *testing.T) {
	rt := newTestRuntime(t)
	obj := mustObject(t, rt, VariantClass(FamilyColor, "AnsiValue"), host.Int(300))
	c, err := DecodeColor(rt, obj)
	if err != nil {
		t.Fatalf("DecodeColor: %v", err)
	}
	if c.Index != 44 {
		t.Errorf("index = %d, want 44", c.Index)
	}
}

func TestDecodeColor_UnknownTag(t *testing.T) {
	rt := newTestRuntime(t, &host.Class{
		Name:   VariantClass(FamilyColor, "Chartreuse"),
		Family: FamilyColor,
		Tag:    "Chartreuse",
	})
	obj := mustObject(t, rt, VariantClass(FamilyColor, "Chartreuse"))
	de := expectDecodeError(t, func() { _, _ = DecodeColor(rt, obj) })
	if de.Family != FamilyColor || de.Tag != "Chartreuse" {
		t.Errorf("DecodeError = %+v", de)
	}
}

func TestDecodeOptionalColor(t *testing.T) {
	rt := newTestRuntime(t)

	got, err := DecodeOptionalColor(rt, rt.None())
	if err != nil || got != nil {
		t.Fatalf("empty optional = %v, %v", got, err)
	}

	blue := mustObject(t, rt, VariantClass(FamilyColor, "Blue"))
	got, err = DecodeOptionalColor(rt, rt.Some(blue))
	if err != nil {
		t.Fatalf("DecodeOptionalColor: %v", err)
	}
	if got == nil || got.Kind != terminal.ColorBlue {
		t.Errorf("got %v, want Blue", got)
	}
}

func TestDecodeAttributeList_OrderIndependent(t *testing.T) {
	rt := newTestRuntime(t)
	bold, _ := EncodeAttribute(rt, terminal.AttrBold)
	italic, _ := EncodeAttribute(rt, terminal.AttrItalic)

	a, err := DecodeAttributeList(rt, host.List(host.Ref(bold), host.Ref(italic)))
	if err != nil {
		t.Fatalf("decode [Bold, Italic]: %v", err)
	}
	b, err := DecodeAttributeList(rt, host.List(host.Ref(italic), host.Ref(bold)))
	if err != nil {
		t.Fatalf("decode [Italic, Bold]: %v", err)
	}
	if a != b {
		t.Errorf("sets differ: %v vs %v", a, b)
	}
	if !a.Has(terminal.AttrBold) || !a.Has(terminal.AttrItalic) {
		t.Errorf("set %v missing members", a)
	}

	empty, err := DecodeAttributeList(rt, host.List())
	if err != nil || !empty.IsEmpty() {
		t.Errorf("empty list = %v, %v", empty, err)
	}
}

func TestDecodeKeyboardEnhancementFlags_Truncates(t *testing.T) {
	rt := newTestRuntime(t)
	obj := mustObject(t, rt, EnumClass(RecordKeyboardFlags), host.Int(0xFF))
	flags, err := DecodeKeyboardEnhancementFlags(rt, obj)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if flags != 0x1F {
		t.Errorf("flags = %#x, want 0x1f", flags)
	}
}

func TestDecodeDuration(t *testing.T) {
	rt := newTestRuntime(t)
	tests := []struct {
		name  string
		secs  int64
		nanos int32
		want  time.Duration
	}{
		{"zero", 0, 0, 0},
		{"mixed", 1, 500, time.Second + 500},
		{"negative clamps", -3, -1, 0},
		{"saturates", 1 << 62, 0, time.Duration(1<<63 - 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obj := mustObject(t, rt, EnumClass(RecordDuration), host.Long(tc.secs), host.Int(tc.nanos))
			got, err := DecodeDuration(rt, obj)
			if err != nil {
				t.Fatalf("DecodeDuration: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNarrowU16(t *testing.T) {
	if v, err := narrowU16("x", 65535); err != nil || v != 65535 {
		t.Errorf("65535 = %d, %v", v, err)
	}
	for _, n := range []int64{-1, 65536, 100000} {
		_, err := narrowU16("x", n)
		var e *Error
		if !errors.As(err, &e) || e.Origin != OriginRange || e.Value != n {
			t.Errorf("%d: err = %v, want range violation", n, err)
		}
	}
}

func TestUnify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Origin
	}{
		{"plain", errors.New("write failed"), OriginIO},
		{"call", &host.CallError{Op: "GetField", Target: "x", Err: host.ErrNoSuchField}, OriginCall},
		{"exception", &host.Exception{Class: "X"}, OriginCall},
		{"pending", host.ErrExceptionPending, OriginCall},
		{"range", RangeError("x", 70000, 16), OriginRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Unify(tc.err).Origin; got != tc.want {
				t.Errorf("origin = %v, want %v", got, tc.want)
			}
		})
	}
}
