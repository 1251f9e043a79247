// @focus: #bridge { api }
package bridge

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/termbridge/host"
)

// Method is one entry point, callable by its host-side name
type Method struct {
	Name   string
	Params []host.Field
	invoke func(b *Bridge, env host.Env, args []host.Value) host.Value
}

func pInt(name string) host.Field { return intField(name) }

func pString(name string) host.Field { return host.Field{Name: name, Kind: host.KindString} }

func i32(v host.Value) int32 {
	n, _ := v.AsInt()
	return n
}

func ref(v host.Value) *host.Object {
	o, _ := v.AsObject()
	return o
}

func void(fn func(b *Bridge, env host.Env)) func(*Bridge, host.Env, []host.Value) host.Value {
	return func(b *Bridge, env host.Env, _ []host.Value) host.Value {
		fn(b, env)
		return host.Null
	}
}

var methodTable = []Method{
	{Name: "terminalSize", invoke: func(b *Bridge, env host.Env, _ []host.Value) host.Value {
		return host.Ref(b.TerminalSize(env))
	}},
	{Name: "cursorPosition", invoke: func(b *Bridge, env host.Env, _ []host.Value) host.Value {
		return host.Ref(b.CursorPosition(env))
	}},
	{Name: "poll", Params: []host.Field{objField("timeout", RecordDuration)},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			return host.Bool(b.Poll(env, ref(a[0])))
		}},
	{Name: "read", invoke: func(b *Bridge, env host.Env, _ []host.Value) host.Value {
		return host.Ref(b.Read(env))
	}},
	{Name: "enableRawMode", invoke: void((*Bridge).EnableRawMode)},
	{Name: "disableRawMode", invoke: void((*Bridge).DisableRawMode)},
	{Name: "flush", invoke: void((*Bridge).Flush)},
	{Name: "enqueue", Params: []host.Field{listField("commands", FamilyCommand)},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			b.Enqueue(env, a[0])
			return host.Null
		}},
	{Name: "execute", Params: []host.Field{listField("commands", FamilyCommand)},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			b.Execute(env, a[0])
			return host.Null
		}},
	{Name: "stats", invoke: func(b *Bridge, env host.Env, _ []host.Value) host.Value {
		lines := b.StatsLines(env)
		elems := make([]host.Value, len(lines))
		for i, l := range lines {
			elems[i] = host.String(l)
		}
		return host.List(elems...)
	}},

	// Cursor
	{Name: "enqueueCursorMoveTo", Params: []host.Field{pInt("x"), pInt("y")},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			b.EnqueueCursorMoveTo(env, i32(a[0]), i32(a[1]))
			return host.Null
		}},
	countMethod("enqueueCursorMoveToNextLine", "num_lines", (*Bridge).EnqueueCursorMoveToNextLine),
	countMethod("enqueueCursorMoveToPreviousLine", "num_lines", (*Bridge).EnqueueCursorMoveToPreviousLine),
	countMethod("enqueueCursorMoveToColumn", "column", (*Bridge).EnqueueCursorMoveToColumn),
	countMethod("enqueueCursorMoveToRow", "row", (*Bridge).EnqueueCursorMoveToRow),
	countMethod("enqueueCursorMoveUp", "num_rows", (*Bridge).EnqueueCursorMoveUp),
	countMethod("enqueueCursorMoveDown", "num_rows", (*Bridge).EnqueueCursorMoveDown),
	countMethod("enqueueCursorMoveLeft", "num_columns", (*Bridge).EnqueueCursorMoveLeft),
	countMethod("enqueueCursorMoveRight", "num_columns", (*Bridge).EnqueueCursorMoveRight),
	{Name: "enqueueCursorSavePosition", invoke: void((*Bridge).EnqueueCursorSavePosition)},
	{Name: "enqueueCursorRestorePosition", invoke: void((*Bridge).EnqueueCursorRestorePosition)},
	{Name: "enqueueCursorHide", invoke: void((*Bridge).EnqueueCursorHide)},
	{Name: "enqueueCursorShow", invoke: void((*Bridge).EnqueueCursorShow)},
	{Name: "enqueueCursorEnableBlinking", invoke: void((*Bridge).EnqueueCursorEnableBlinking)},
	{Name: "enqueueCursorDisableBlinking", invoke: void((*Bridge).EnqueueCursorDisableBlinking)},
	objectMethod("enqueueCursorSetCursorShape", objField("cursor_shape", FamilyCursorShape),
		(*Bridge).EnqueueCursorSetCursorShape),

	// Event modes
	{Name: "enqueueEventEnableMouseCapture", invoke: void((*Bridge).EnqueueEventEnableMouseCapture)},
	{Name: "enqueueEventDisableMouseCapture", invoke: void((*Bridge).EnqueueEventDisableMouseCapture)},
	{Name: "enqueueEventEnableFocusChange", invoke: void((*Bridge).EnqueueEventEnableFocusChange)},
	{Name: "enqueueEventDisableFocusChange", invoke: void((*Bridge).EnqueueEventDisableFocusChange)},
	{Name: "enqueueEventEnableBracketedPaste", invoke: void((*Bridge).EnqueueEventEnableBracketedPaste)},
	{Name: "enqueueEventDisableBracketedPaste", invoke: void((*Bridge).EnqueueEventDisableBracketedPaste)},
	objectMethod("enqueueEventPushKeyboardEnhancementFlags", objField("flags", RecordKeyboardFlags),
		(*Bridge).EnqueueEventPushKeyboardEnhancementFlags),
	{Name: "enqueueEventPopKeyboardEnhancementFlags", invoke: void((*Bridge).EnqueueEventPopKeyboardEnhancementFlags)},

	// Style
	objectMethod("enqueueStyleSetForegroundColor", objField("color", FamilyColor), (*Bridge).EnqueueStyleSetForegroundColor),
	objectMethod("enqueueStyleSetBackgroundColor", objField("color", FamilyColor), (*Bridge).EnqueueStyleSetBackgroundColor),
	objectMethod("enqueueStyleSetUnderlineColor", objField("color", FamilyColor), (*Bridge).EnqueueStyleSetUnderlineColor),
	{Name: "enqueueStyleSetColors",
		Params: []host.Field{optField("foreground", FamilyColor), optField("background", FamilyColor)},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			b.EnqueueStyleSetColors(env, ref(a[0]), ref(a[1]))
			return host.Null
		}},
	objectMethod("enqueueStyleSetAttribute", objField("attribute", FamilyAttribute), (*Bridge).EnqueueStyleSetAttribute),
	{Name: "enqueueStyleSetAttributes", Params: []host.Field{listField("attributes", FamilyAttribute)},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			b.EnqueueStyleSetAttributes(env, a[0])
			return host.Null
		}},
	{Name: "enqueueStyleSetStyle",
		Params: []host.Field{
			optField("foreground_color", FamilyColor),
			optField("background_color", FamilyColor),
			optField("underline_color", FamilyColor),
			listField("attributes", FamilyAttribute),
		},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			b.EnqueueStyleSetStyle(env, ref(a[0]), ref(a[1]), ref(a[2]), a[3])
			return host.Null
		}},
	{Name: "enqueueStyleResetColor", invoke: void((*Bridge).EnqueueStyleResetColor)},
	{Name: "enqueueStylePrint", Params: []host.Field{pString("text")},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			b.EnqueueStylePrint(env, a[0])
			return host.Null
		}},

	// Terminal
	{Name: "enqueueTerminalDisableLineWrap", invoke: void((*Bridge).EnqueueTerminalDisableLineWrap)},
	{Name: "enqueueTerminalEnableLineWrap", invoke: void((*Bridge).EnqueueTerminalEnableLineWrap)},
	{Name: "enqueueTerminalEnterAlternateScreen", invoke: void((*Bridge).EnqueueTerminalEnterAlternateScreen)},
	{Name: "enqueueTerminalLeaveAlternateScreen", invoke: void((*Bridge).EnqueueTerminalLeaveAlternateScreen)},
	countMethod("enqueueTerminalScrollUp", "num_rows", (*Bridge).EnqueueTerminalScrollUp),
	countMethod("enqueueTerminalScrollDown", "num_rows", (*Bridge).EnqueueTerminalScrollDown),
	{Name: "enqueueTerminalSetSize", Params: []host.Field{pInt("columns"), pInt("rows")},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			b.EnqueueTerminalSetSize(env, i32(a[0]), i32(a[1]))
			return host.Null
		}},
	objectMethod("enqueueTerminalClear", objField("clear_type", FamilyClearType), (*Bridge).EnqueueTerminalClear),
}

func countMethod(name, param string, fn func(*Bridge, host.Env, int32)) Method {
	return Method{Name: name, Params: []host.Field{pInt(param)},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			fn(b, env, i32(a[0]))
			return host.Null
		}}
}

func objectMethod(name string, param host.Field, fn func(*Bridge, host.Env, *host.Object)) Method {
	return Method{Name: name, Params: []host.Field{param},
		invoke: func(b *Bridge, env host.Env, a []host.Value) host.Value {
			fn(b, env, ref(a[0]))
			return host.Null
		}}
}

var methodIndex = func() map[string]int {
	idx := make(map[string]int, len(methodTable))
	for i, m := range methodTable {
		idx[m.Name] = i
	}
	return idx
}()

// LookupMethod finds an entry point by host-side name
func LookupMethod(name string) (Method, bool) {
	i, ok := methodIndex[name]
	if !ok {
		return Method{}, false
	}
	return methodTable[i], true
}

// MethodNames lists every entry point name in sorted order
func MethodNames() []string {
	names := make([]string, 0, len(methodTable))
	for _, m := range methodTable {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

// Invoke calls the named entry point with positional arguments. Unknown
// names, wrong arity and mismatched argument kinds raise a boundary call
// failure through env.
func (b *Bridge) Invoke(env host.Env, name string, args []host.Value) host.Value {
	m, ok := LookupMethod(name)
	if !ok {
		Raise(env, CallError(fmt.Errorf("%w: %s", host.ErrNoSuchMethod, name)))
		return host.Null
	}
	if len(args) != len(m.Params) {
		Raise(env, CallError(fmt.Errorf("%s: %w: want %d, got %d", name, host.ErrArity, len(m.Params), len(args))))
		return host.Null
	}
	for i, p := range m.Params {
		if !acceptable(p.Kind, args[i]) {
			Raise(env, CallError(fmt.Errorf("%s(%s): %w", name, p.Name,
				&host.MismatchError{Want: p.Kind, Got: args[i].Kind()})))
			return host.Null
		}
	}
	return m.invoke(b, env, args)
}

func acceptable(k host.Kind, v host.Value) bool {
	if v.Kind() == k {
		return true
	}
	return v.IsNull() && (k == host.KindObject || k == host.KindString || k == host.KindList)
}
