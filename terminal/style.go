package terminal

import (
	"fmt"
	"strings"
)

// Attribute is a single SGR text attribute
type Attribute uint8

const (
	AttrReset Attribute = iota
	AttrBold
	AttrDim
	AttrItalic
	AttrUnderlined
	AttrDoubleUnderlined
	AttrUndercurled
	AttrUnderdotted
	AttrUnderdashed
	AttrSlowBlink
	AttrRapidBlink
	AttrReverse
	AttrHidden
	AttrCrossedOut
	AttrFraktur
	AttrNoBold
	AttrNormalIntensity
	AttrNoItalic
	AttrNoUnderline
	AttrNoBlink
	AttrNoReverse
	AttrNoHidden
	AttrNotCrossedOut
	AttrFramed
	AttrEncircled
	AttrOverLined
	AttrNotFramedOrEncircled
	AttrNotOverLined

	attributeCount
)

// AttributeCount is the number of defined attributes
const AttributeCount = int(attributeCount)

var attributeInfo = [attributeCount]struct {
	name string
	sgr  string
}{
	AttrReset:                {"Reset", "0"},
	AttrBold:                 {"Bold", "1"},
	AttrDim:                  {"Dim", "2"},
	AttrItalic:               {"Italic", "3"},
	AttrUnderlined:           {"Underlined", "4"},
	AttrDoubleUnderlined:     {"DoubleUnderlined", "4:2"},
	AttrUndercurled:          {"Undercurled", "4:3"},
	AttrUnderdotted:          {"Underdotted", "4:4"},
	AttrUnderdashed:          {"Underdashed", "4:5"},
	AttrSlowBlink:            {"SlowBlink", "5"},
	AttrRapidBlink:           {"RapidBlink", "6"},
	AttrReverse:              {"Reverse", "7"},
	AttrHidden:               {"Hidden", "8"},
	AttrCrossedOut:           {"CrossedOut", "9"},
	AttrFraktur:              {"Fraktur", "20"},
	AttrNoBold:               {"NoBold", "21"},
	AttrNormalIntensity:      {"NormalIntensity", "22"},
	AttrNoItalic:             {"NoItalic", "23"},
	AttrNoUnderline:          {"NoUnderline", "24"},
	AttrNoBlink:              {"NoBlink", "25"},
	AttrNoReverse:            {"NoReverse", "27"},
	AttrNoHidden:             {"NoHidden", "28"},
	AttrNotCrossedOut:        {"NotCrossedOut", "29"},
	AttrFramed:               {"Framed", "51"},
	AttrEncircled:            {"Encircled", "52"},
	AttrOverLined:            {"OverLined", "53"},
	AttrNotFramedOrEncircled: {"NotFramedOrEncircled", "54"},
	AttrNotOverLined:         {"NotOverLined", "55"},
}

func (a Attribute) String() string {
	if a < attributeCount {
		return attributeInfo[a].name
	}
	return fmt.Sprintf("Attribute(%d)", a)
}

// SGR returns the select-graphic-rendition parameter for the attribute
func (a Attribute) SGR() string {
	if a < attributeCount {
		return attributeInfo[a].sgr
	}
	return ""
}

// AttributeByName resolves a name as returned by Attribute.String
func AttributeByName(name string) (Attribute, bool) {
	for i := range attributeInfo {
		if attributeInfo[i].name == name {
			return Attribute(i), true
		}
	}
	return 0, false
}

// Attributes is a set of attributes, one bit per Attribute
type Attributes uint32

// With returns the set with a added
func (s Attributes) With(a Attribute) Attributes {
	return s | 1<<a
}

// Has reports whether a is in the set
func (s Attributes) Has(a Attribute) bool {
	return s&(1<<a) != 0
}

// IsEmpty reports whether no attribute is set
func (s Attributes) IsEmpty() bool {
	return s == 0
}

// List returns the members in declaration order
func (s Attributes) List() []Attribute {
	var out []Attribute
	for a := Attribute(0); a < attributeCount; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s Attributes) String() string {
	names := make([]string, 0, 4)
	for _, a := range s.List() {
		names = append(names, a.String())
	}
	return "[" + strings.Join(names, ",") + "]"
}

// Colors is an optional foreground and background pair
type Colors struct {
	Foreground *Color
	Background *Color
}

// ContentStyle bundles optional colors and a set of attributes
type ContentStyle struct {
	Foreground *Color
	Background *Color
	Underline  *Color
	Attributes Attributes
}

// CursorShape selects the DECSCUSR cursor style
type CursorShape uint8

const (
	CursorUnderScore CursorShape = iota
	CursorLine
	CursorBlock
)

var cursorShapeNames = [...]string{"UnderScore", "Line", "Block"}

func (s CursorShape) String() string {
	if int(s) < len(cursorShapeNames) {
		return cursorShapeNames[s]
	}
	return fmt.Sprintf("CursorShape(%d)", s)
}

// ClearType selects the region erased by a clear command
type ClearType uint8

const (
	ClearAll ClearType = iota
	ClearPurge
	ClearFromCursorDown
	ClearFromCursorUp
	ClearCurrentLine
	ClearUntilNewLine
)

var clearTypeNames = [...]string{"All", "Purge", "FromCursorDown", "FromCursorUp", "CurrentLine", "UntilNewLine"}

func (c ClearType) String() string {
	if int(c) < len(clearTypeNames) {
		return clearTypeNames[c]
	}
	return fmt.Sprintf("ClearType(%d)", c)
}

// KeyboardEnhancementFlags are the kitty progressive enhancement bits
type KeyboardEnhancementFlags uint8

const (
	KeyboardDisambiguateEscapeCodes KeyboardEnhancementFlags = 1 << iota
	KeyboardReportEventTypes
	KeyboardReportAlternateKeys
	KeyboardReportAllKeysAsEscapeCodes
	KeyboardReportAssociatedText

	keyboardFlagsAll = KeyboardDisambiguateEscapeCodes | KeyboardReportEventTypes |
		KeyboardReportAlternateKeys | KeyboardReportAllKeysAsEscapeCodes | KeyboardReportAssociatedText
)

// KeyboardFlagsFromBits keeps the defined bits and silently drops the rest
func KeyboardFlagsFromBits(bits uint32) KeyboardEnhancementFlags {
	return KeyboardEnhancementFlags(bits) & keyboardFlagsAll
}
