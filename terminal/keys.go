// @focus: #sys { io } #input { keys }
package terminal

// csiFinalKeys maps CSI final bytes to keys (ESC [ [1;mod] X)
var csiFinalKeys = map[byte]KeyCode{
	'A': Key(KeyUp),
	'B': Key(KeyDown),
	'C': Key(KeyRight),
	'D': Key(KeyLeft),
	'H': Key(KeyHome),
	'F': Key(KeyEnd),
	'E': Key(KeyKeypadBegin),
	'P': FKey(1),
	'Q': FKey(2),
	'S': FKey(4),
	// 'R' is F3 unless a cursor position report is pending
	'R': FKey(3),
}

// ss3Keys maps SS3 final bytes to keys (ESC O X)
var ss3Keys = map[byte]KeyCode{
	'A': Key(KeyUp),
	'B': Key(KeyDown),
	'C': Key(KeyRight),
	'D': Key(KeyLeft),
	'H': Key(KeyHome),
	'F': Key(KeyEnd),
	'P': FKey(1),
	'Q': FKey(2),
	'R': FKey(3),
	'S': FKey(4),
}

// tildeKeys maps the first parameter of ESC [ N [;mod] ~
var tildeKeys = map[int]KeyCode{
	1:  Key(KeyHome),
	2:  Key(KeyInsert),
	3:  Key(KeyDelete),
	4:  Key(KeyEnd),
	5:  Key(KeyPageUp),
	6:  Key(KeyPageDown),
	7:  Key(KeyHome),
	8:  Key(KeyEnd),
	11: FKey(1),
	12: FKey(2),
	13: FKey(3),
	14: FKey(4),
	15: FKey(5),
	17: FKey(6),
	18: FKey(7),
	19: FKey(8),
	20: FKey(9),
	21: FKey(10),
	23: FKey(11),
	24: FKey(12),
	25: FKey(13),
	26: FKey(14),
	28: FKey(15),
	29: FKey(16),
	31: FKey(17),
	32: FKey(18),
	33: FKey(19),
	34: FKey(20),
}

// linuxConsoleKeys maps ESC [ [ X (linux console function keys)
var linuxConsoleKeys = map[byte]KeyCode{
	'A': FKey(1),
	'B': FKey(2),
	'C': FKey(3),
	'D': FKey(4),
	'E': FKey(5),
}

// Kitty keyboard protocol functional key code points
const (
	kittyF13           = 57376
	kittyF35           = 57398
	kittyKeypadFirst   = 57399
	kittyKeypadBegin   = 57427
	kittyMediaFirst    = 57428
	kittyMediaLast     = 57440
	kittyModifierFirst = 57441
	kittyModifierLast  = 57454
)

var kittyFunctionalKeys = map[int]KeyCode{
	27:    Key(KeyEsc),
	13:    Key(KeyEnter),
	9:     Key(KeyTab),
	127:   Key(KeyBackspace),
	57358: Key(KeyCapsLock),
	57359: Key(KeyScrollLock),
	57360: Key(KeyNumLock),
	57361: Key(KeyPrintScreen),
	57362: Key(KeyPause),
	57363: Key(KeyMenu),
}

// kittyKeypad maps keypad code points 57399..57427 in order
var kittyKeypad = [...]KeyCode{
	Char('0'), Char('1'), Char('2'), Char('3'), Char('4'),
	Char('5'), Char('6'), Char('7'), Char('8'), Char('9'),
	Char('.'), Char('/'), Char('*'), Char('-'), Char('+'),
	Key(KeyEnter), Char('='), Char(','),
	Key(KeyLeft), Key(KeyRight), Key(KeyUp), Key(KeyDown),
	Key(KeyPageUp), Key(KeyPageDown), Key(KeyHome), Key(KeyEnd),
	Key(KeyInsert), Key(KeyDelete), Key(KeyKeypadBegin),
}

// modifierKeyMask gives the modifier implied by pressing a modifier key
var modifierKeyMask = [modifierKeyCodeCount]KeyModifiers{
	ModKeyLeftShift:    ModShift,
	ModKeyLeftControl:  ModControl,
	ModKeyLeftAlt:      ModAlt,
	ModKeyLeftSuper:    ModSuper,
	ModKeyLeftHyper:    ModHyper,
	ModKeyLeftMeta:     ModMeta,
	ModKeyRightShift:   ModShift,
	ModKeyRightControl: ModControl,
	ModKeyRightAlt:     ModAlt,
	ModKeyRightSuper:   ModSuper,
	ModKeyRightHyper:   ModHyper,
	ModKeyRightMeta:    ModMeta,
}

// kittyKey resolves a kitty code point, reporting keypad origin
func kittyKey(cp int) (KeyCode, KeyEventState, bool) {
	if k, ok := kittyFunctionalKeys[cp]; ok {
		return k, StateNone, true
	}
	switch {
	case cp >= kittyF13 && cp <= kittyF35:
		return FKey(uint8(13 + cp - kittyF13)), StateNone, true
	case cp >= kittyKeypadFirst && cp <= kittyKeypadBegin:
		return kittyKeypad[cp-kittyKeypadFirst], StateKeypad, true
	case cp >= kittyMediaFirst && cp <= kittyMediaLast:
		return KeyCode{Kind: KeyMedia, Media: MediaKeyCode(cp - kittyMediaFirst)}, StateNone, true
	case cp >= kittyModifierFirst && cp <= kittyModifierLast:
		return KeyCode{Kind: KeyModifier, Modifier: ModifierKeyCode(cp - kittyModifierFirst)}, StateNone, true
	case cp >= 0 && cp <= 0x10FFFF:
		return Char(rune(cp)), StateNone, true
	}
	return KeyCode{}, StateNone, false
}

// wireModifiers is the xterm/kitty modifier bit order: shift, alt, ctrl, super, hyper, meta
var wireModifiers = [...]KeyModifiers{ModShift, ModAlt, ModControl, ModSuper, ModHyper, ModMeta}

// decodeModifierParam converts an xterm/kitty modifier parameter (1 + bits)
func decodeModifierParam(p int) (KeyModifiers, KeyEventState) {
	if p <= 1 {
		return ModNone, StateNone
	}
	mask := p - 1
	var mods KeyModifiers
	for bit, m := range wireModifiers {
		if mask&(1<<bit) != 0 {
			mods |= m
		}
	}
	var state KeyEventState
	if mask&64 != 0 {
		state |= StateCapsLock
	}
	if mask&128 != 0 {
		state |= StateNumLock
	}
	return mods, state
}

// decodeKittyKind converts the kitty event-type subparameter
func decodeKittyKind(p int) KeyEventKind {
	switch p {
	case 2:
		return KeyRepeat
	case 3:
		return KeyRelease
	}
	return KeyPress
}
