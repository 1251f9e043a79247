package terminal

import (
	"bytes"
	"fmt"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// ParseColorMode accepts "truecolor", "24bit" or "256"
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "truecolor", "24bit":
		return ColorModeTrueColor, nil
	case "256":
		return ColorMode256, nil
	}
	return ColorMode256, fmt.Errorf("unknown color mode %q", s)
}

// ColorKind selects the color variant
type ColorKind uint8

const (
	ColorReset ColorKind = iota
	ColorBlack
	ColorDarkGrey
	ColorRed
	ColorDarkRed
	ColorGreen
	ColorDarkGreen
	ColorYellow
	ColorDarkYellow
	ColorBlue
	ColorDarkBlue
	ColorMagenta
	ColorDarkMagenta
	ColorCyan
	ColorDarkCyan
	ColorWhite
	ColorGrey
	ColorRgb
	ColorAnsiValue
)

var colorKindNames = [...]string{
	ColorReset:       "Reset",
	ColorBlack:       "Black",
	ColorDarkGrey:    "DarkGrey",
	ColorRed:         "Red",
	ColorDarkRed:     "DarkRed",
	ColorGreen:       "Green",
	ColorDarkGreen:   "DarkGreen",
	ColorYellow:      "Yellow",
	ColorDarkYellow:  "DarkYellow",
	ColorBlue:        "Blue",
	ColorDarkBlue:    "DarkBlue",
	ColorMagenta:     "Magenta",
	ColorDarkMagenta: "DarkMagenta",
	ColorCyan:        "Cyan",
	ColorDarkCyan:    "DarkCyan",
	ColorWhite:       "White",
	ColorGrey:        "Grey",
	ColorRgb:         "Rgb",
	ColorAnsiValue:   "AnsiValue",
}

func (k ColorKind) String() string {
	if int(k) < len(colorKindNames) {
		return colorKindNames[k]
	}
	return fmt.Sprintf("ColorKind(%d)", k)
}

// namedPalette maps named colors to their xterm palette index
var namedPalette = [...]uint8{
	ColorBlack:       0,
	ColorDarkRed:     1,
	ColorDarkGreen:   2,
	ColorDarkYellow:  3,
	ColorDarkBlue:    4,
	ColorDarkMagenta: 5,
	ColorDarkCyan:    6,
	ColorGrey:        7,
	ColorDarkGrey:    8,
	ColorRed:         9,
	ColorGreen:       10,
	ColorYellow:      11,
	ColorBlue:        12,
	ColorMagenta:     13,
	ColorCyan:        14,
	ColorWhite:       15,
}

// Color is a terminal color: a named variant, a 24-bit RGB value or a palette index
type Color struct {
	Kind    ColorKind
	R, G, B uint8 // ColorRgb
	Index   uint8 // ColorAnsiValue
}

// Rgb returns a 24-bit color
func Rgb(r, g, b uint8) Color {
	return Color{Kind: ColorRgb, R: r, G: g, B: b}
}

// AnsiValue returns a 256-palette color
func AnsiValue(index uint8) Color {
	return Color{Kind: ColorAnsiValue, Index: index}
}

func (c Color) String() string {
	switch c.Kind {
	case ColorRgb:
		return fmt.Sprintf("Rgb(%d,%d,%d)", c.R, c.G, c.B)
	case ColorAnsiValue:
		return fmt.Sprintf("AnsiValue(%d)", c.Index)
	}
	return c.Kind.String()
}

// colorLayer selects the SGR parameter family
type colorLayer uint8

const (
	layerFg colorLayer = iota
	layerBg
	layerUnderline
)

var (
	layerBase    = [3]int{38, 48, 58}
	layerDefault = [3]int{39, 49, 59}
)

// writeColorParams writes SGR parameters for c without CSI prefix or terminator
func writeColorParams(w *bytes.Buffer, layer colorLayer, c Color, mode ColorMode) {
	switch c.Kind {
	case ColorReset:
		writeInt(w, layerDefault[layer])
	case ColorRgb:
		writeInt(w, layerBase[layer])
		if mode == ColorModeTrueColor {
			w.WriteString(";2;")
			writeInt(w, int(c.R))
			w.WriteByte(';')
			writeInt(w, int(c.G))
			w.WriteByte(';')
			writeInt(w, int(c.B))
			return
		}
		w.WriteString(";5;")
		writeInt(w, int(RGBTo256(c.R, c.G, c.B)))
	case ColorAnsiValue:
		writeInt(w, layerBase[layer])
		w.WriteString(";5;")
		writeInt(w, int(c.Index))
	default:
		writeInt(w, layerBase[layer])
		w.WriteString(";5;")
		if int(c.Kind) < len(namedPalette) {
			writeInt(w, int(namedPalette[c.Kind]))
		}
	}
}

// writeColor writes a complete SGR sequence for a single color layer
func writeColor(w *bytes.Buffer, layer colorLayer, c Color, mode ColorMode) {
	w.Write(csi)
	writeColorParams(w, layer, c, mode)
	w.WriteByte('m')
}

// Color cube values for 6x6x6 palette (indices 16-231)
// Levels: 0, 95, 135, 175, 215, 255
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// cubeIndex maps 0-255 to nearest cube index 0-5
var cubeIndex [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		best := 0
		bestDist := abs(i - int(cubeValues[0]))
		for j := 1; j < 6; j++ {
			d := abs(i - int(cubeValues[j]))
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		cubeIndex[i] = uint8(best)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 finds the nearest 256-color palette index for an RGB value
func RGBTo256(r, g, b uint8) uint8 {
	// Grayscale ramp: 232-255 maps to luminance 8, 18, 28, ..., 238
	gray := (int(r) + int(g) + int(b)) / 3
	maxDiff := max(abs(int(r)-gray), abs(int(g)-gray), abs(int(b)-gray))

	if maxDiff < 10 {
		if gray < 4 {
			return 16
		}
		if gray > 243 {
			return 231
		}
		grayIdx := 232 + (gray-8)/10
		if grayIdx > 255 {
			grayIdx = 255
		}

		grayLevel := 8 + (grayIdx-232)*10
		grayDist := abs(int(r)-grayLevel) + abs(int(g)-grayLevel) + abs(int(b)-grayLevel)

		cubeR, cubeG, cubeB := cubeIndex[r], cubeIndex[g], cubeIndex[b]
		cubeDist := abs(int(r)-int(cubeValues[cubeR])) +
			abs(int(g)-int(cubeValues[cubeG])) +
			abs(int(b)-int(cubeValues[cubeB]))

		if grayDist < cubeDist {
			return uint8(grayIdx)
		}
	}

	return 16 + 36*cubeIndex[r] + 6*cubeIndex[g] + cubeIndex[b]
}
