package terminal

import (
	"os"
	"strings"
)

// colorModeEnv overrides detection when set to a ParseColorMode value
const colorModeEnv = "TERMBRIDGE_COLOR"

// truecolorEnv are variables set only by terminals with 24-bit support
var truecolorEnv = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"ALACRITTY_LOG",
	"WEZTERM_PANE",
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	if v := os.Getenv(colorModeEnv); v != "" {
		if mode, err := ParseColorMode(v); err == nil {
			return mode
		}
	}

	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	for _, name := range truecolorEnv {
		if os.Getenv(name) != "" {
			return ColorModeTrueColor
		}
	}

	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return ColorModeTrueColor
	}

	t := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(t, "truecolor") ||
		strings.Contains(t, "24bit") ||
		strings.Contains(t, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}
