// @focus: #sys { term }
// Package terminal provides direct ANSI terminal control.
//
// Features:
//   - Closed set of output commands (cursor, style, screen, input modes)
//     staged in an Output sink and written on Flush
//   - True color (24-bit) with 256-color downgrade
//   - Raw mode, window size and cursor position queries
//   - Synchronous input parsing: keys (legacy, xterm modifiers, kitty CSI-u),
//     SGR mouse, focus, bracketed paste, resize
//   - tcell-backed event source as an alternative input path
//   - Clean terminal restoration on panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
