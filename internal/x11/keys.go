package x11

import "github.com/BurntSushi/xgb/xproto"

const (
	keysymEscape = 0xff1b
	keysymC      = 0x0063
	keysymQ      = 0x0071
	keysymQUpper = 0x0051
)

// quitKey reports whether a key press closes the surface: Escape, q, or
// Ctrl+C. Same keys as the terminal surface.
func quitKey(sym xproto.Keysym, state uint16) bool {
	switch sym {
	case keysymEscape, keysymQ, keysymQUpper:
		return true
	case keysymC:
		return state&xproto.ModMaskControl != 0
	}
	return false
}
