// Package keys maps Windows virtual-key codes to the names used in the
// configuration file.
package keys

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Code is a Windows virtual-key code. Zero means "no key".
type Code uint32

const (
	None     Code = 0
	Escape   Code = 0x1B
	CapsLock Code = 0x14
)

var names = map[Code]string{
	0x08: "BACKSPACE",
	0x09: "TAB",
	0x0D: "ENTER",
	0x10: "SHIFT",
	0x11: "CTRL",
	0x12: "ALT",
	0x13: "PAUSE",
	0x14: "CAPSLOCK",
	0x1B: "ESC",
	0x20: "SPACE",
	0x21: "PAGEUP",
	0x22: "PAGEDOWN",
	0x23: "END",
	0x24: "HOME",
	0x25: "LEFT",
	0x26: "UP",
	0x27: "RIGHT",
	0x28: "DOWN",
	0x2C: "PRINTSCREEN",
	0x2D: "INSERT",
	0x2E: "DELETE",
	0x5B: "LWIN",
	0x5C: "RWIN",
	0x5D: "APPS",
	0x90: "NUMLOCK",
	0x91: "SCROLLLOCK",
	0xA0: "LSHIFT",
	0xA1: "RSHIFT",
	0xA2: "LCTRL",
	0xA3: "RCTRL",
	0xA4: "LALT",
	0xA5: "RALT",
}

var aliases = map[string]Code{
	"ESCAPE":  0x1B,
	"RETURN":  0x0D,
	"CONTROL": 0x11,
	"MENU":    0x12,
	"CAPITAL": 0x14,
	"PGUP":    0x21,
	"PGDN":    0x22,
	"INS":     0x2D,
	"DEL":     0x2E,
	"WIN":     0x5B,
	"CMD":     0x5B,
	"SCROLL":  0x91,
}

var byName map[string]Code

func init() {
	byName = make(map[string]Code, len(names)+len(aliases))
	for code, name := range names {
		byName[name] = code
	}
	for name, code := range aliases {
		byName[name] = code
	}
}

// String returns the canonical name, or a hex literal for unnamed codes.
func (c Code) String() string {
	if c == None {
		return ""
	}
	if name, ok := names[c]; ok {
		return name
	}
	switch {
	case c >= 0x41 && c <= 0x5A, c >= 0x30 && c <= 0x39:
		return string(rune(c))
	case c >= 0x70 && c <= 0x87:
		return fmt.Sprintf("F%d", c-0x6F)
	case c >= 0x60 && c <= 0x69:
		return fmt.Sprintf("NUMPAD%d", c-0x60)
	}
	return fmt.Sprintf("0x%02X", uint32(c))
}

// Parse accepts a key name ("F13", "capslock", "A"), a decimal code, or a
// 0x-prefixed hex code. An empty string or "none" yields None. A single
// digit is the digit key, not a code.
func Parse(s string) (Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", "NONE":
		return None, nil
	}
	if code, ok := byName[s]; ok {
		return code, nil
	}
	if len(s) == 1 {
		r := s[0]
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return Code(r), nil
		}
	}
	if strings.HasPrefix(s, "F") {
		if n, err := strconv.Atoi(s[1:]); err == nil && n >= 1 && n <= 24 {
			return Code(0x6F + n), nil
		}
	}
	if strings.HasPrefix(s, "NUMPAD") {
		if n, err := strconv.Atoi(s[6:]); err == nil && n >= 0 && n <= 9 {
			return Code(0x60 + n), nil
		}
	}
	n, err := strconv.ParseUint(strings.ToLower(s), 0, 8)
	if err != nil {
		return None, fmt.Errorf("unknown key %q", s)
	}
	return Code(n), nil
}

// UnmarshalYAML accepts either a key name or a numeric code.
func (c *Code) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the canonical name.
func (c Code) MarshalYAML() (interface{}, error) {
	if c == None {
		return "none", nil
	}
	return c.String(), nil
}
