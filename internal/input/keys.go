// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package input

import "strings"

// keyCodeNames maps Linux input-event key codes to lowercase key names.
// Grounded on hotkeys/evdev_provider.go's getKeyName map.
var keyCodeNames = map[int]string{
	1: "esc", 2: "1", 3: "2", 4: "3", 5: "4", 6: "5", 7: "6", 8: "7", 9: "8",
	10: "9", 11: "0", 12: "minus", 13: "equal", 14: "backspace", 15: "tab",
	16: "q", 17: "w", 18: "e", 19: "r", 20: "t", 21: "y", 22: "u", 23: "i",
	24: "o", 25: "p", 26: "leftbrace", 27: "rightbrace", 28: "enter",
	29: "leftctrl", 30: "a", 31: "s", 32: "d", 33: "f", 34: "g", 35: "h",
	36: "j", 37: "k", 38: "l", 39: "semicolon", 40: "apostrophe", 41: "grave",
	42: "leftshift", 43: "backslash", 44: "z", 45: "x", 46: "c", 47: "v",
	48: "b", 49: "n", 50: "m", 51: "comma", 52: "dot", 53: "slash",
	54: "rightshift", 55: "kpasterisk", 56: "leftalt", 57: "space",
	58: "capslock", 59: "f1", 60: "f2", 61: "f3", 62: "f4", 63: "f5",
	64: "f6", 65: "f7", 66: "f8", 67: "f9", 68: "f10", 69: "numlock",
	70: "scrolllock", 71: "kp7", 72: "kp8", 73: "kp9", 74: "kpminus",
	75: "kp4", 76: "kp5", 77: "kp6", 78: "kpplus", 79: "kp1", 80: "kp2",
	81: "kp3", 82: "kp0", 83: "kpdot", 97: "rightctrl", 100: "rightalt",
	125: "leftmeta", 126: "rightmeta",
}

func keyName(code int) string {
	return keyCodeNames[code]
}

// modifierKeys mirrors hotkeys/manager.go's IsModifier set.
var modifierKeys = map[string]bool{
	"ctrl": true, "alt": true, "shift": true, "super": true, "meta": true,
	"win": true, "altgr": true, "hyper": true,
	"leftctrl": true, "rightctrl": true, "leftalt": true, "rightalt": true,
	"leftshift": true, "rightshift": true,
}

func isModifierKey(name string) bool {
	return modifierKeys[strings.ToLower(name)]
}

// evdevModifierNames mirrors hotkeys/manager.go's ConvertModifierToEvdev.
var evdevModifierNames = map[string]string{
	"ctrl": "leftctrl", "alt": "leftalt", "shift": "leftshift",
	"super": "leftmeta", "meta": "leftmeta", "win": "leftmeta",
	"altgr": "rightalt",
}

func evdevModifierName(modifier string) string {
	if name, ok := evdevModifierNames[strings.ToLower(modifier)]; ok {
		return name
	}
	return strings.ToLower(modifier)
}
