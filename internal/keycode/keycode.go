// Package keycode defines the HID usage identifiers the core dispatches to
// the host, and the modifier-bit arithmetic the layered processor needs to
// build a boot-protocol report.
package keycode

import "fmt"

// Code is an 8-bit HID keyboard usage identifier in the range 0x00-0xFB.
type Code uint8

// Letters, digits and punctuation follow the USB HID usage table (§10,
// Keyboard/Keypad Page). Only the subset exercised by the core and by
// keymaps built against it is named here; unnamed codes remain valid
// Code values and can be used via a numeric literal.
const (
	No             Code = 0x00
	ErrorRollOver  Code = 0x01
	PostFail       Code = 0x02
	ErrorUndefined Code = 0x03

	A Code = 0x04
	B Code = 0x05
	C Code = 0x06
	D Code = 0x07
	E Code = 0x08
	F Code = 0x09
	G Code = 0x0A
	H Code = 0x0B
	I Code = 0x0C
	J Code = 0x0D
	K Code = 0x0E
	L Code = 0x0F
	M Code = 0x10
	N Code = 0x11
	O Code = 0x12
	P Code = 0x13
	Q Code = 0x14
	R Code = 0x15
	S Code = 0x16
	T Code = 0x17
	U Code = 0x18
	V Code = 0x19
	W Code = 0x1A
	X Code = 0x1B
	Y Code = 0x1C
	Z Code = 0x1D

	Kb1 Code = 0x1E
	Kb2 Code = 0x1F
	Kb3 Code = 0x20
	Kb4 Code = 0x21
	Kb5 Code = 0x22
	Kb6 Code = 0x23
	Kb7 Code = 0x24
	Kb8 Code = 0x25
	Kb9 Code = 0x26
	Kb0 Code = 0x27

	Enter     Code = 0x28
	Escape    Code = 0x29
	BSpace    Code = 0x2A
	Tab       Code = 0x2B
	Space     Code = 0x2C
	Minus     Code = 0x2D
	Equal     Code = 0x2E
	LBracket  Code = 0x2F
	RBracket  Code = 0x30
	Bslash    Code = 0x31
	NonUsHash Code = 0x32
	SColon    Code = 0x33
	Quote     Code = 0x34
	Grave     Code = 0x35
	Comma     Code = 0x36
	Dot       Code = 0x37
	Slash     Code = 0x38
	CapsLock  Code = 0x39

	F1  Code = 0x3A
	F2  Code = 0x3B
	F3  Code = 0x3C
	F4  Code = 0x3D
	F5  Code = 0x3E
	F6  Code = 0x3F
	F7  Code = 0x40
	F8  Code = 0x41
	F9  Code = 0x42
	F10 Code = 0x43
	F11 Code = 0x44
	F12 Code = 0x45

	PScreen    Code = 0x46
	ScrollLock Code = 0x47
	Pause      Code = 0x48
	Insert     Code = 0x49
	Home       Code = 0x4A
	PgUp       Code = 0x4B
	Delete     Code = 0x4C
	End        Code = 0x4D
	PgDown     Code = 0x4E
	Right      Code = 0x4F
	Left       Code = 0x50
	Down       Code = 0x51
	Up         Code = 0x52

	// Modifier keys. The subrange 0xE0-0xE7 is reserved for these eight
	// codes; IsModifier and ModifierBit both key off this range.
	LCtrl  Code = 0xE0
	LShift Code = 0xE1
	LAlt   Code = 0xE2
	LGui   Code = 0xE3
	RCtrl  Code = 0xE4
	RShift Code = 0xE5
	RAlt   Code = 0xE6
	RGui   Code = 0xE7
)

var codeNames = map[Code]string{
	No: "No", A: "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H",
	I: "I", J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P", Q: "Q",
	R: "R", S: "S", T: "T", U: "U", V: "V", W: "W", X: "X", Y: "Y", Z: "Z",
	Space: "Space", Enter: "Enter", Escape: "Escape", Tab: "Tab",
	LCtrl: "LCtrl", LShift: "LShift", LAlt: "LAlt", LGui: "LGui",
	RCtrl: "RCtrl", RShift: "RShift", RAlt: "RAlt", RGui: "RGui",
}

// String returns the code's mnemonic name where one is registered, or its
// hex usage id otherwise. Intended for logs and diagnostics, never parsed.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint8(c))
}

// IsModifier reports whether c lies in the modifier subrange 0xE0-0xE7.
func IsModifier(c Code) bool {
	return c >= LCtrl && c <= RGui
}

// ModifierBit returns the single bit c contributes to a HID modifier byte.
// Non-modifier codes contribute bit 0, i.e. no bit at all.
func ModifierBit(c Code) uint8 {
	if !IsModifier(c) {
		return 0
	}
	return 1 << (c - LCtrl)
}
