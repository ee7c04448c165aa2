// Package io provides the host devices of the CHIP-8 emulator.
// It includes the program ROM (Rom), the key event tape (Keypad), the text
// display (Screen) and the tone output (Buzzer).
package io

import (
	"iter"
)

// Device defines the interface of the host devices attached to the
// emulator.
type Device interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// Defines returns assembler predefines published by the device.
	Defines() iter.Seq2[string, string]
}
