package io

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/chip8/chip8"
)

// Layout maps input bytes to keypad keys.
type Layout map[byte]int

// LayoutHex maps the hexadecimal digits to the keys of the same value.
var LayoutHex = Layout{
	'0': 0x0, '1': 0x1, '2': 0x2, '3': 0x3,
	'4': 0x4, '5': 0x5, '6': 0x6, '7': 0x7,
	'8': 0x8, '9': 0x9, 'a': 0xa, 'b': 0xb,
	'c': 0xc, 'd': 0xd, 'e': 0xe, 'f': 0xf,
	'A': 0xa, 'B': 0xb, 'C': 0xc, 'D': 0xd,
	'E': 0xe, 'F': 0xf,
}

// LayoutCosmac maps the left hand block of a QWERTY keyboard onto the
// COSMAC VIP keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  =>  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var LayoutCosmac = Layout{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// Keypad replays a tape of key events, at most one per poll.
// A byte in the layout presses that key, releasing all others.
// '.' and ' ' release all keys. Other bytes are ignored.
type Keypad struct {
	Input  io.Reader // Key event tape.
	Layout Layout    // Defaults to LayoutHex.

	ended bool
	state [chip8.KEY_COUNT]bool
}

var _ Device = (*Keypad)(nil)

// Defines returns an iter of defines for the keypad.
func (kp *Keypad) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"KEY_COUNT": fmt.Sprintf("%d", chip8.KEY_COUNT),
	})
}

// Rewind releases all keys. The tape itself can not be rewound.
func (kp *Keypad) Rewind() {
	clear(kp.state[:])
}

// Ended returns true once the tape is exhausted.
func (kp *Keypad) Ended() bool {
	return kp.Input == nil || kp.ended
}

// Poll consumes at most one key event, and returns the keypad state.
// A reader returning no data and no error is not an event.
func (kp *Keypad) Poll() (keys [chip8.KEY_COUNT]bool) {
	if kp.Ended() {
		clear(kp.state[:])
		return kp.state
	}

	var one [1]byte
	n, err := kp.Input.Read(one[:])
	if n == 1 {
		kp.event(one[0])
	}
	if err != nil {
		kp.ended = true
		if n == 0 {
			clear(kp.state[:])
		}
	}

	return kp.state
}

func (kp *Keypad) event(value byte) {
	layout := kp.Layout
	if layout == nil {
		layout = LayoutHex
	}

	switch value {
	case '.', ' ':
		clear(kp.state[:])
	default:
		key, ok := layout[value]
		if !ok || key < 0 || key >= chip8.KEY_COUNT {
			return
		}
		clear(kp.state[:])
		kp.state[key] = true
	}
}
