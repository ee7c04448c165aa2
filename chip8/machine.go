// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package chip8

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"
)

// Memory layout.
const (
	MEMORY_SIZE    = 4096  // Bytes of addressable memory.
	MEMORY_MASK    = 0xfff // Highest memory address.
	FONT_BASE      = 0x000 // Address of the hexadecimal font.
	FONT_GLYPH     = 5     // Bytes per font glyph.
	PROGRAM_ORIGIN = 0x200 // Load and entry address of programs.
	PROGRAM_LIMIT  = MEMORY_SIZE - PROGRAM_ORIGIN

	REGISTER_COUNT = 16  // V0 - VF
	REGISTER_FLAG  = 0xf // VF, the carry/borrow/collision flag.
	KEY_COUNT      = 16  // Keypad keys 0-F
)

// Font is the 4x5 glyph set of the hexadecimal digits 0-F.
var Font = [16 * FONT_GLYPH]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

var _machine_defines = map[string]string{
	"FONT_BASE":      fmt.Sprintf("%#x", FONT_BASE),
	"FONT_GLYPH":     fmt.Sprintf("%d", FONT_GLYPH),
	"PROGRAM_ORIGIN": fmt.Sprintf("%#x", PROGRAM_ORIGIN),
	"MEMORY_SIZE":    fmt.Sprintf("%#x", MEMORY_SIZE),
	"SCREEN_WIDTH":   fmt.Sprintf("%d", SCREEN_WIDTH),
	"SCREEN_HEIGHT":  fmt.Sprintf("%d", SCREEN_HEIGHT),
}

// Machine is the complete, caller owned, state of a CHIP-8 virtual machine.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]byte     // Main memory.
	Register [REGISTER_COUNT]uint8 // V0 - VF.
	Index    uint16                // I register.
	Pc       uint16                // Address of the next instruction.
	Stack    Stack                 // Return address stack.
	Delay    uint8                 // Delay timer.
	Sound    uint8                 // Sound timer.
	Key      [KEY_COUNT]bool       // Keypad state.
	Display  Display               // Pixel grid.
	Random   func() uint8          // Random byte source for OP_RND.
	Idle     bool                  // Last instruction was a jump to itself.
	Waiting  bool                  // Last instruction is waiting for a key.
	Ticks    int                   // Instructions executed since reset.
}

// NewMachine creates a machine in its initial state: everything zeroed,
// the font installed and the program counter at PROGRAM_ORIGIN.
func NewMachine() (mc *Machine) {
	mc = &Machine{}
	mc.Reset()

	return
}

// Defines for the machine.
func (mc *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// Reset reinitializes the machine, discarding any loaded program.
// The Verbose setting and the Random source are retained.
func (mc *Machine) Reset() {
	if mc.Verbose {
		log.Printf("chip8: reset")
	}

	clear(mc.Memory[:])
	copy(mc.Memory[FONT_BASE:], Font[:])
	clear(mc.Register[:])
	clear(mc.Key[:])
	mc.Index = 0
	mc.Pc = PROGRAM_ORIGIN
	mc.Stack.Reset()
	mc.Delay = 0
	mc.Sound = 0
	mc.Display.Clear()
	mc.Idle = false
	mc.Waiting = false
	mc.Ticks = 0

	if mc.Random == nil {
		mc.Random = func() uint8 { return uint8(rand.UintN(256)) }
	}
}

// Load copies a program image into memory at PROGRAM_ORIGIN.
// Nothing is written if the image does not fit.
func (mc *Machine) Load(data []byte) (err error) {
	if len(data) > PROGRAM_LIMIT {
		err = fmt.Errorf("%w: %d > %d", ErrProgramSize, len(data), PROGRAM_LIMIT)
		return
	}

	copy(mc.Memory[PROGRAM_ORIGIN:], data)

	if mc.Verbose {
		log.Printf("chip8: loaded %d bytes at 0x%03x", len(data), PROGRAM_ORIGIN)
	}

	return
}

// SetKey sets the pressed state of a keypad key.
func (mc *Machine) SetKey(index int, pressed bool) (err error) {
	if index < 0 || index >= KEY_COUNT {
		err = fmt.Errorf("%w: %d", ErrKeyInvalid, index)
		return
	}

	mc.Key[index] = pressed

	return
}

// ReadDisplay returns a copy of the pixel grid.
func (mc *Machine) ReadDisplay() Display {
	return mc.Display
}

// Tone returns true while the sound timer is running.
func (mc *Machine) Tone() bool {
	return mc.Sound > 0
}

// String returns the current machine state as a string.
func (mc *Machine) String() (text string) {
	text += fmt.Sprintf("   pc: %03X\n", mc.Pc)
	text += fmt.Sprintf("    i: %03X\n", mc.Index)
	for n, val := range mc.Register {
		text += fmt.Sprintf("   v%X: %02X\n", n, val)
	}
	if top, ok := mc.Stack.Peek(); ok {
		text += fmt.Sprintf("stack: %03X (%d)\n", top, mc.Stack.Pointer)
	} else {
		text += "stack: --- (0)\n"
	}
	text += fmt.Sprintf("   dt: %02X\n", mc.Delay)
	text += fmt.Sprintf("   st: %02X\n", mc.Sound)

	keys := ""
	for n, pressed := range mc.Key {
		if pressed {
			keys += fmt.Sprintf("%X", n)
		} else {
			keys += "-"
		}
	}
	text += fmt.Sprintf(" keys: %v\n", keys)

	return
}
