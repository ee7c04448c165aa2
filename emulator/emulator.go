// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/chip8/chip8"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
)

const (
	STEPS_PER_FRAME = 10 // Default instructions per frame.
	FRAME_RATE      = 60 // Default frames per second, and timer rate.
)

var _emulator_defines = map[string]string{
	"STEPS_PER_FRAME": fmt.Sprintf("%v", STEPS_PER_FRAME),
	"FRAME_RATE":      fmt.Sprintf("%v", FRAME_RATE),
}

// Emulator state. Machine + host devices.
type Emulator struct {
	Verbose        bool           // If set, enables verbose logging.
	*chip8.Machine                // Reference to the machine.
	Program        *chip8.Program // Reference to the assembled program listing, if any.

	Rom    io.Rom    // Program image.
	Keypad io.Keypad // Key event tape.
	Screen io.Screen // Display output.
	Buzzer io.Buzzer // Tone output.

	StepsPerFrame int  // Instructions executed per frame.
	FrameRate     int  // Frames per second.
	Realtime      bool // If set, Run paces frames at FrameRate.
	Frames        int  // Frames run since reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine:       chip8.NewMachine(),
		Program:       &chip8.Program{},
		StepsPerFrame: STEPS_PER_FRAME,
		FrameRate:     FRAME_RATE,
	}

	return
}

func (emu *Emulator) devices() []io.Device {
	return []io.Device{&emu.Rom, &emu.Keypad, &emu.Screen, &emu.Buzzer}
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	seqs := []iter.Seq2[string, string]{
		maps.All(_emulator_defines),
		emu.Machine.Defines(),
	}
	for _, dev := range emu.devices() {
		seqs = append(seqs, dev.Defines())
	}

	return internal.IterSeq2Concat(seqs...)
}

// Reset the machine and devices, and load the program.
// An assembled Program replaces the Rom image.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset()

	for _, dev := range emu.devices() {
		dev.Rewind()
	}

	if emu.Program != nil && len(emu.Program.Opcodes) > 0 {
		emu.Rom.Data = emu.Program.Binary()
	}

	if len(emu.Rom.Data) == 0 {
		err = io.ErrRomMissing
		return
	}

	err = emu.Machine.Load(emu.Rom.Data)
	if err != nil {
		return
	}

	emu.Frames = 0

	return
}

// LineNo returns the source line number of the next instruction, or 0
// if there is no program listing for it.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
// Done is set when the machine can make no further progress: it is
// stalled on a jump to itself or a key wait, and the key tape has ended.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	pc := emu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	err = emu.Machine.Step()
	if err != nil {
		return
	}

	stalled := emu.Idle || emu.Waiting
	done = stalled && emu.Keypad.Ended()

	return
}

// Frame runs a single frame: poll the key tape, run the frame's
// instructions, tick the timers, then update the buzzer and screen.
func (emu *Emulator) Frame() (done bool, err error) {
	for key, pressed := range emu.Keypad.Poll() {
		err = emu.SetKey(key, pressed)
		if err != nil {
			return
		}
	}

	steps := emu.StepsPerFrame
	if steps <= 0 {
		steps = STEPS_PER_FRAME
	}

	for range steps {
		done, err = emu.Tick()
		if err != nil {
			return
		}
		if done {
			break
		}
	}

	emu.TimerTick()

	err = emu.Buzzer.Sound(emu.Tone())
	if err != nil {
		return
	}

	err = emu.Screen.Draw(&emu.Display)
	if err != nil {
		return
	}

	emu.Frames++

	return
}

// Run runs frames until the program is done, the frame limit (if
// positive) is reached, or the context is cancelled.
func (emu *Emulator) Run(ctx context.Context, frames int) (err error) {
	var tick <-chan time.Time
	if emu.Realtime {
		rate := emu.FrameRate
		if rate <= 0 {
			rate = FRAME_RATE
		}
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
		tick = ticker.C
	}

	defer func() {
		if emu.Verbose {
			log.Printf("emulator: %d frames, %d instructions", emu.Frames, emu.Ticks)
		}
	}()

	for n := 0; frames <= 0 || n < frames; n++ {
		if err = ctx.Err(); err != nil {
			return
		}

		var done bool
		done, err = emu.Frame()
		if err != nil || done {
			return
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return
			case <-tick:
			}
		}
	}

	return
}
