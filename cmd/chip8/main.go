// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"golang.org/x/term"

	"github.com/ezrec/chip8/chip8"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/internal"
	chio "github.com/ezrec/chip8/io"
)

func main() {
	var compile string
	var rom string
	var save string
	var keys string
	var layout string
	var output string
	var frames int
	var ipf int
	var realtime bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&rom, "r", "", ".ch8 ROM file to run")
	flag.StringVar(&save, "s", "", "Save assembled ROM to file, do not execute")
	flag.StringVar(&keys, "k", "-", "Key tape ('-' for stdin, '' for none)")
	flag.StringVar(&layout, "layout", "hex", "Key layout: hex or cosmac")
	flag.StringVar(&output, "o", "-", "Screen output ('-' for stdout, '' for none)")
	flag.IntVar(&frames, "n", 0, "Frame limit (0 for none)")
	flag.IntVar(&ipf, "ipf", emulator.STEPS_PER_FRAME, "Instructions per frame")
	flag.BoolVar(&realtime, "realtime", true, "Run at the frame rate")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if (len(compile) == 0) == (len(rom) == 0) {
		log.Fatalf("%v: exactly one of -c or -r is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.StepsPerFrame = ipf
	emu.Realtime = realtime

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &chip8.Assembler{Verbose: verbose}
		for key, value := range internal.SortedDefines(emu.Defines()) {
			if verbose {
				log.Printf("predefine %v = %v", key, value)
			}
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(rom) != 0 {
		loaded, err := chio.OpenRom(os.DirFS(filepath.Dir(rom)), filepath.Base(rom))
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
		emu.Rom = *loaded
		emu.Program = nil
	}

	if len(save) != 0 {
		data := emu.Rom.Data
		if emu.Program != nil {
			data = emu.Program.Binary()
		}
		err := os.WriteFile(save, data, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	switch layout {
	case "hex":
		emu.Keypad.Layout = chio.LayoutHex
	case "cosmac":
		emu.Keypad.Layout = chio.LayoutCosmac
	default:
		log.Fatalf("%v: unknown key layout %v", os.Args[0], layout)
	}

	err := run(emu, keys, output, frames)
	if err != nil {
		log.Fatal(err)
	}
}

// run attaches the host devices and runs the emulator. Terminal state
// is restored before returning.
func run(emu *emulator.Emulator, keys string, output string, frames int) (err error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var tm *terminal

	switch keys {
	case "":
	case "-":
		if term.IsTerminal(int(os.Stdin.Fd())) {
			tm, err = openTerminal(cancel)
			if err != nil {
				return
			}
			defer tm.Close()
			emu.Keypad.Input = tm
		} else {
			emu.Keypad.Input = os.Stdin
		}
	default:
		inf, err := os.Open(keys)
		if err != nil {
			return err
		}
		defer inf.Close()
		emu.Keypad.Input = inf
	}

	var screen io.Writer
	switch output {
	case "":
	case "-":
		screen = os.Stdout
		if tm != nil {
			screen = crlf{os.Stdout}
		}
		emu.Screen.Ansi = term.IsTerminal(int(os.Stdout.Fd()))
	default:
		ouf, err := os.Create(output)
		if err != nil {
			return err
		}
		defer ouf.Close()
		screen = ouf
	}
	emu.Screen.Output = screen
	emu.Buzzer.Output = screen

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run(ctx, frames)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	return
}
