// Package chip8 implements the CHIP-8 virtual machine and its assembler.
//
// The machine consists of 4KiB of byte addressed memory with the hexadecimal
// font installed at FONT_BASE, sixteen 8-bit registers (V0-VF, where VF is
// the carry/borrow/collision flag), a 16-bit index register (I), a
// sixteen entry call stack, the delay and sound timers, a sixteen key
// keypad and a 64x32 monochrome display.
//
// The host drives the machine: Step executes one instruction, TimerTick
// decrements the timers, SetKey and ReadDisplay exchange input and output
// between steps. Nothing in the package keeps time or runs concurrently.
//
// The assembler translates the customary CHIP-8 mnemonics into a program
// image, with labels, equates, macros and compile-time expressions.
package chip8
