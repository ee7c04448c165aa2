// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package chip8

import (
	"errors"
	"fmt"
	"log"
)

// Fetch reads the instruction word at the program counter, and advances
// the program counter past it.
func (mc *Machine) Fetch() (code Code, err error) {
	if int(mc.Pc)+1 >= MEMORY_SIZE {
		err = fmt.Errorf("%w: pc 0x%04x", ErrMemoryRange, mc.Pc)
		return
	}

	code = Code(uint16(mc.Memory[mc.Pc])<<8 | uint16(mc.Memory[mc.Pc+1]))
	mc.Pc += 2

	return
}

// Step executes a single fetch and execute cycle.
func (mc *Machine) Step() (err error) {
	code, err := mc.Fetch()
	if err != nil {
		return
	}

	err = mc.Execute(code)

	return
}

// TimerTick decrements the delay and sound timers towards zero.
func (mc *Machine) TimerTick() {
	if mc.Delay > 0 {
		mc.Delay--
	}

	if mc.Sound > 0 {
		mc.Sound--
	}
}

// Execute executes a single instruction word. The program counter
// must already have been advanced past the word, as Fetch does.
func (mc *Machine) Execute(code Code) (err error) {
	pc := mc.Pc - 2

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Pc: pc, Code: code}, err)
		}
	}()

	if mc.Verbose {
		log.Printf("%03x: %v", pc, code)
	}

	x := code.X()
	y := code.Y()
	vx := mc.Register[x]
	vy := mc.Register[y]

	idle := false
	waiting := false

	switch code.Op() {
	case OP_CLS:
		mc.Display.Clear()
	case OP_RET:
		ret, ok := mc.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		mc.Pc = ret
	case OP_JP:
		idle = code.NNN() == pc
		mc.Pc = code.NNN()
	case OP_CALL:
		if !mc.Stack.Push(mc.Pc) {
			err = ErrStackFull
			return
		}
		mc.Pc = code.NNN()
	case OP_SE_BYTE:
		mc.skipIf(vx == code.NN())
	case OP_SNE_BYTE:
		mc.skipIf(vx != code.NN())
	case OP_SE_REG:
		mc.skipIf(vx == vy)
	case OP_SNE_REG:
		mc.skipIf(vx != vy)
	case OP_LD_BYTE:
		mc.Register[x] = code.NN()
	case OP_ADD_BYTE:
		mc.Register[x] = vx + code.NN()
	case OP_LD_REG:
		mc.Register[x] = vy
	case OP_OR:
		mc.Register[x] = vx | vy
	case OP_AND:
		mc.Register[x] = vx & vy
	case OP_XOR:
		mc.Register[x] = vx ^ vy
	case OP_ADD_REG:
		sum := uint16(vx) + uint16(vy)
		mc.Register[x] = uint8(sum)
		mc.setFlag(sum > 0xff)
	case OP_SUB:
		mc.Register[x] = vx - vy
		mc.setFlag(vx >= vy)
	case OP_SHR:
		mc.Register[x] = vx >> 1
		mc.setFlag(vx&0x01 != 0)
	case OP_SUBN:
		mc.Register[x] = vy - vx
		mc.setFlag(vy >= vx)
	case OP_SHL:
		mc.Register[x] = vx << 1
		mc.setFlag(vx&0x80 != 0)
	case OP_LD_I:
		mc.Index = code.NNN()
	case OP_JP_V0:
		target := uint16(mc.Register[0]) + code.NNN()
		if target > MEMORY_MASK {
			err = fmt.Errorf("%w: jump 0x%04x", ErrMemoryRange, target)
			return
		}
		mc.Pc = target
	case OP_RND:
		mc.Register[x] = mc.Random() & code.NN()
	case OP_DRW:
		var sprite []byte
		sprite, err = mc.load(mc.Index, int(code.N()))
		if err != nil {
			return
		}
		mc.setFlag(mc.Display.Draw(int(vx), int(vy), sprite))
	case OP_SKP:
		mc.skipIf(mc.Key[vx&0xf])
	case OP_SKNP:
		mc.skipIf(!mc.Key[vx&0xf])
	case OP_LD_VX_DT:
		mc.Register[x] = mc.Delay
	case OP_LD_KEY:
		key, ok := mc.pressed()
		if !ok {
			// Fetch this instruction again on the next step.
			mc.Pc = pc
			waiting = true
			break
		}
		mc.Register[x] = key
	case OP_LD_DT:
		mc.Delay = vx
	case OP_LD_ST:
		mc.Sound = vx
	case OP_ADD_I:
		mc.Index += uint16(vx)
	case OP_LD_FONT:
		mc.Index = FONT_BASE + FONT_GLYPH*uint16(vx&0xf)
	case OP_LD_BCD:
		err = mc.store(mc.Index, []byte{vx / 100, (vx / 10) % 10, vx % 10})
	case OP_LD_DUMP:
		err = mc.store(mc.Index, mc.Register[:x+1])
	case OP_LD_FILL:
		var data []byte
		data, err = mc.load(mc.Index, x+1)
		if err != nil {
			return
		}
		copy(mc.Register[:x+1], data)
	default:
		err = ErrOpcodeDecode
	}

	if err != nil {
		return
	}

	mc.Idle = idle
	mc.Waiting = waiting
	mc.Ticks++

	return
}

// setFlag sets VF to 1 or 0.
func (mc *Machine) setFlag(set bool) {
	if set {
		mc.Register[REGISTER_FLAG] = 1
	} else {
		mc.Register[REGISTER_FLAG] = 0
	}
}

// skipIf skips the next instruction if the condition holds.
func (mc *Machine) skipIf(cond bool) {
	if cond {
		mc.Pc += 2
	}
}

// pressed returns the lowest numbered pressed key.
func (mc *Machine) pressed() (key uint8, ok bool) {
	for n, down := range mc.Key {
		if down {
			return uint8(n), true
		}
	}
	return
}

// load returns a view of count bytes of memory at addr.
func (mc *Machine) load(addr uint16, count int) (data []byte, err error) {
	if int(addr)+count > MEMORY_SIZE {
		err = fmt.Errorf("%w: read 0x%04x+%d", ErrMemoryRange, addr, count)
		return
	}

	data = mc.Memory[int(addr) : int(addr)+count]
	return
}

// store writes data to memory at addr. The interpreter area below
// PROGRAM_ORIGIN is read-only.
func (mc *Machine) store(addr uint16, data []byte) (err error) {
	if int(addr)+len(data) > MEMORY_SIZE {
		err = fmt.Errorf("%w: write 0x%04x+%d", ErrMemoryRange, addr, len(data))
		return
	}

	if addr < PROGRAM_ORIGIN {
		err = fmt.Errorf("%w: write 0x%04x", ErrMemoryProtected, addr)
		return
	}

	copy(mc.Memory[addr:], data)
	return
}
