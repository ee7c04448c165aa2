package chip8

import (
	"fmt"
)

// CodeOp is a decoded instruction operation.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_INVALID  = CodeOp(0)  // invalid
	OP_CLS      = CodeOp(1)  // cls
	OP_RET      = CodeOp(2)  // ret
	OP_JP       = CodeOp(3)  // jp
	OP_CALL     = CodeOp(4)  // call
	OP_SE_BYTE  = CodeOp(5)  // se
	OP_SNE_BYTE = CodeOp(6)  // sne
	OP_SE_REG   = CodeOp(7)  // se
	OP_SNE_REG  = CodeOp(8)  // sne
	OP_LD_BYTE  = CodeOp(9)  // ld
	OP_ADD_BYTE = CodeOp(10) // add
	OP_LD_REG   = CodeOp(11) // ld
	OP_OR       = CodeOp(12) // or
	OP_AND      = CodeOp(13) // and
	OP_XOR      = CodeOp(14) // xor
	OP_ADD_REG  = CodeOp(15) // add
	OP_SUB      = CodeOp(16) // sub
	OP_SHR      = CodeOp(17) // shr
	OP_SUBN     = CodeOp(18) // subn
	OP_SHL      = CodeOp(19) // shl
	OP_LD_I     = CodeOp(20) // ld
	OP_JP_V0    = CodeOp(21) // jp
	OP_RND      = CodeOp(22) // rnd
	OP_DRW      = CodeOp(23) // drw
	OP_SKP      = CodeOp(24) // skp
	OP_SKNP     = CodeOp(25) // sknp
	OP_LD_VX_DT = CodeOp(26) // ld
	OP_LD_KEY   = CodeOp(27) // ld
	OP_LD_DT    = CodeOp(28) // ld
	OP_LD_ST    = CodeOp(29) // ld
	OP_ADD_I    = CodeOp(30) // add
	OP_LD_FONT  = CodeOp(31) // ld
	OP_LD_BCD   = CodeOp(32) // ld
	OP_LD_DUMP  = CodeOp(33) // ld
	OP_LD_FILL  = CodeOp(34) // ld
)

// CodeForm is the operand layout of an instruction word.
type CodeForm int

const (
	FORM_NONE = CodeForm(0) // ----
	FORM_NNN  = CodeForm(1) // -NNN
	FORM_XNN  = CodeForm(2) // -XNN
	FORM_XY   = CodeForm(3) // -XY-
	FORM_XYN  = CodeForm(4) // -XYN
	FORM_X    = CodeForm(5) // -X--
)

type opInfo struct {
	Base uint16
	Form CodeForm
}

// _op_info holds the fixed bits, and the operand layout, of each operation.
var _op_info = [...]opInfo{
	OP_INVALID:  {0x0000, FORM_NONE},
	OP_CLS:      {0x00E0, FORM_NONE},
	OP_RET:      {0x00EE, FORM_NONE},
	OP_JP:       {0x1000, FORM_NNN},
	OP_CALL:     {0x2000, FORM_NNN},
	OP_SE_BYTE:  {0x3000, FORM_XNN},
	OP_SNE_BYTE: {0x4000, FORM_XNN},
	OP_SE_REG:   {0x5000, FORM_XY},
	OP_SNE_REG:  {0x9000, FORM_XY},
	OP_LD_BYTE:  {0x6000, FORM_XNN},
	OP_ADD_BYTE: {0x7000, FORM_XNN},
	OP_LD_REG:   {0x8000, FORM_XY},
	OP_OR:       {0x8001, FORM_XY},
	OP_AND:      {0x8002, FORM_XY},
	OP_XOR:      {0x8003, FORM_XY},
	OP_ADD_REG:  {0x8004, FORM_XY},
	OP_SUB:      {0x8005, FORM_XY},
	OP_SHR:      {0x8006, FORM_XY},
	OP_SUBN:     {0x8007, FORM_XY},
	OP_SHL:      {0x800E, FORM_XY},
	OP_LD_I:     {0xA000, FORM_NNN},
	OP_JP_V0:    {0xB000, FORM_NNN},
	OP_RND:      {0xC000, FORM_XNN},
	OP_DRW:      {0xD000, FORM_XYN},
	OP_SKP:      {0xE09E, FORM_X},
	OP_SKNP:     {0xE0A1, FORM_X},
	OP_LD_VX_DT: {0xF007, FORM_X},
	OP_LD_KEY:   {0xF00A, FORM_X},
	OP_LD_DT:    {0xF015, FORM_X},
	OP_LD_ST:    {0xF018, FORM_X},
	OP_ADD_I:    {0xF01E, FORM_X},
	OP_LD_FONT:  {0xF029, FORM_X},
	OP_LD_BCD:   {0xF033, FORM_X},
	OP_LD_DUMP:  {0xF055, FORM_X},
	OP_LD_FILL:  {0xF065, FORM_X},
}

// Form returns the operand layout of the operation.
func (op CodeOp) Form() CodeForm {
	if op < 0 || int(op) >= len(_op_info) {
		return FORM_NONE
	}
	return _op_info[op].Form
}

// Code is a single big-endian instruction word.
type Code uint16

// MakeCode creates an instruction word. Operands that the operation
// does not use are ignored; used operands are truncated to their field.
func MakeCode(op CodeOp, x, y int, imm uint16) Code {
	if op <= OP_INVALID || int(op) >= len(_op_info) {
		return Code(0)
	}

	info := _op_info[op]
	word := info.Base
	xf := (uint16(x) & 0xf) << 8
	yf := (uint16(y) & 0xf) << 4

	switch info.Form {
	case FORM_NNN:
		word |= imm & 0xfff
	case FORM_XNN:
		word |= xf | (imm & 0xff)
	case FORM_XY:
		word |= xf | yf
	case FORM_XYN:
		word |= xf | yf | (imm & 0xf)
	case FORM_X:
		word |= xf
	}

	return Code(word)
}

// MakeCodeNNN creates an instruction with a 12-bit address.
func MakeCodeNNN(op CodeOp, addr uint16) Code {
	return MakeCode(op, 0, 0, addr)
}

// MakeCodeXNN creates an instruction with a register and an 8-bit immediate.
func MakeCodeXNN(op CodeOp, x int, value uint8) Code {
	return MakeCode(op, x, 0, uint16(value))
}

// MakeCodeXY creates a register to register instruction.
func MakeCodeXY(op CodeOp, x, y int) Code {
	return MakeCode(op, x, y, 0)
}

// MakeCodeX creates a single register instruction.
func MakeCodeX(op CodeOp, x int) Code {
	return MakeCode(op, x, 0, 0)
}

// MakeCodeDraw creates a sprite draw instruction.
func MakeCodeDraw(x, y int, height uint8) Code {
	return MakeCode(OP_DRW, x, y, uint16(height))
}

// Class returns the leading (classifying) nibble.
func (code Code) Class() int {
	return int(code>>12) & 0xf
}

// X returns the first register operand nibble.
func (code Code) X() int {
	return int(code>>8) & 0xf
}

// Y returns the second register operand nibble.
func (code Code) Y() int {
	return int(code>>4) & 0xf
}

// N returns the trailing nibble.
func (code Code) N() uint8 {
	return uint8(code) & 0xf
}

// NN returns the trailing byte.
func (code Code) NN() uint8 {
	return uint8(code)
}

// NNN returns the embedded 12-bit address.
func (code Code) NNN() uint16 {
	return uint16(code) & 0xfff
}

// Op decodes the instruction word. Words matching no operation decode
// to OP_INVALID.
func (code Code) Op() (op CodeOp) {
	switch code.Class() {
	case 0x0:
		switch code {
		case 0x00E0:
			op = OP_CLS
		case 0x00EE:
			op = OP_RET
		}
	case 0x1:
		op = OP_JP
	case 0x2:
		op = OP_CALL
	case 0x3:
		op = OP_SE_BYTE
	case 0x4:
		op = OP_SNE_BYTE
	case 0x5:
		if code.N() == 0 {
			op = OP_SE_REG
		}
	case 0x6:
		op = OP_LD_BYTE
	case 0x7:
		op = OP_ADD_BYTE
	case 0x8:
		switch code.N() {
		case 0x0:
			op = OP_LD_REG
		case 0x1:
			op = OP_OR
		case 0x2:
			op = OP_AND
		case 0x3:
			op = OP_XOR
		case 0x4:
			op = OP_ADD_REG
		case 0x5:
			op = OP_SUB
		case 0x6:
			op = OP_SHR
		case 0x7:
			op = OP_SUBN
		case 0xE:
			op = OP_SHL
		}
	case 0x9:
		if code.N() == 0 {
			op = OP_SNE_REG
		}
	case 0xA:
		op = OP_LD_I
	case 0xB:
		op = OP_JP_V0
	case 0xC:
		op = OP_RND
	case 0xD:
		op = OP_DRW
	case 0xE:
		switch code.NN() {
		case 0x9E:
			op = OP_SKP
		case 0xA1:
			op = OP_SKNP
		}
	case 0xF:
		switch code.NN() {
		case 0x07:
			op = OP_LD_VX_DT
		case 0x0A:
			op = OP_LD_KEY
		case 0x15:
			op = OP_LD_DT
		case 0x18:
			op = OP_LD_ST
		case 0x1E:
			op = OP_ADD_I
		case 0x29:
			op = OP_LD_FONT
		case 0x33:
			op = OP_LD_BCD
		case 0x55:
			op = OP_LD_DUMP
		case 0x65:
			op = OP_LD_FILL
		}
	}

	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Op()
	name := op.String()
	x := code.X()
	y := code.Y()

	switch op {
	case OP_INVALID:
		out = fmt.Sprintf(".word 0x%04x", uint16(code))
	case OP_JP_V0:
		out = fmt.Sprintf("%v v0, 0x%03x", name, code.NNN())
	case OP_LD_I:
		out = fmt.Sprintf("%v i, 0x%03x", name, code.NNN())
	case OP_LD_VX_DT:
		out = fmt.Sprintf("%v v%x, dt", name, x)
	case OP_LD_KEY:
		out = fmt.Sprintf("%v v%x, k", name, x)
	case OP_LD_DT:
		out = fmt.Sprintf("%v dt, v%x", name, x)
	case OP_LD_ST:
		out = fmt.Sprintf("%v st, v%x", name, x)
	case OP_ADD_I:
		out = fmt.Sprintf("%v i, v%x", name, x)
	case OP_LD_FONT:
		out = fmt.Sprintf("%v f, v%x", name, x)
	case OP_LD_BCD:
		out = fmt.Sprintf("%v b, v%x", name, x)
	case OP_LD_DUMP:
		out = fmt.Sprintf("%v [i], v%x", name, x)
	case OP_LD_FILL:
		out = fmt.Sprintf("%v v%x, [i]", name, x)
	default:
		switch op.Form() {
		case FORM_NONE:
			out = name
		case FORM_NNN:
			out = fmt.Sprintf("%v 0x%03x", name, code.NNN())
		case FORM_XNN:
			out = fmt.Sprintf("%v v%x, 0x%02x", name, x, code.NN())
		case FORM_XY:
			out = fmt.Sprintf("%v v%x, v%x", name, x, y)
		case FORM_XYN:
			out = fmt.Sprintf("%v v%x, v%x, %d", name, x, y, code.N())
		case FORM_X:
			out = fmt.Sprintf("%v v%x", name, x)
		}
	}

	return
}
