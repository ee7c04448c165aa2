// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package chip8

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"FONT_BASE":      fmt.Sprintf("%#x", FONT_BASE),
	"FONT_GLYPH":     fmt.Sprintf("%d", FONT_GLYPH),
	"PROGRAM_ORIGIN": fmt.Sprintf("%#x", PROGRAM_ORIGIN),
	"SCREEN_WIDTH":   fmt.Sprintf("%d", SCREEN_WIDTH),
	"SCREEN_HEIGHT":  fmt.Sprintf("%d", SCREEN_HEIGHT),
}

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if len(word) > 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	}

	if invert {
		value = ^value
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	for key, addr := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// splitWords splits a line into words at spaces, tabs and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local '@' labels are unique to each expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddress gets the address of the next generated byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return PROGRAM_ORIGIN
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Address + len(last.Data)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if err = scanner.Err(); err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if addr > MEMORY_MASK {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = fmt.Errorf("%w: %v = %#x > %#x", ErrValueRange, label, addr, MEMORY_MASK)
			return
		}
		if len(op.Data) != 2 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		op.Data[0] |= byte((addr >> 8) & 0x0f)
		op.Data[1] |= byte(addr & 0xff)
	}

	// The image must fit in memory above the origin.
	for _, op := range asm.Opcode {
		if op.Address+len(op.Data) > MEMORY_SIZE {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = fmt.Errorf("%w: %#x > %#x", ErrProgramSize, op.Address+len(op.Data), MEMORY_SIZE)
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// register decodes a register name, v0 through vf.
func register(word string) (reg int, err error) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'v' {
		err = ErrRegisterInvalid
		return
	}

	value, perr := strconv.ParseUint(word[1:], 16, 4)
	if perr != nil {
		err = ErrRegisterInvalid
		return
	}

	reg = int(value)
	return
}

// isRegister returns true if the word names a register.
func isRegister(word string) bool {
	_, err := register(word)
	return err == nil
}

// immediate decodes a numeric value no greater than limit.
// Byte and word operands also accept negative values down to half
// their range, stored as two's complement.
func (asm *Assembler) immediate(word string, limit uint32) (value uint16, err error) {
	v32, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v32 > limit && (limit == 0xff || limit == 0xffff) {
		half := (limit + 1) / 2
		if v32 >= ^uint32(0)-half+1 {
			v32 &= limit
		}
	}

	if v32 > limit {
		err = fmt.Errorf("%w: %v > %#x", ErrValueRange, word, limit)
		return
	}

	value = uint16(v32)
	return
}

var labelRe = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// address decodes a 12-bit address, or a label to be linked later.
func (asm *Assembler) address(word string) (addr uint16, label string, err error) {
	if labelRe.MatchString(word) {
		label = word
		return
	}

	addr, err = asm.immediate(word, MEMORY_MASK)
	return
}

// encode returns the big-endian bytes of an instruction word.
func encode(code Code) []byte {
	return []byte{byte(code >> 8), byte(code)}
}

// xOnlyMap maps the special left operand of a single register 'ld' or
// 'add' to its operation.
var xOnlyMap = map[string]CodeOp{
	"dt":  OP_LD_DT,
	"st":  OP_LD_ST,
	"f":   OP_LD_FONT,
	"hf":  OP_LD_FONT,
	"b":   OP_LD_BCD,
	"[i]": OP_LD_DUMP,
}

// fromMap maps the special right operand of a 'ld vx, ...' to its operation.
var fromMap = map[string]CodeOp{
	"dt":  OP_LD_VX_DT,
	"k":   OP_LD_KEY,
	"[i]": OP_LD_FILL,
}

// xyMap maps register to register ALU operations.
var xyMap = map[string]CodeOp{
	"or":   OP_OR,
	"and":  OP_AND,
	"xor":  OP_XOR,
	"sub":  OP_SUB,
	"subn": OP_SUBN,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Data: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]
	lower := make([]string, len(args))
	for n, arg := range args {
		lower[n] = strings.ToLower(arg)
	}

	need := func(count int) error {
		switch {
		case len(args) < count:
			return ErrOpcodeMissing
		case len(args) > count:
			return ErrOpcodeExtraArgs
		}
		return nil
	}

	// Alternate syntax substitutions
	switch {
	case mnemonic == "halt" && len(args) == 0:
		// halt => jp to self
		data = encode(MakeCodeNNN(OP_JP, uint16(asm.currentAddress())))
		return
	case mnemonic == "sys":
		// No machine code routines on this interpreter.
		err = ErrInstructionInvalid
		return
	}

	var code Code

	switch mnemonic {
	case ".byte":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		for _, arg := range args {
			var value uint16
			value, err = asm.immediate(arg, 0xff)
			if err != nil {
				return
			}
			data = append(data, byte(value))
		}
		return
	case ".word":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		for _, arg := range args {
			var value uint16
			value, err = asm.immediate(arg, 0xffff)
			if err != nil {
				return
			}
			data = append(data, encode(Code(value))...)
		}
		return
	case "cls", "ret":
		if err = need(0); err != nil {
			return
		}
		code = MakeCode(OP_CLS, 0, 0, 0)
		if mnemonic == "ret" {
			code = MakeCode(OP_RET, 0, 0, 0)
		}
	case "jp", "call":
		op := OP_JP
		if mnemonic == "call" {
			op = OP_CALL
		}
		target := ""
		switch {
		case op == OP_JP && len(args) == 2 && lower[0] == "v0":
			op = OP_JP_V0
			target = args[1]
		case len(args) == 1:
			target = args[0]
		default:
			err = need(1)
			if err == nil {
				err = ErrOpcodeInvalid
			}
			return
		}
		var addr uint16
		addr, label, err = asm.address(target)
		if err != nil {
			return
		}
		code = MakeCodeNNN(op, addr)
	case "se", "sne":
		if err = need(2); err != nil {
			return
		}
		var x int
		x, err = register(args[0])
		if err != nil {
			return
		}
		if isRegister(args[1]) {
			op := OP_SE_REG
			if mnemonic == "sne" {
				op = OP_SNE_REG
			}
			y, _ := register(args[1])
			code = MakeCodeXY(op, x, y)
		} else {
			op := OP_SE_BYTE
			if mnemonic == "sne" {
				op = OP_SNE_BYTE
			}
			var value uint16
			value, err = asm.immediate(args[1], 0xff)
			if err != nil {
				return
			}
			code = MakeCodeXNN(op, x, uint8(value))
		}
	case "ld":
		if err = need(2); err != nil {
			return
		}
		if lower[0] == "i" {
			var addr uint16
			addr, label, err = asm.address(args[1])
			if err != nil {
				return
			}
			code = MakeCodeNNN(OP_LD_I, addr)
			break
		}
		if op, ok := xOnlyMap[lower[0]]; ok {
			var x int
			x, err = register(args[1])
			if err != nil {
				return
			}
			code = MakeCodeX(op, x)
			break
		}
		var x int
		x, err = register(args[0])
		if err != nil {
			return
		}
		if op, ok := fromMap[lower[1]]; ok {
			code = MakeCodeX(op, x)
			break
		}
		if isRegister(args[1]) {
			y, _ := register(args[1])
			code = MakeCodeXY(OP_LD_REG, x, y)
			break
		}
		var value uint16
		value, err = asm.immediate(args[1], 0xff)
		if err != nil {
			return
		}
		code = MakeCodeXNN(OP_LD_BYTE, x, uint8(value))
	case "add":
		if err = need(2); err != nil {
			return
		}
		if lower[0] == "i" {
			var x int
			x, err = register(args[1])
			if err != nil {
				return
			}
			code = MakeCodeX(OP_ADD_I, x)
			break
		}
		var x int
		x, err = register(args[0])
		if err != nil {
			return
		}
		if isRegister(args[1]) {
			y, _ := register(args[1])
			code = MakeCodeXY(OP_ADD_REG, x, y)
			break
		}
		var value uint16
		value, err = asm.immediate(args[1], 0xff)
		if err != nil {
			return
		}
		code = MakeCodeXNN(OP_ADD_BYTE, x, uint8(value))
	case "or", "and", "xor", "sub", "subn":
		if err = need(2); err != nil {
			return
		}
		var x, y int
		x, err = register(args[0])
		if err != nil {
			return
		}
		y, err = register(args[1])
		if err != nil {
			return
		}
		code = MakeCodeXY(xyMap[mnemonic], x, y)
	case "shr", "shl":
		if len(args) < 1 {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		op := OP_SHR
		if mnemonic == "shl" {
			op = OP_SHL
		}
		var x, y int
		x, err = register(args[0])
		if err != nil {
			return
		}
		if len(args) == 2 {
			y, err = register(args[1])
			if err != nil {
				return
			}
		}
		code = MakeCodeXY(op, x, y)
	case "rnd":
		if err = need(2); err != nil {
			return
		}
		var x int
		x, err = register(args[0])
		if err != nil {
			return
		}
		var value uint16
		value, err = asm.immediate(args[1], 0xff)
		if err != nil {
			return
		}
		code = MakeCodeXNN(OP_RND, x, uint8(value))
	case "drw":
		if err = need(3); err != nil {
			return
		}
		var x, y int
		x, err = register(args[0])
		if err != nil {
			return
		}
		y, err = register(args[1])
		if err != nil {
			return
		}
		var height uint16
		height, err = asm.immediate(args[2], 0xf)
		if err != nil {
			return
		}
		code = MakeCodeDraw(x, y, uint8(height))
	case "skp", "sknp":
		if err = need(1); err != nil {
			return
		}
		op := OP_SKP
		if mnemonic == "sknp" {
			op = OP_SKNP
		}
		var x int
		x, err = register(args[0])
		if err != nil {
			return
		}
		code = MakeCodeX(op, x)
	default:
		err = ErrInstructionInvalid
		return
	}

	data = encode(code)

	return
}
