package chip8

// Opcode represents a line of assembled code with its source location and
// generated bytes.
type Opcode struct {
	LineNo    int
	Address   int
	Words     []string
	Data      []byte
	LinkLabel string
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode covering a memory address.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Address && int(addr) < op.Address+len(op.Data) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Address,
			}
			break
		}
	}

	return
}

// Binary returns the program image, starting at PROGRAM_ORIGIN.
func (prog *Program) Binary() (bin []byte) {
	for _, op := range prog.Opcodes {
		offset := op.Address - PROGRAM_ORIGIN
		if offset < 0 {
			continue
		}
		end := offset + len(op.Data)
		if end > len(bin) {
			bin = append(bin, make([]byte, end-len(bin))...)
		}
		copy(bin[offset:], op.Data)
	}

	return
}
