package chip8

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestMachine returns a machine with the words loaded at PROGRAM_ORIGIN.
func newTestMachine(t *testing.T, words ...Code) (mc *Machine) {
	mc = NewMachine()

	data := make([]byte, 0, 2*len(words))
	for _, word := range words {
		data = append(data, byte(word>>8), byte(word))
	}

	if err := mc.Load(data); err != nil {
		t.Fatal(err)
	}

	return
}

func TestExecuteRegisters(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
		init map[int]uint8
		want map[int]uint8
		pc   uint16
	}){
		{"ld byte", 0x6042, nil, map[int]uint8{0: 0x42}, 0x202},
		{"add byte wraps", 0x70FF, map[int]uint8{0: 2, 0xf: 7}, map[int]uint8{0: 1, 0xf: 7}, 0x202},
		{"ld reg", 0x8010, map[int]uint8{1: 9}, map[int]uint8{0: 9, 1: 9}, 0x202},
		{"or", 0x8011, map[int]uint8{0: 0xf0, 1: 0x0f}, map[int]uint8{0: 0xff}, 0x202},
		{"and", 0x8012, map[int]uint8{0: 0xf0, 1: 0x3c}, map[int]uint8{0: 0x30}, 0x202},
		{"xor", 0x8013, map[int]uint8{0: 0xff, 1: 0x0f}, map[int]uint8{0: 0xf0}, 0x202},
		{"add carry", 0x8014, map[int]uint8{0: 0xff, 1: 1}, map[int]uint8{0: 0, 0xf: 1}, 0x202},
		{"add no carry", 0x8014, map[int]uint8{0: 0x10, 1: 0x20, 0xf: 1}, map[int]uint8{0: 0x30, 0xf: 0}, 0x202},
		{"sub", 0x8015, map[int]uint8{0: 5, 1: 3}, map[int]uint8{0: 2, 0xf: 1}, 0x202},
		{"sub borrow", 0x8015, map[int]uint8{0: 3, 1: 5}, map[int]uint8{0: 0xfe, 0xf: 0}, 0x202},
		{"sub equal", 0x8015, map[int]uint8{0: 5, 1: 5}, map[int]uint8{0: 0, 0xf: 1}, 0x202},
		{"subn", 0x8017, map[int]uint8{0: 3, 1: 5}, map[int]uint8{0: 2, 0xf: 1}, 0x202},
		{"subn borrow", 0x8017, map[int]uint8{0: 5, 1: 3}, map[int]uint8{0: 0xfe, 0xf: 0}, 0x202},
		{"shr", 0x8016, map[int]uint8{0: 0x05, 1: 0xff}, map[int]uint8{0: 0x02, 0xf: 1}, 0x202},
		{"shr even", 0x8016, map[int]uint8{0: 0x04}, map[int]uint8{0: 0x02, 0xf: 0}, 0x202},
		{"shl", 0x801E, map[int]uint8{0: 0x81}, map[int]uint8{0: 0x02, 0xf: 1}, 0x202},
		{"shl no carry", 0x801E, map[int]uint8{0: 0x41}, map[int]uint8{0: 0x82, 0xf: 0}, 0x202},
		{"shr last bit", 0x8016, map[int]uint8{0: 0x01}, map[int]uint8{0: 0x00, 0xf: 1}, 0x202},
		{"shl last bit", 0x801E, map[int]uint8{0: 0x80}, map[int]uint8{0: 0x00, 0xf: 1}, 0x202},
		{"flag beats result", 0x8F14, map[int]uint8{0xf: 0xff, 1: 1}, map[int]uint8{0xf: 1}, 0x202},
		{"se byte", 0x3042, map[int]uint8{0: 0x42}, nil, 0x204},
		{"se byte no skip", 0x3042, map[int]uint8{0: 0x41}, nil, 0x202},
		{"sne byte", 0x4042, map[int]uint8{0: 0x41}, nil, 0x204},
		{"sne byte no skip", 0x4042, map[int]uint8{0: 0x42}, nil, 0x202},
		{"se reg", 0x5010, map[int]uint8{0: 1, 1: 1}, nil, 0x204},
		{"sne reg", 0x9010, map[int]uint8{0: 1, 1: 2}, nil, 0x204},
		{"sne reg no skip", 0x9010, map[int]uint8{0: 2, 1: 2}, nil, 0x202},
		{"jp", 0x1300, nil, nil, 0x300},
		{"jp v0", 0xB300, map[int]uint8{0: 4}, nil, 0x304},
	}

	for _, entry := range table {
		mc := newTestMachine(t, entry.code)
		for reg, value := range entry.init {
			mc.Register[reg] = value
		}

		err := mc.Step()
		assert.NoError(err, entry.name)
		for reg, value := range entry.want {
			assert.Equal(value, mc.Register[reg], "%v: v%X", entry.name, reg)
		}
		assert.Equal(entry.pc, mc.Pc, entry.name)
		assert.Equal(1, mc.Ticks, entry.name)
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0x6042, 0x7001)

	assert.NoError(mc.Step())
	assert.NoError(mc.Step())

	assert.Equal(uint8(0x43), mc.Register[0])
	assert.Equal(uint16(0x204), mc.Pc)
	assert.Equal(2, mc.Ticks)
}

func TestExecuteCallRet(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t,
		0x2206, // call 0x206
		0x6001, // ld v0, 1
		0x1204, // jp 0x204
		0x00EE, // ret
	)

	assert.NoError(mc.Step())
	assert.Equal(uint16(0x206), mc.Pc)
	assert.Equal(1, mc.Stack.Pointer)
	top, ok := mc.Stack.Peek()
	assert.True(ok)
	assert.Equal(uint16(0x202), top)

	assert.NoError(mc.Step())
	assert.Equal(uint16(0x202), mc.Pc)
	assert.Equal(0, mc.Stack.Pointer)

	assert.NoError(mc.Step())
	assert.Equal(uint8(1), mc.Register[0])

	assert.NoError(mc.Step())
	assert.Equal(uint16(0x204), mc.Pc)
	assert.True(mc.Idle)
}

func TestExecuteStackErrors(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0x00EE)
	err := mc.Step()
	assert.ErrorIs(err, ErrStackEmpty)
	assert.ErrorIs(err, ErrOpcode{})

	var eo ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(uint16(0x200), eo.Pc)
	assert.Equal(Code(0x00EE), eo.Code)
	assert.Equal(0, mc.Ticks)

	// Calls itself until the stack overflows.
	mc = newTestMachine(t, 0x2200)
	for range STACK_LIMIT {
		assert.NoError(mc.Step())
	}
	assert.True(mc.Stack.Full())
	err = mc.Step()
	assert.ErrorIs(err, ErrStackFull)
	assert.Equal(STACK_LIMIT, mc.Stack.Pointer)
}

func TestExecuteDecode(t *testing.T) {
	assert := assert.New(t)

	for _, code := range []Code{0x0000, 0x0123, 0x5001, 0x8008, 0x800F, 0x9001, 0xE000, 0xF0FF} {
		mc := newTestMachine(t, code)
		err := mc.Step()
		assert.ErrorIs(err, ErrOpcodeDecode, code.String())

		var eo ErrOpcode
		if assert.True(errors.As(err, &eo), code.String()) {
			assert.Equal(uint16(PROGRAM_ORIGIN), eo.Pc)
			assert.Equal(code, eo.Code)
		}
		assert.Equal(0, mc.Ticks)
	}
}

func TestExecuteDraw(t *testing.T) {
	assert := assert.New(t)

	// Glyph '0' at the top left, twice.
	mc := newTestMachine(t, 0xD015, 0xD015)

	assert.NoError(mc.Step())
	assert.Equal(14, mc.Display.Lit())
	assert.Equal(uint8(0), mc.Register[REGISTER_FLAG])
	assert.True(mc.Display.Pixel(0, 0))
	assert.True(mc.Display.Pixel(3, 4))
	assert.False(mc.Display.Pixel(1, 1))

	assert.NoError(mc.Step())
	assert.Equal(0, mc.Display.Lit())
	assert.Equal(uint8(1), mc.Register[REGISTER_FLAG])
}

func TestExecuteDrawWrap(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0xA300, 0xD012, 0xD012)
	mc.Memory[0x300] = 0xFF
	mc.Memory[0x301] = 0xFF
	mc.Register[0] = 63
	mc.Register[1] = 31

	assert.NoError(mc.Step())
	assert.NoError(mc.Step())

	// A full row from column 63 covers columns 63 and 0 through 6.
	assert.Equal(16, mc.Display.Lit())
	for _, row := range []int{31, 0} {
		assert.True(mc.Display.Pixel(63, row), "row %d", row)
		for col := range 7 {
			assert.True(mc.Display.Pixel(col, row), "col %d row %d", col, row)
		}
		assert.False(mc.Display.Pixel(7, row), "row %d", row)
		assert.False(mc.Display.Pixel(62, row), "row %d", row)
	}
	assert.Equal(uint8(0), mc.Register[REGISTER_FLAG])

	// Drawing again erases every wrapped cell.
	assert.NoError(mc.Step())
	assert.Equal(0, mc.Display.Lit())
	assert.Equal(uint8(1), mc.Register[REGISTER_FLAG])
}

func TestExecuteDrawClear(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0xD015, 0x00E0)

	assert.NoError(mc.Step())
	assert.NotEqual(0, mc.Display.Lit())
	assert.NoError(mc.Step())
	assert.Equal(0, mc.Display.Lit())
}

func TestExecuteMemory(t *testing.T) {
	assert := assert.New(t)

	// BCD
	mc := newTestMachine(t, 0xA300, 0xF033)
	mc.Register[0] = 123
	assert.NoError(mc.Step())
	assert.NoError(mc.Step())
	assert.Equal([]byte{1, 2, 3}, mc.Memory[0x300:0x303])
	assert.Equal(uint16(0x300), mc.Index)

	// Dump and fill
	mc = newTestMachine(t, 0xA300, 0xF555, 0xF565)
	for n := range 6 {
		mc.Register[n] = uint8(n + 1)
	}
	mc.Register[6] = 0x66
	assert.NoError(mc.Step())
	assert.NoError(mc.Step())
	assert.Equal([]byte{1, 2, 3, 4, 5, 6, 0}, mc.Memory[0x300:0x307])
	assert.Equal(uint16(0x300), mc.Index)

	clear(mc.Register[:])
	mc.Register[6] = 0x77
	assert.NoError(mc.Step())
	assert.Equal([]uint8{1, 2, 3, 4, 5, 6, 0x77}, mc.Register[:7])
	assert.Equal(uint16(0x300), mc.Index)
}

func TestExecuteMemoryErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		index uint16
		code  Code
		err   error
	}){
		{"dump protected", 0x100, 0xF055, ErrMemoryProtected},
		{"bcd protected", 0x1ff, 0xF033, ErrMemoryProtected},
		{"dump range", 0xffe, 0xF255, ErrMemoryRange},
		{"bcd range", 0xffe, 0xF033, ErrMemoryRange},
		{"fill range", 0xfff, 0xF165, ErrMemoryRange},
		{"draw range", 0xfff, 0xD012, ErrMemoryRange},
	}

	for _, entry := range table {
		mc := newTestMachine(t, entry.code)
		mc.Index = entry.index
		font := mc.Memory[:len(Font)]

		err := mc.Step()
		assert.ErrorIs(err, entry.err, entry.name)
		assert.ErrorIs(err, ErrOpcode{}, entry.name)
		assert.Equal(Font[:], font, entry.name)
	}

	mc := newTestMachine(t, 0xBFFF)
	mc.Register[0] = 0x01
	assert.ErrorIs(mc.Step(), ErrMemoryRange)

	mc = newTestMachine(t)
	mc.Pc = MEMORY_MASK
	assert.ErrorIs(mc.Step(), ErrMemoryRange)
}

func TestExecuteKeyWait(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0xF00A)

	assert.NoError(mc.Step())
	assert.Equal(uint16(0x200), mc.Pc)
	assert.True(mc.Waiting)
	assert.NoError(mc.Step())
	assert.Equal(uint16(0x200), mc.Pc)
	assert.True(mc.Waiting)

	assert.NoError(mc.SetKey(7, true))
	assert.NoError(mc.SetKey(3, true))
	assert.NoError(mc.Step())
	assert.Equal(uint8(3), mc.Register[0])
	assert.Equal(uint16(0x202), mc.Pc)
	assert.False(mc.Waiting)
	assert.False(mc.Idle)
}

func TestExecuteKeySkip(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		code    Code
		pressed bool
		pc      uint16
	}){
		{"skp pressed", 0xE09E, true, 0x204},
		{"skp released", 0xE09E, false, 0x202},
		{"sknp pressed", 0xE0A1, true, 0x202},
		{"sknp released", 0xE0A1, false, 0x204},
	}

	for _, entry := range table {
		mc := newTestMachine(t, entry.code)
		mc.Register[0] = 0x15 // only the low nibble selects a key
		assert.NoError(mc.SetKey(5, entry.pressed))
		assert.NoError(mc.Step(), entry.name)
		assert.Equal(entry.pc, mc.Pc, entry.name)
	}
}

func TestExecuteTimers(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0xF015, 0xF118, 0xF207)
	mc.Register[0] = 10
	mc.Register[1] = 1

	assert.NoError(mc.Step())
	assert.NoError(mc.Step())
	assert.Equal(uint8(10), mc.Delay)
	assert.Equal(uint8(1), mc.Sound)
	assert.True(mc.Tone())

	mc.TimerTick()
	assert.Equal(uint8(9), mc.Delay)
	assert.Equal(uint8(0), mc.Sound)
	assert.False(mc.Tone())

	mc.TimerTick()
	assert.Equal(uint8(0), mc.Sound)

	assert.NoError(mc.Step())
	assert.Equal(uint8(8), mc.Register[2])
}

func TestExecuteIndex(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0xAFFF, 0xF01E, 0xF11E)
	mc.Register[0] = 0x02
	mc.Register[1] = 0xff

	assert.NoError(mc.Step())
	assert.NoError(mc.Step())
	assert.Equal(uint16(0x1001), mc.Index)

	mc.Index = 0xffff
	assert.NoError(mc.Step())
	assert.Equal(uint16(0x00fe), mc.Index)

	mc = newTestMachine(t, 0xF029, 0xF129)
	mc.Register[0] = 0xA
	mc.Register[1] = 0x1F
	assert.NoError(mc.Step())
	assert.Equal(uint16(FONT_BASE+0xA*FONT_GLYPH), mc.Index)
	assert.NoError(mc.Step())
	assert.Equal(uint16(FONT_BASE+0xF*FONT_GLYPH), mc.Index)
}

func TestExecuteRandom(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0xC00F, 0xC1F0)
	mc.Random = func() uint8 { return 0xAB }

	assert.NoError(mc.Step())
	assert.NoError(mc.Step())
	assert.Equal(uint8(0x0B), mc.Register[0])
	assert.Equal(uint8(0xA0), mc.Register[1])
}

func TestExecuteIdle(t *testing.T) {
	assert := assert.New(t)

	mc := newTestMachine(t, 0x1202, 0x1202)

	assert.NoError(mc.Step())
	assert.False(mc.Idle)
	assert.NoError(mc.Step())
	assert.True(mc.Idle)
	assert.Equal(uint16(0x202), mc.Pc)
	assert.NoError(mc.Step())
	assert.True(mc.Idle)
	assert.False(mc.Waiting)

	// A call to itself leaves the pc unchanged but is not idle.
	mc = newTestMachine(t, 0x2200)
	assert.NoError(mc.Step())
	assert.Equal(uint16(0x200), mc.Pc)
	assert.False(mc.Idle)
	assert.False(mc.Waiting)
}
