package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/chip8"
)

// pressed returns the pressed keys of a keypad state.
func pressed(keys [chip8.KEY_COUNT]bool) (list []int) {
	for n, down := range keys {
		if down {
			list = append(list, n)
		}
	}
	return
}

func TestKeypad_Poll(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{Input: strings.NewReader("5a\n.F z")}

	assert.Equal([]int{5}, pressed(kp.Poll()))
	assert.Equal([]int{0xa}, pressed(kp.Poll()))
	assert.Equal([]int{0xa}, pressed(kp.Poll())) // '\n' ignored
	assert.Nil(pressed(kp.Poll()))
	assert.Equal([]int{0xf}, pressed(kp.Poll()))
	assert.Nil(pressed(kp.Poll()))
	assert.Nil(pressed(kp.Poll())) // 'z' not in the layout
	assert.False(kp.Ended())

	assert.Nil(pressed(kp.Poll()))
	assert.True(kp.Ended())
}

func TestKeypad_Cosmac(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{Input: strings.NewReader("1x4v"), Layout: LayoutCosmac}

	assert.Equal([]int{0x1}, pressed(kp.Poll()))
	assert.Equal([]int{0x0}, pressed(kp.Poll()))
	assert.Equal([]int{0xc}, pressed(kp.Poll()))
	assert.Equal([]int{0xf}, pressed(kp.Poll()))
}

func TestKeypad_Layouts(t *testing.T) {
	assert := assert.New(t)

	for name, layout := range map[string]Layout{"hex": LayoutHex, "cosmac": LayoutCosmac} {
		seen := map[int]bool{}
		for _, key := range layout {
			assert.GreaterOrEqual(key, 0, name)
			assert.Less(key, chip8.KEY_COUNT, name)
			seen[key] = true
		}
		assert.Equal(chip8.KEY_COUNT, len(seen), name)
	}
}

// idleReader returns no data until it is given some.
type idleReader struct {
	bytes.Buffer
}

func (ir *idleReader) Read(data []byte) (n int, err error) {
	if ir.Len() == 0 {
		return
	}
	return ir.Buffer.Read(data)
}

func TestKeypad_Idle(t *testing.T) {
	assert := assert.New(t)

	input := &idleReader{}
	kp := &Keypad{Input: input}

	assert.Nil(pressed(kp.Poll()))
	input.WriteString("7")
	assert.Equal([]int{7}, pressed(kp.Poll()))
	assert.Equal([]int{7}, pressed(kp.Poll()))
	assert.False(kp.Ended())

	kp.Rewind()
	assert.Nil(pressed(kp.Poll()))
}

func TestKeypad_NoInput(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}
	assert.True(kp.Ended())
	assert.Nil(pressed(kp.Poll()))

	defines := map[string]string{}
	for key, value := range kp.Defines() {
		defines[key] = value
	}
	assert.Equal("16", defines["KEY_COUNT"])
}
