package io

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"maps"

	"github.com/ezrec/chip8/chip8"
)

// ROM_LIMIT is the largest program image that fits in memory.
const ROM_LIMIT = chip8.PROGRAM_LIMIT

var _rom_defines = map[string]string{
	"ROM_LIMIT": fmt.Sprintf("%#x", ROM_LIMIT),
}

// Rom holds a program image.
type Rom struct {
	Data []byte
}

var _ Device = (*Rom)(nil)
var _ io.ReaderFrom = (*Rom)(nil)

// OpenRom reads a program image from a file system.
func OpenRom(fsys fs.FS, name string) (rc *Rom, err error) {
	file, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	rc = &Rom{}
	_, err = rc.ReadFrom(file)
	if err != nil {
		rc = nil
		err = fmt.Errorf("%v: %w", name, err)
	}

	return
}

// ReadFrom replaces the image with the contents of a reader.
func (rc *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	data, err := io.ReadAll(io.LimitReader(r, ROM_LIMIT+1))
	n = int64(len(data))
	if err != nil {
		return
	}

	if len(data) > ROM_LIMIT {
		err = fmt.Errorf("%w: more than %d bytes", ErrRomTooLarge, ROM_LIMIT)
		return
	}

	rc.Data = data
	return
}

// Defines returns an iter of defines for the rom.
func (rc *Rom) Defines() iter.Seq2[string, string] {
	return maps.All(_rom_defines)
}

// Rewind does nothing; the image is read-only.
func (rc *Rom) Rewind() {
}
