package io

import (
	"io"
	"iter"
	"maps"
	"strings"
)

const (
	ANSI_CLEAR = "\033[2J" // Erase the terminal.
	ANSI_HOME  = "\033[H"  // Move the cursor to the top left.
)

// Raster is a monochrome pixel grid.
type Raster interface {
	Width() int
	Height() int
	Pixel(x, y int) bool
}

// Screen writes a raster as text, two pixel rows per line of half block
// glyphs. Frames identical to the last one written are skipped.
type Screen struct {
	Output io.Writer // Text output.
	Ansi   bool      // Redraw in place with ANSI cursor control.
	Frames int       // Frames written since the last rewind.

	last string
}

var _ Device = (*Screen)(nil)

// Defines returns an iter of defines for the screen.
func (sc *Screen) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{})
}

// Rewind forgets the last frame, so the next one is always written.
func (sc *Screen) Rewind() {
	sc.last = ""
	sc.Frames = 0
}

// Draw writes the raster, if it changed.
func (sc *Screen) Draw(raster Raster) (err error) {
	frame := Render(raster)
	if frame == sc.last {
		return
	}

	text := frame
	if sc.Ansi {
		if sc.Frames == 0 {
			text = ANSI_CLEAR + ANSI_HOME + text
		} else {
			text = ANSI_HOME + text
		}
	}

	if sc.Output != nil {
		_, err = io.WriteString(sc.Output, text)
		if err != nil {
			return
		}
	}

	sc.last = frame
	sc.Frames++

	return
}

// Render returns the text of a raster.
func Render(raster Raster) string {
	var sb strings.Builder

	width := raster.Width()
	height := raster.Height()
	for y := 0; y < height; y += 2 {
		for x := range width {
			top := raster.Pixel(x, y)
			bottom := y+1 < height && raster.Pixel(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
