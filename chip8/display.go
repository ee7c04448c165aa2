package chip8

import (
	"strings"
)

const (
	SCREEN_WIDTH  = 64 // Display width in pixels.
	SCREEN_HEIGHT = 32 // Display height in pixels.
)

// Display is the monochrome pixel grid, indexed [y][x].
type Display struct {
	Cell [SCREEN_HEIGHT][SCREEN_WIDTH]bool
}

// Width of the display.
func (d *Display) Width() int {
	return SCREEN_WIDTH
}

// Height of the display.
func (d *Display) Height() int {
	return SCREEN_HEIGHT
}

// Pixel returns the state of the cell at x, y. Coordinates wrap.
func (d *Display) Pixel(x, y int) bool {
	return d.Cell[wrap(y, SCREEN_HEIGHT)][wrap(x, SCREEN_WIDTH)]
}

// Clear turns off every cell.
func (d *Display) Clear() {
	d.Cell = [SCREEN_HEIGHT][SCREEN_WIDTH]bool{}
}

// Toggle inverts the cell at x, y, wrapping at the screen edges.
// Returns true if the cell was turned off.
func (d *Display) Toggle(x, y int) (erased bool) {
	cell := &d.Cell[wrap(y, SCREEN_HEIGHT)][wrap(x, SCREEN_WIDTH)]
	erased = *cell
	*cell = !*cell
	return
}

// Draw XORs an 8 pixel wide sprite onto the display at x, y, most
// significant bit leftmost. Returns true if any lit cell was erased.
func (d *Display) Draw(x, y int, sprite []byte) (collision bool) {
	for row, bits := range sprite {
		for col := range 8 {
			if bits&(0x80>>col) == 0 {
				continue
			}
			if d.Toggle(x+col, y+row) {
				collision = true
			}
		}
	}

	return
}

// Lit returns the number of cells turned on.
func (d *Display) Lit() (count int) {
	for y := range d.Cell {
		for _, on := range d.Cell[y] {
			if on {
				count++
			}
		}
	}
	return
}

// String renders the display, one line per row, '#' for lit cells.
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow((SCREEN_WIDTH + 1) * SCREEN_HEIGHT)
	for y := range d.Cell {
		for _, on := range d.Cell[y] {
			if on {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func wrap(value, limit int) int {
	value %= limit
	if value < 0 {
		value += limit
	}
	return value
}
