package io

import (
	"io"
	"iter"
	"maps"
)

// BEL sounds the terminal bell.
const BEL = "\a"

// Buzzer rings a bell each time the tone starts.
type Buzzer struct {
	Output io.Writer // Bell output.
	Beeps  int       // Tones started since the last rewind.

	tone bool
}

var _ Device = (*Buzzer)(nil)

// Defines returns an iter of defines for the buzzer.
func (bz *Buzzer) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{})
}

// Rewind silences the buzzer.
func (bz *Buzzer) Rewind() {
	bz.tone = false
	bz.Beeps = 0
}

// Sound updates the tone state.
func (bz *Buzzer) Sound(tone bool) (err error) {
	if tone && !bz.tone {
		bz.Beeps++
		if bz.Output != nil {
			_, err = io.WriteString(bz.Output, BEL)
		}
	}

	bz.tone = tone

	return
}
