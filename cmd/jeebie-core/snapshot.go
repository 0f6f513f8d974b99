package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/valerio/jeebie-core/jeebie"
)

// shadeChars maps shade indices, lightest first.
var shadeChars = []rune{'░', '▒', '▓', '█'}

// saveFrameSnapshot saves the current frame as a text representation
func saveFrameSnapshot(emu *jeebie.DMG, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := writeFrame(file, emu); err != nil {
		return err
	}
	return file.Close()
}

func writeFrame(out io.Writer, emu *jeebie.DMG) error {
	w := bufio.NewWriter(out)
	fb := emu.CurrentFrame()
	state := emu.State()

	fmt.Fprintf(w, "# Game Boy Frame Snapshot\n")
	fmt.Fprintf(w, "# Frame: %d, Cycles: %d\n", emu.FrameCount(), state.Cycles)
	fmt.Fprintf(w, "# Resolution: %dx%d pixels\n", fb.Width(), fb.Height())
	fmt.Fprintf(w, "# Legend: █=black ▓=dark ▒=light ░=white\n")
	fmt.Fprintf(w, "#\n")

	for y := 0; y < fb.Height(); y++ {
		for _, shade := range fb.Row(y) {
			w.WriteRune(shadeChars[shade&0x03])
		}
		w.WriteByte('\n')
	}

	return w.Flush()
}
