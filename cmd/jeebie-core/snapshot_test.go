package main

import (
	"bytes"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-core/jeebie"
)

func testROM() []byte {
	rom := make([]byte, 0x8000)
	// NOP; JP 0x0150; then JR -2 forever
	copy(rom[0x0100:], []uint8{0x00, 0xC3, 0x50, 0x01})
	copy(rom[0x0150:], []uint8{0x18, 0xFE})
	var sum uint8
	for _, b := range rom[0x0134:0x014D] {
		sum = sum - b - 1
	}
	rom[0x014D] = sum
	return rom
}

func TestWriteFrame(t *testing.T) {
	emu, err := jeebie.New(testROM(), jeebie.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	require.NoError(t, emu.RunFrames(2))

	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, emu))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5+144)
	assert.Equal(t, "# Frame: 2, Cycles: "+strconv.FormatUint(emu.State().Cycles, 10), lines[1])

	// empty VRAM renders tile 0 with color 0 everywhere, BGP maps it to white
	for _, line := range lines[5:] {
		assert.Equal(t, strings.Repeat("░", 160), line)
	}
}
