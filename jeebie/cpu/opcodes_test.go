package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstructions(t *testing.T) {
	cases := []struct {
		name    string
		program []uint8
		setup   func(c *CPU, bus *flatBus)
		check   func(t *testing.T, c *CPU, bus *flatBus)
		cycles  int
	}{
		{
			name:    "ADD A,B overflows to zero",
			program: []uint8{0x80},
			setup:   func(c *CPU, _ *flatBus) { c.a, c.b = 0x3A, 0xC6 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x00), c.a)
				assert.Equal(t, uint8(0xB0), c.f)
			},
			cycles: 4,
		},
		{
			name:    "ADC A,n adds the carry",
			program: []uint8{0xCE, 0x0F},
			setup:   func(c *CPU, _ *flatBus) { c.a, c.f = 0xE1, 0x10 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0xF1), c.a)
				assert.Equal(t, uint8(0x20), c.f)
			},
			cycles: 8,
		},
		{
			name:    "SUB E to zero",
			program: []uint8{0x93},
			setup:   func(c *CPU, _ *flatBus) { c.a, c.e = 0x3E, 0x3E },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x00), c.a)
				assert.Equal(t, uint8(0xC0), c.f)
			},
			cycles: 4,
		},
		{
			name:    "SBC A,(HL) borrows",
			program: []uint8{0x9E},
			setup: func(c *CPU, bus *flatBus) {
				c.a, c.f = 0x3B, 0x10
				c.setHL(0xC000)
				bus.mem[0xC000] = 0x4F
			},
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0xEB), c.a)
				assert.Equal(t, uint8(0x70), c.f)
			},
			cycles: 8,
		},
		{
			name:    "CP n leaves A alone",
			program: []uint8{0xFE, 0x40},
			setup:   func(c *CPU, _ *flatBus) { c.a = 0x3C },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x3C), c.a)
				assert.Equal(t, uint8(0x50), c.f)
			},
			cycles: 8,
		},
		{
			name:    "AND sets half carry",
			program: []uint8{0xA0},
			setup:   func(c *CPU, _ *flatBus) { c.a, c.b = 0x5A, 0x3F },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x1A), c.a)
				assert.Equal(t, uint8(0x20), c.f)
			},
			cycles: 4,
		},
		{
			name:    "XOR A clears A",
			program: []uint8{0xAF},
			setup:   func(c *CPU, _ *flatBus) { c.a, c.f = 0xFF, 0x70 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x00), c.a)
				assert.Equal(t, uint8(0x80), c.f)
			},
			cycles: 4,
		},
		{
			name:    "INC B half carry keeps C",
			program: []uint8{0x04},
			setup:   func(c *CPU, _ *flatBus) { c.b, c.f = 0x0F, 0x10 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x10), c.b)
				assert.Equal(t, uint8(0x30), c.f)
			},
			cycles: 4,
		},
		{
			name:    "DEC (HL)",
			program: []uint8{0x35},
			setup: func(c *CPU, bus *flatBus) {
				c.f = 0
				c.setHL(0xC010)
				bus.mem[0xC010] = 0x01
			},
			check: func(t *testing.T, c *CPU, bus *flatBus) {
				assert.Equal(t, uint8(0x00), bus.mem[0xC010])
				assert.Equal(t, uint8(0xC0), c.f)
			},
			cycles: 12,
		},
		{
			name:    "DAA after addition",
			program: []uint8{0x80, 0x27},
			setup:   func(c *CPU, _ *flatBus) { c.a, c.b = 0x45, 0x38 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x83), c.a)
				assert.Equal(t, uint8(0x00), c.f)
			},
			cycles: 4,
		},
		{
			name:    "DAA after subtraction",
			program: []uint8{0x90, 0x27},
			setup:   func(c *CPU, _ *flatBus) { c.a, c.b = 0x83, 0x38 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x45), c.a)
				assert.Equal(t, uint8(0x40), c.f)
			},
			cycles: 4,
		},
		{
			name:    "ADD HL,BC half carry from bit 11",
			program: []uint8{0x09},
			setup: func(c *CPU, _ *flatBus) {
				c.f = 0x80
				c.setHL(0x8A23)
				c.setBC(0x0605)
			},
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint16(0x9028), c.getHL())
				assert.Equal(t, uint8(0xA0), c.f, "Z is preserved")
			},
			cycles: 8,
		},
		{
			name:    "ADD SP,e carries from the low byte",
			program: []uint8{0xE8, 0x08},
			setup:   func(c *CPU, _ *flatBus) { c.sp = 0xFFF8 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint16(0x0000), c.sp)
				assert.Equal(t, uint8(0x30), c.f)
			},
			cycles: 16,
		},
		{
			name:    "LD HL,SP-1",
			program: []uint8{0xF8, 0xFF},
			setup:   func(c *CPU, _ *flatBus) { c.sp = 0x0100 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint16(0x00FF), c.getHL())
				assert.Equal(t, uint8(0x00), c.f)
			},
			cycles: 12,
		},
		{
			name:    "LD (HL+),A",
			program: []uint8{0x22},
			setup: func(c *CPU, _ *flatBus) {
				c.a = 0x56
				c.setHL(0xC0FF)
			},
			check: func(t *testing.T, c *CPU, bus *flatBus) {
				assert.Equal(t, uint8(0x56), bus.mem[0xC0FF])
				assert.Equal(t, uint16(0xC100), c.getHL())
			},
			cycles: 8,
		},
		{
			name:    "LD (nn),SP",
			program: []uint8{0x08, 0x00, 0xC1},
			setup:   func(c *CPU, _ *flatBus) { c.sp = 0xBEEF },
			check: func(t *testing.T, c *CPU, bus *flatBus) {
				assert.Equal(t, uint8(0xEF), bus.mem[0xC100])
				assert.Equal(t, uint8(0xBE), bus.mem[0xC101])
			},
			cycles: 20,
		},
		{
			name:    "LDH (n),A",
			program: []uint8{0xE0, 0x80},
			setup:   func(c *CPU, _ *flatBus) { c.a = 0x99 },
			check: func(t *testing.T, c *CPU, bus *flatBus) {
				assert.Equal(t, uint8(0x99), bus.mem[0xFF80])
			},
			cycles: 12,
		},
		{
			name:    "RLCA clears Z",
			program: []uint8{0x07},
			setup:   func(c *CPU, _ *flatBus) { c.a = 0x85 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x0B), c.a)
				assert.Equal(t, uint8(0x10), c.f)
			},
			cycles: 4,
		},
		{
			name:    "CPL",
			program: []uint8{0x2F},
			setup:   func(c *CPU, _ *flatBus) { c.a, c.f = 0x35, 0 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0xCA), c.a)
				assert.Equal(t, uint8(0x60), c.f)
			},
			cycles: 4,
		},
		{
			name:    "CCF",
			program: []uint8{0x3F},
			setup:   func(c *CPU, _ *flatBus) { c.f = 0xF0 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x80), c.f)
			},
			cycles: 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, bus, _ := newTestCPU(tc.program...)
			tc.setup(c, bus)

			cycles := 0
			for c.pc < 0x0100+uint16(len(tc.program)) {
				cycles = step(t, c)
			}

			assert.Equal(t, tc.cycles, cycles)
			tc.check(t, c, bus)
		})
	}
}

func TestControlFlow(t *testing.T) {
	cases := []struct {
		name    string
		program []uint8
		flags   uint8
		pc      uint16
		cycles  int
	}{
		{"JR taken", []uint8{0x18, 0x05}, 0, 0x0107, 12},
		{"JR backwards", []uint8{0x18, 0xFE}, 0, 0x0100, 12},
		{"JR NZ taken", []uint8{0x20, 0x10}, 0x00, 0x0112, 12},
		{"JR NZ not taken", []uint8{0x20, 0x10}, 0x80, 0x0102, 8},
		{"JR C taken", []uint8{0x38, 0x10}, 0x10, 0x0112, 12},
		{"JP nn", []uint8{0xC3, 0x50, 0x01}, 0, 0x0150, 16},
		{"JP Z taken", []uint8{0xCA, 0x50, 0x01}, 0x80, 0x0150, 16},
		{"JP Z not taken", []uint8{0xCA, 0x50, 0x01}, 0x00, 0x0103, 12},
		{"CALL nn", []uint8{0xCD, 0x00, 0x02}, 0, 0x0200, 24},
		{"CALL NC taken", []uint8{0xD4, 0x00, 0x02}, 0, 0x0200, 24},
		{"CALL NC not taken", []uint8{0xD4, 0x00, 0x02}, 0x10, 0x0103, 12},
		{"RET", []uint8{0xC9}, 0, 0x1234, 16},
		{"RET Z taken", []uint8{0xC8}, 0x80, 0x1234, 20},
		{"RET Z not taken", []uint8{0xC8}, 0x00, 0x0101, 8},
		{"RST 38", []uint8{0xFF}, 0, 0x0038, 16},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, bus, _ := newTestCPU(tc.program...)
			c.f = tc.flags
			c.sp = 0xCFFE
			bus.mem[0xCFFE] = 0x34
			bus.mem[0xCFFF] = 0x12

			assert.Equal(t, tc.cycles, step(t, c))
			assert.Equal(t, tc.pc, c.pc)
		})
	}
}

func TestCallPushesReturnAddress(t *testing.T) {
	c, bus, _ := newTestCPU(0xCD, 0x00, 0x02)
	bus.mem[0x0200] = 0xC9
	c.sp = 0xD000

	step(t, c)
	assert.Equal(t, uint8(0x01), bus.mem[0xCFFF])
	assert.Equal(t, uint8(0x03), bus.mem[0xCFFE])

	step(t, c)
	assert.Equal(t, uint16(0x0103), c.pc)
	assert.Equal(t, uint16(0xD000), c.sp)
}

func TestCBInstructions(t *testing.T) {
	cases := []struct {
		name   string
		op     uint8
		setup  func(c *CPU, bus *flatBus)
		check  func(t *testing.T, c *CPU, bus *flatBus)
		cycles int
	}{
		{
			name:  "RLC B",
			op:    0x00,
			setup: func(c *CPU, _ *flatBus) { c.b = 0x80 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x01), c.b)
				assert.Equal(t, uint8(0x10), c.f)
			},
			cycles: 8,
		},
		{
			name:  "RR A through carry",
			op:    0x1F,
			setup: func(c *CPU, _ *flatBus) { c.a, c.f = 0x01, 0x00 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x00), c.a)
				assert.Equal(t, uint8(0x90), c.f)
			},
			cycles: 8,
		},
		{
			name:  "SRA keeps the sign",
			op:    0x2A,
			setup: func(c *CPU, _ *flatBus) { c.d = 0x8A },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0xC5), c.d)
				assert.Equal(t, uint8(0x00), c.f)
			},
			cycles: 8,
		},
		{
			name:  "SWAP (HL)",
			op:    0x36,
			setup: func(c *CPU, bus *flatBus) { c.setHL(0xC000); bus.mem[0xC000] = 0xF1 },
			check: func(t *testing.T, _ *CPU, bus *flatBus) {
				assert.Equal(t, uint8(0x1F), bus.mem[0xC000])
			},
			cycles: 16,
		},
		{
			name:  "SRL L",
			op:    0x3D,
			setup: func(c *CPU, _ *flatBus) { c.l = 0x01 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x00), c.l)
				assert.Equal(t, uint8(0x90), c.f)
			},
			cycles: 8,
		},
		{
			name:  "BIT 7,H clear",
			op:    0x7C,
			setup: func(c *CPU, _ *flatBus) { c.h, c.f = 0x7F, 0x10 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0xB0), c.f, "C is preserved")
			},
			cycles: 8,
		},
		{
			name:  "BIT 0,(HL) set",
			op:    0x46,
			setup: func(c *CPU, bus *flatBus) { c.f = 0; c.setHL(0xC000); bus.mem[0xC000] = 0x01 },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0x20), c.f)
			},
			cycles: 12,
		},
		{
			name:  "RES 3,A",
			op:    0x9F,
			setup: func(c *CPU, _ *flatBus) { c.a = 0xFF },
			check: func(t *testing.T, c *CPU, _ *flatBus) {
				assert.Equal(t, uint8(0xF7), c.a)
			},
			cycles: 8,
		},
		{
			name:  "SET 6,(HL)",
			op:    0xF6,
			setup: func(c *CPU, bus *flatBus) { c.setHL(0xC000) },
			check: func(t *testing.T, _ *CPU, bus *flatBus) {
				assert.Equal(t, uint8(0x40), bus.mem[0xC000])
			},
			cycles: 16,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, bus, _ := newTestCPU(0xCB, tc.op)
			tc.setup(c, bus)

			assert.Equal(t, tc.cycles, step(t, c))
			assert.Equal(t, uint16(0x0102), c.pc)
			tc.check(t, c, bus)
		})
	}
}
