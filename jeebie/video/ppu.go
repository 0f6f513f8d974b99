// Package video implements the DMG picture processing unit: the per-dot
// mode sequencer, LCD registers, VRAM/OAM ownership and the line renderer.
package video

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/interrupt"
)

// Mode is the value reported in STAT bits 0-1.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	PixelTransfer
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "hblank"
	case VBlank:
		return "vblank"
	case OAMScan:
		return "oam-scan"
	case PixelTransfer:
		return "pixel-transfer"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

const (
	oamScanDots  = 80
	transferDots = 172
	LineDots     = 456
	VisibleLines = 144
	TotalLines   = 154
	FrameDots    = LineDots * TotalLines
)

// LCDC bits
const (
	lcdcBGEnable      = 0
	lcdcSpriteEnable  = 1
	lcdcSpriteSize    = 2
	lcdcBGMap         = 3
	lcdcTileData      = 4
	lcdcWindowEnable  = 5
	lcdcWindowMap     = 6
	lcdcDisplayEnable = 7
)

// STAT interrupt select bits
const (
	statHBlankSelect = 3
	statVBlankSelect = 4
	statOAMSelect    = 5
	statLYCSelect    = 6

	statSelectMask uint8 = 0x78
)

// PPU owns VRAM, OAM and the LCD registers and advances one dot per clock.
type PPU struct {
	vram [0x2000]uint8
	oam  [0xA0]uint8

	lcdc       uint8
	statSelect uint8
	scy        uint8
	scx        uint8
	ly         uint8
	lyc        uint8
	bgp        uint8
	obp0       uint8
	obp1       uint8
	wy         uint8
	wx         uint8

	mode        Mode
	dot         int
	coincidence bool
	statLine    bool

	windowLatch bool
	windowLine  int

	// OAM DMA owns the OAM bus
	dmaActive bool

	lineSprites []sprite
	spriteBuf   [maxSpritesPerLine]sprite

	back       *FrameBuffer
	front      *FrameBuffer
	frameReady bool
	frames     uint64

	irq    interrupt.Requester
	logger *slog.Logger
}

// New returns a PPU with the display disabled and all registers cleared.
func New(irq interrupt.Requester, logger *slog.Logger) *PPU {
	if logger == nil {
		logger = slog.Default()
	}
	return &PPU{
		back:   NewFrameBuffer(),
		front:  NewFrameBuffer(),
		irq:    irq,
		logger: logger,
	}
}

// Mode returns the current mode. With the display off this is always HBlank.
func (p *PPU) Mode() Mode {
	return p.mode
}

// LY returns the current scanline.
func (p *PPU) LY() uint8 {
	return p.ly
}

// Dot returns the position within the current scanline.
func (p *PPU) Dot() int {
	return p.dot
}

// Enabled reports whether LCDC bit 7 is set.
func (p *PPU) Enabled() bool {
	return bit.IsSet(lcdcDisplayEnable, p.lcdc)
}

// WindowLatched reports whether WY has matched LY this frame.
func (p *PPU) WindowLatched() bool {
	return p.windowLatch
}

// WindowLine returns the internal window line counter.
func (p *PPU) WindowLine() int {
	return p.windowLine
}

// Frame returns the last completed frame. It is only replaced on VBlank entry.
func (p *PPU) Frame() *FrameBuffer {
	return p.front
}

// FrameCount returns how many frames have been completed.
func (p *PPU) FrameCount() uint64 {
	return p.frames
}

// ConsumeFrameReady reports whether a frame completed since the last call.
func (p *PPU) ConsumeFrameReady() bool {
	ready := p.frameReady
	p.frameReady = false
	return ready
}

// Advance runs the PPU for the given number of dots.
func (p *PPU) Advance(cycles int) {
	if !p.Enabled() {
		return
	}

	for range cycles {
		p.dot++

		switch p.mode {
		case OAMScan:
			if p.dot == oamScanDots {
				p.scanOAM()
				p.setMode(PixelTransfer)
			}
		case PixelTransfer:
			if p.dot == oamScanDots+transferDots {
				p.renderLine()
				p.setMode(HBlank)
			}
		case HBlank, VBlank:
			if p.dot == LineDots {
				p.dot = 0
				p.nextLine()
			}
		}
	}
}

// nextLine moves LY on. LY=LYC reads false until the new line has been
// compared, so the STAT line drops between the old line and the new mode.
func (p *PPU) nextLine() {
	p.ly++
	if p.ly == TotalLines {
		p.ly = 0
		p.windowLatch = false
		p.windowLine = 0
	}

	p.coincidence = false
	p.updateStatLine()

	switch {
	case p.ly == VisibleLines:
		p.enterVBlank()
	case p.ly < VisibleLines:
		p.startLine()
	}

	p.compareLY()
}

func (p *PPU) enterVBlank() {
	p.front, p.back = p.back, p.front
	p.frames++
	p.frameReady = true
	p.setMode(VBlank)
	p.irq.Request(interrupt.VBlank)
}

func (p *PPU) startLine() {
	if p.ly == p.wy {
		p.windowLatch = true
	}
	p.setMode(OAMScan)
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.updateStatLine()
}

func (p *PPU) compareLY() {
	p.coincidence = p.ly == p.lyc
	p.updateStatLine()
}

// updateStatLine recomputes the STAT interrupt line. The interrupt is only
// requested on a low to high transition of the combined sources.
func (p *PPU) updateStatLine() {
	line := false
	if p.Enabled() {
		line = (p.coincidence && bit.IsSet(statLYCSelect, p.statSelect)) ||
			(p.mode == HBlank && bit.IsSet(statHBlankSelect, p.statSelect)) ||
			(p.mode == VBlank && bit.IsSet(statVBlankSelect, p.statSelect)) ||
			(p.mode == OAMScan && bit.IsSet(statOAMSelect, p.statSelect))
	}

	if line && !p.statLine {
		p.irq.Request(interrupt.LCDStat)
	}
	p.statLine = line
}

func (p *PPU) setLCDC(value uint8) {
	wasOn := p.Enabled()
	p.lcdc = value
	isOn := p.Enabled()

	switch {
	case wasOn && !isOn:
		p.ly = 0
		p.dot = 0
		p.mode = HBlank
		p.statLine = false
		p.back.clear()
		p.logger.Debug("lcd disabled")
	case !wasOn && isOn:
		p.ly = 0
		p.dot = 0
		p.windowLatch = false
		p.windowLine = 0
		p.compareLY()
		p.startLine()
		p.logger.Debug("lcd enabled")
	}
}

// vramBlocked reports whether the CPU is locked out of VRAM.
func (p *PPU) vramBlocked() bool {
	return p.Enabled() && p.mode == PixelTransfer
}

// oamBlocked reports whether the CPU is locked out of OAM.
func (p *PPU) oamBlocked() bool {
	return p.Enabled() && (p.mode == OAMScan || p.mode == PixelTransfer)
}

// ReadVRAM reads 0x8000-0x9FFF as seen by the CPU.
func (p *PPU) ReadVRAM(address uint16) uint8 {
	if p.vramBlocked() {
		return addr.OpenBus
	}
	return p.vram[address-addr.VRAMStart]
}

func (p *PPU) WriteVRAM(address uint16, value uint8) {
	if p.vramBlocked() {
		return
	}
	p.vram[address-addr.VRAMStart] = value
}

// ReadOAM reads 0xFE00-0xFE9F as seen by the CPU.
func (p *PPU) ReadOAM(address uint16) uint8 {
	if p.oamBlocked() {
		return addr.OpenBus
	}
	return p.oam[address-addr.OAMStart]
}

func (p *PPU) WriteOAM(address uint16, value uint8) {
	if p.oamBlocked() {
		return
	}
	p.oam[address-addr.OAMStart] = value
}

// SetDMAActive tells the PPU whether OAM DMA holds the OAM bus. While it
// does, the sprite scan sees 0xFF in every entry.
func (p *PPU) SetDMAActive(active bool) {
	p.dmaActive = active
}

// WriteOAMDirect stores a byte in OAM regardless of the current mode.
// It is the path taken by OAM DMA.
func (p *PPU) WriteOAMDirect(index int, value uint8) {
	p.oam[index] = value
}

// Read returns the value of an LCD register.
func (p *PPU) Read(address uint16) uint8 {
	switch address {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		v := 0x80 | p.statSelect | uint8(p.mode)
		if p.coincidence {
			v = bit.Set(2, v)
		}
		return v
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	}
	return addr.OpenBus
}

// Write stores an LCD register. LY is read only and the low three bits of
// STAT are owned by the hardware.
func (p *PPU) Write(address uint16, value uint8) {
	switch address {
	case addr.LCDC:
		p.setLCDC(value)
	case addr.STAT:
		p.statSelect = value & statSelectMask
		p.updateStatLine()
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		p.logger.Debug("ignored write to LY", "value", fmt.Sprintf("0x%02X", value))
	case addr.LYC:
		p.lyc = value
		if p.Enabled() {
			p.compareLY()
		}
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	}
}
