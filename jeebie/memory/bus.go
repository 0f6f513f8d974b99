// Package memory routes CPU reads and writes to the device that owns each
// address and holds the work RAM, HRAM, cartridge and OAM DMA unit.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/interrupt"
	"github.com/valerio/jeebie-core/jeebie/timer"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// BootROMSize is the size of the DMG boot ROM overlay.
const BootROMSize = 0x100

// Bus owns routing only. Register state stays with the device each range maps to.
type Bus struct {
	cart   Device
	serial Device
	audio  Device

	boot       []byte
	bootMapped bool

	wram [0x2000]uint8
	hram [0x7F]uint8

	ppu    *video.PPU
	timer  *timer.Timer
	irq    *interrupt.Controller
	joypad *Joypad
	dma    dma

	logger *slog.Logger
}

type BusOption func(*Bus)

// WithCartridge maps a cartridge at 0x0000-0x7FFF and 0xA000-0xBFFF.
func WithCartridge(cart Device) BusOption { return func(b *Bus) { b.cart = cart } }

// WithSerial attaches the device answering SB/SC.
func WithSerial(d Device) BusOption { return func(b *Bus) { b.serial = d } }

// WithAudio attaches the device answering 0xFF10-0xFF3F.
func WithAudio(d Device) BusOption { return func(b *Bus) { b.audio = d } }

// WithBootROM overlays image on 0x0000-0x00FF until 0xFF50 is written.
// The image must be BootROMSize bytes.
func WithBootROM(image []byte) BusOption {
	return func(b *Bus) {
		b.boot = image
		b.bootMapped = len(image) == BootROMSize
	}
}

func WithDMAPolicy(p DMAPolicy) BusOption { return func(b *Bus) { b.dma.policy = p } }

func WithLogger(l *slog.Logger) BusOption { return func(b *Bus) { b.logger = l } }

// NewBus wires the core devices together.
func NewBus(ppu *video.PPU, tm *timer.Timer, irq *interrupt.Controller, joypad *Joypad, opts ...BusOption) *Bus {
	b := &Bus{
		ppu:    ppu,
		timer:  tm,
		irq:    irq,
		joypad: joypad,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.dma.src = b.dmaRead
	b.dma.dst = ppu.WriteOAMDirect
	return b
}

// Advance runs the OAM DMA unit for the given number of clocks.
func (b *Bus) Advance(cycles int) {
	b.dma.advance(cycles)
	b.ppu.SetDMAActive(b.dma.blocking())
}

// DMAPolicy returns the configured OAM DMA policy.
func (b *Bus) DMAPolicy() DMAPolicy {
	return b.dma.policy
}

// DMAActive reports whether an OAM DMA transfer is blocking OAM.
func (b *Bus) DMAActive() bool {
	return b.dma.blocking()
}

// BootROMMapped reports whether the boot ROM still shadows the cartridge.
func (b *Bus) BootROMMapped() bool {
	return b.bootMapped
}

func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address <= addr.BootROMEnd && b.bootMapped:
		return b.boot[address]
	case address <= addr.ROMEnd:
		return b.readCart(address)
	case address <= addr.VRAMEnd:
		return b.ppu.ReadVRAM(address)
	case address <= addr.ExtRAMEnd:
		return b.readCart(address)
	case address <= addr.WRAMEnd:
		return b.wram[address-addr.WRAMStart]
	case address <= addr.EchoEnd:
		return b.wram[address-addr.EchoStart]
	case address <= addr.OAMEnd:
		if b.dma.blocking() {
			return addr.OpenBus
		}
		return b.ppu.ReadOAM(address)
	case address <= addr.UnusableEnd:
		return 0x00
	case address <= addr.IOEnd:
		return b.readIO(address)
	case address <= addr.HRAMEnd:
		return b.hram[address-addr.HRAMStart]
	default:
		return b.irq.ReadEnable()
	}
}

func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address <= addr.ROMEnd:
		b.writeCart(address, value)
	case address <= addr.VRAMEnd:
		b.ppu.WriteVRAM(address, value)
	case address <= addr.ExtRAMEnd:
		b.writeCart(address, value)
	case address <= addr.WRAMEnd:
		b.wram[address-addr.WRAMStart] = value
	case address <= addr.EchoEnd:
		b.wram[address-addr.EchoStart] = value
	case address <= addr.OAMEnd:
		if b.dma.blocking() {
			return
		}
		b.ppu.WriteOAM(address, value)
	case address <= addr.UnusableEnd:
		b.logger.Debug("write to unusable region dropped", "addr", fmt.Sprintf("0x%04X", address))
	case address <= addr.IOEnd:
		b.writeIO(address, value)
	case address <= addr.HRAMEnd:
		b.hram[address-addr.HRAMStart] = value
	default:
		b.irq.WriteEnable(value)
	}
}

func (b *Bus) readCart(address uint16) uint8 {
	if b.cart == nil {
		return addr.OpenBus
	}
	return b.cart.Read(address)
}

func (b *Bus) writeCart(address uint16, value uint8) {
	if b.cart != nil {
		b.cart.Write(address, value)
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.joypad.Read()
	case address == addr.SB || address == addr.SC:
		if b.serial == nil {
			return addr.OpenBus
		}
		return b.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return b.timer.Read(address)
	case address == addr.IF:
		return b.irq.ReadFlags()
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		if b.audio == nil {
			return addr.OpenBus
		}
		return b.audio.Read(address)
	case address == addr.DMA:
		return b.dma.register
	case address >= addr.LCDC && address <= addr.WX:
		return b.ppu.Read(address)
	}
	return addr.OpenBus
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		if b.serial != nil {
			b.serial.Write(address, value)
		}
	case address >= addr.DIV && address <= addr.TAC:
		b.timer.Write(address, value)
	case address == addr.IF:
		b.irq.WriteFlags(value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		if b.audio != nil {
			b.audio.Write(address, value)
		}
	case address == addr.DMA:
		b.dma.start(value)
		b.ppu.SetDMAActive(b.dma.blocking())
		b.logger.Debug("oam dma started", "source", fmt.Sprintf("0x%04X", b.dma.source), "policy", b.dma.policy)
	case address >= addr.LCDC && address <= addr.WX:
		b.ppu.Write(address, value)
	case address == addr.BootROMDisable:
		if b.bootMapped {
			b.bootMapped = false
			b.logger.Debug("boot rom unmapped")
		}
	default:
		b.logger.Debug("write to unmapped io register dropped", "addr", fmt.Sprintf("0x%04X", address))
	}
}

// dmaRead is the source side of OAM DMA. Sources at 0xE000 and above were
// already folded onto work RAM by the DMA unit.
func (b *Bus) dmaRead(address uint16) uint8 {
	switch {
	case address <= addr.ROMEnd, address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if address <= addr.BootROMEnd && b.bootMapped {
			return b.boot[address]
		}
		return b.readCart(address)
	case address <= addr.VRAMEnd:
		return b.ppu.ReadVRAM(address)
	case address <= addr.WRAMEnd:
		return b.wram[address-addr.WRAMStart]
	}
	return addr.OpenBus
}
