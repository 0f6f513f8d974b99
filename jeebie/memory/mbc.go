package memory

import "github.com/valerio/jeebie-core/jeebie/addr"

// Device is anything mapped into the address space by range.
type Device interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

const mbc2RAMSize = 0x200

// banks holds the ROM and external RAM of a cartridge and resolves banked
// offsets, wrapping bank numbers to what is actually present.
type banks struct {
	rom []byte
	ram []byte
}

func (b *banks) readROM(bank int, address uint16) uint8 {
	count := len(b.rom) / romBankSize
	offset := (bank%count)*romBankSize + int(address&0x3FFF)
	return b.rom[offset]
}

func (b *banks) ramOffset(bank int, address uint16) (int, bool) {
	if len(b.ram) == 0 {
		return 0, false
	}
	offset := bank*ramBankSize + int(address-addr.ExtRAMStart)
	return offset % len(b.ram), true
}

func (b *banks) readRAM(bank int, address uint16) uint8 {
	offset, ok := b.ramOffset(bank, address)
	if !ok {
		return addr.OpenBus
	}
	return b.ram[offset]
}

func (b *banks) writeRAM(bank int, address uint16, value uint8) {
	if offset, ok := b.ramOffset(bank, address); ok {
		b.ram[offset] = value
	}
}

// romOnly covers 32KB cartridges, optionally with 8KB of RAM.
type romOnly struct {
	banks
}

func newROMOnly(rom []byte, ramSize int) *romOnly {
	return &romOnly{banks{rom: rom, ram: make([]byte, ramSize)}}
}

func (m *romOnly) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMBank0End:
		return m.readROM(0, address)
	case address <= addr.ROMEnd:
		return m.readROM(1, address)
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		return m.readRAM(0, address)
	}
	return addr.OpenBus
}

func (m *romOnly) Write(address uint16, value uint8) {
	if address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd {
		m.writeRAM(0, address, value)
	}
}

// mbc1 supports up to 2MB ROM and 32KB RAM with the two banking modes.
type mbc1 struct {
	banks
	ramEnabled bool
	bankLow    uint8 // 5 bits, 0 reads as 1
	bankHigh   uint8 // 2 bits, upper ROM bits or RAM bank
	mode       uint8
}

func newMBC1(rom []byte, ramSize int) *mbc1 {
	return &mbc1{banks: banks{rom: rom, ram: make([]byte, ramSize)}, bankLow: 1}
}

func (m *mbc1) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMBank0End:
		bank := 0
		if m.mode == 1 {
			bank = int(m.bankHigh) << 5
		}
		return m.readROM(bank, address)
	case address <= addr.ROMEnd:
		return m.readROM(int(m.bankHigh)<<5|int(m.bankLow), address)
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if !m.ramEnabled {
			return addr.OpenBus
		}
		return m.readRAM(m.ramBank(), address)
	}
	return addr.OpenBus
}

func (m *mbc1) ramBank() int {
	if m.mode == 1 {
		return int(m.bankHigh)
	}
	return 0
}

func (m *mbc1) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		m.bankLow = value & 0x1F
		if m.bankLow == 0 {
			m.bankLow = 1
		}
	case address <= 0x5FFF:
		m.bankHigh = value & 0x03
	case address <= 0x7FFF:
		m.mode = value & 0x01
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if m.ramEnabled {
			m.writeRAM(m.ramBank(), address, value)
		}
	}
}

// mbc2 has 16 ROM banks and 512 half-bytes of built in RAM. Address bit 8
// selects between RAM enable and ROM bank writes.
type mbc2 struct {
	banks
	ramEnabled bool
	romBank    uint8
}

func newMBC2(rom []byte) *mbc2 {
	return &mbc2{banks: banks{rom: rom, ram: make([]byte, mbc2RAMSize)}, romBank: 1}
}

func (m *mbc2) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMBank0End:
		return m.readROM(0, address)
	case address <= addr.ROMEnd:
		return m.readROM(int(m.romBank), address)
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if !m.ramEnabled {
			return addr.OpenBus
		}
		return m.ram[int(address)&0x1FF] | 0xF0
	}
	return addr.OpenBus
}

func (m *mbc2) Write(address uint16, value uint8) {
	switch {
	case address <= addr.ROMBank0End:
		if address&0x100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
			return
		}
		m.romBank = value & 0x0F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if m.ramEnabled {
			m.ram[int(address)&0x1FF] = value & 0x0F
		}
	}
}

// mbc3 without the real time clock: RTC register selects read as open bus.
type mbc3 struct {
	banks
	ramEnabled bool
	romBank    uint8
	ramSelect  uint8
}

func newMBC3(rom []byte, ramSize int) *mbc3 {
	return &mbc3{banks: banks{rom: rom, ram: make([]byte, ramSize)}, romBank: 1}
}

func (m *mbc3) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMBank0End:
		return m.readROM(0, address)
	case address <= addr.ROMEnd:
		return m.readROM(int(m.romBank), address)
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if !m.ramEnabled || m.ramSelect > 0x03 {
			return addr.OpenBus
		}
		return m.readRAM(int(m.ramSelect), address)
	}
	return addr.OpenBus
}

func (m *mbc3) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case address <= 0x5FFF:
		m.ramSelect = value
	case address <= 0x7FFF:
		// RTC latch, no clock present
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if m.ramEnabled && m.ramSelect <= 0x03 {
			m.writeRAM(int(m.ramSelect), address, value)
		}
	}
}

// mbc5 has a 9 bit ROM bank number where bank 0 is selectable.
type mbc5 struct {
	banks
	ramEnabled bool
	romBank    uint16
	ramBank    uint8
}

func newMBC5(rom []byte, ramSize int) *mbc5 {
	return &mbc5{banks: banks{rom: rom, ram: make([]byte, ramSize)}, romBank: 1}
}

func (m *mbc5) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMBank0End:
		return m.readROM(0, address)
	case address <= addr.ROMEnd:
		return m.readROM(int(m.romBank), address)
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if !m.ramEnabled {
			return addr.OpenBus
		}
		return m.readRAM(int(m.ramBank), address)
	}
	return addr.OpenBus
}

func (m *mbc5) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x2FFF:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address <= 0x3FFF:
		m.romBank = m.romBank&0xFF | uint16(value&0x01)<<8
	case address <= 0x5FFF:
		m.ramBank = value & 0x0F
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if m.ramEnabled {
			m.writeRAM(int(m.ramBank), address, value)
		}
	}
}
