package addr

// joypad and serial
const (
	// P1 selects the button group (bits 4-5) and reads back the pressed keys (bits 0-3, active low).
	P1 uint16 = 0xFF00
	// SB holds the byte being shifted out over the link port.
	SB uint16 = 0xFF01
	// SC is the serial control register. Bit 7 starts a transfer, bit 0 selects the internal clock.
	SC uint16 = 0xFF02
)

// timer
const (
	// DIV exposes the upper byte of the internal 16 bit divider. Any write resets the whole counter.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter. Raises the timer interrupt on overflow.
	TIMA uint16 = 0xFF05
	// TMA is the value loaded into TIMA after an overflow.
	TMA uint16 = 0xFF06
	// TAC enables the timer (bit 2) and selects its rate (bits 0-1).
	TAC uint16 = 0xFF07
)

// interrupts
const (
	// IF holds the pending interrupt requests.
	IF uint16 = 0xFF0F
	// IE is the interrupt enable mask.
	IE uint16 = 0xFFFF
)

// LCD registers
const (
	LCDC uint16 = 0xFF40
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	// LY is the current scanline, read only.
	LY  uint16 = 0xFF44
	LYC uint16 = 0xFF45
	// DMA starts an OAM transfer from (value << 8).
	DMA  uint16 = 0xFF46
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	WX   uint16 = 0xFF4B
)

// BootROMDisable unmaps the boot ROM on any write.
const BootROMDisable uint16 = 0xFF50

// Audio registers, owned by an external device. Only the bounds and the
// registers with a documented post-boot value are named here.
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F

	NR10 uint16 = 0xFF10
	NR11 uint16 = 0xFF11
	NR12 uint16 = 0xFF12
	NR14 uint16 = 0xFF14
	NR21 uint16 = 0xFF16
	NR22 uint16 = 0xFF17
	NR24 uint16 = 0xFF19
	NR30 uint16 = 0xFF1A
	NR31 uint16 = 0xFF1B
	NR32 uint16 = 0xFF1C
	NR33 uint16 = 0xFF1E
	NR41 uint16 = 0xFF20
	NR42 uint16 = 0xFF21
	NR43 uint16 = 0xFF22
	NR44 uint16 = 0xFF23
	NR50 uint16 = 0xFF24
	NR51 uint16 = 0xFF25
	NR52 uint16 = 0xFF26
)
