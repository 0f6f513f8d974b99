package addr

// Memory map boundaries, inclusive.
const (
	ROMStart      uint16 = 0x0000
	ROMBank0End   uint16 = 0x3FFF
	ROMEnd        uint16 = 0x7FFF
	VRAMStart     uint16 = 0x8000
	VRAMEnd       uint16 = 0x9FFF
	ExtRAMStart   uint16 = 0xA000
	ExtRAMEnd     uint16 = 0xBFFF
	WRAMStart     uint16 = 0xC000
	WRAMEnd       uint16 = 0xDFFF
	EchoStart     uint16 = 0xE000
	EchoEnd       uint16 = 0xFDFF
	OAMStart      uint16 = 0xFE00
	OAMEnd        uint16 = 0xFE9F
	UnusableStart uint16 = 0xFEA0
	UnusableEnd   uint16 = 0xFEFF
	IOStart       uint16 = 0xFF00
	IOEnd         uint16 = 0xFF7F
	HRAMStart     uint16 = 0xFF80
	HRAMEnd       uint16 = 0xFFFE
	BootROMEnd    uint16 = 0x00FF
)

// tile data and tile maps
const (
	// TileData0 is the unsigned tile data block used when LCDC bit 4 is set.
	TileData0 uint16 = 0x8000
	// TileData2 is the base of the signed addressing mode (tile 0 lives here).
	TileData2 uint16 = 0x9000

	TileMap0 uint16 = 0x9800
	TileMap1 uint16 = 0x9C00
)

// OpenBus is the value read from addresses no device drives.
const OpenBus uint8 = 0xFF
