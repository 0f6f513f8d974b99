package memory

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	titleAddress          = 0x134
	titleLength           = 16
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
	headerEnd             = 0x150

	romBankSize = 0x4000
	ramBankSize = 0x2000
)

var (
	// ErrROMTooSmall is returned for images that cannot hold a cartridge header.
	ErrROMTooSmall = errors.New("rom image is smaller than the cartridge header")
	// ErrHeaderChecksum is returned when the header checksum at 0x14D does not match.
	ErrHeaderChecksum = errors.New("cartridge header checksum mismatch")
	// ErrROMSizeMismatch is returned when the image length disagrees with the header.
	ErrROMSizeMismatch = errors.New("rom size does not match cartridge header")
	// ErrRAMSize is returned for unknown RAM size codes.
	ErrRAMSize = errors.New("unknown cartridge ram size")
)

// UnsupportedMapperError reports a cartridge type byte with no mapper implementation.
type UnsupportedMapperError struct {
	Type uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported cartridge type 0x%02X", e.Type)
}

// MapperKind identifies the bank controller on the cartridge.
type MapperKind uint8

const (
	MapperNone MapperKind = iota
	MapperMBC1
	MapperMBC2
	MapperMBC3
	MapperMBC5
)

func (k MapperKind) String() string {
	switch k {
	case MapperNone:
		return "ROM"
	case MapperMBC1:
		return "MBC1"
	case MapperMBC2:
		return "MBC2"
	case MapperMBC3:
		return "MBC3"
	case MapperMBC5:
		return "MBC5"
	}
	return "unknown"
}

var mapperByType = map[uint8]MapperKind{
	0x00: MapperNone, 0x08: MapperNone, 0x09: MapperNone,
	0x01: MapperMBC1, 0x02: MapperMBC1, 0x03: MapperMBC1,
	0x05: MapperMBC2, 0x06: MapperMBC2,
	0x0F: MapperMBC3, 0x10: MapperMBC3, 0x11: MapperMBC3, 0x12: MapperMBC3, 0x13: MapperMBC3,
	0x19: MapperMBC5, 0x1A: MapperMBC5, 0x1B: MapperMBC5, 0x1C: MapperMBC5, 0x1D: MapperMBC5, 0x1E: MapperMBC5,
}

var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 0x800,
	0x02: 0x2000,
	0x03: 0x8000,
	0x04: 0x20000,
	0x05: 0x10000,
}

// Header is the parsed cartridge header.
type Header struct {
	Title    string
	Type     uint8
	Mapper   MapperKind
	ROMBanks int
	RAMSize  int
	Checksum uint8
}

// ParseHeader validates and decodes the header of a ROM image.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < headerEnd {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrROMTooSmall, len(rom))
	}

	h := Header{
		Title:    cleanTitle(rom[titleAddress : titleAddress+titleLength]),
		Type:     rom[cartridgeTypeAddress],
		Checksum: rom[headerChecksumAddress],
	}

	if sum := headerChecksum(rom); sum != h.Checksum {
		return Header{}, fmt.Errorf("%w: header says 0x%02X, computed 0x%02X", ErrHeaderChecksum, h.Checksum, sum)
	}

	mapper, ok := mapperByType[h.Type]
	if !ok {
		return Header{}, &UnsupportedMapperError{Type: h.Type}
	}
	h.Mapper = mapper

	sizeCode := rom[romSizeAddress]
	if sizeCode > 0x08 {
		return Header{}, fmt.Errorf("%w: unknown size code 0x%02X", ErrROMSizeMismatch, sizeCode)
	}
	h.ROMBanks = 2 << sizeCode
	if want := h.ROMBanks * romBankSize; len(rom) != want {
		return Header{}, fmt.Errorf("%w: header declares %d bytes, image has %d", ErrROMSizeMismatch, want, len(rom))
	}

	ramSize, ok := ramSizes[rom[ramSizeAddress]]
	if !ok {
		return Header{}, fmt.Errorf("%w: code 0x%02X", ErrRAMSize, rom[ramSizeAddress])
	}
	h.RAMSize = ramSize
	if mapper == MapperMBC2 {
		h.RAMSize = mbc2RAMSize
	}

	return h, nil
}

func headerChecksum(rom []byte) uint8 {
	var sum uint8
	for _, b := range rom[titleAddress:headerChecksumAddress] {
		sum = sum - b - 1
	}
	return sum
}

// cleanTitle turns the raw title bytes into something printable.
func cleanTitle(raw []byte) string {
	var sb strings.Builder
	for _, b := range raw {
		if b == 0 {
			break
		}
		r := rune(b)
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			r = '?'
		}
		sb.WriteRune(r)
	}

	title := strings.TrimSpace(sb.String())
	if title == "" {
		return "(Untitled)"
	}
	return title
}

// Cartridge is a loaded ROM image and its bank controller.
type Cartridge struct {
	Header Header
	mapper Device
}

// LoadCartridge validates rom and builds the matching mapper. The slice is
// copied, later changes to it are not observed.
func LoadCartridge(rom []byte) (*Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(rom))
	copy(data, rom)

	var mapper Device
	switch h.Mapper {
	case MapperNone:
		mapper = newROMOnly(data, h.RAMSize)
	case MapperMBC1:
		mapper = newMBC1(data, h.RAMSize)
	case MapperMBC2:
		mapper = newMBC2(data)
	case MapperMBC3:
		mapper = newMBC3(data, h.RAMSize)
	case MapperMBC5:
		mapper = newMBC5(data, h.RAMSize)
	}

	return &Cartridge{Header: h, mapper: mapper}, nil
}

func (c *Cartridge) Read(address uint16) uint8 {
	return c.mapper.Read(address)
}

func (c *Cartridge) Write(address uint16, value uint8) {
	c.mapper.Write(address, value)
}
