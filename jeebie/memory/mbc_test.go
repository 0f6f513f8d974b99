package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestCart(t *testing.T, cartType, romCode, ramCode uint8) *Cartridge {
	t.Helper()
	cart, err := LoadCartridge(makeROM(cartType, romCode, ramCode))
	require.NoError(t, err)
	return cart
}

func TestROMOnly(t *testing.T) {
	cart := loadTestCart(t, 0x00, 0x00, 0x00)

	assert.Equal(t, uint8(0), cart.Read(0x0150))
	assert.Equal(t, uint8(1), cart.Read(0x4000))

	cart.Write(0x2000, 0x05)
	assert.Equal(t, uint8(1), cart.Read(0x4000), "no banking")
	assert.Equal(t, uint8(0xFF), cart.Read(0xA000), "no ram")
}

func TestMBC1(t *testing.T) {
	t.Run("rom banking", func(t *testing.T) {
		cart := loadTestCart(t, 0x01, 0x04, 0x00) // 32 banks

		tests := []struct {
			name  string
			value uint8
			bank  uint8
		}{
			{"default bank", 1, 1},
			{"bank 0 maps to 1", 0, 1},
			{"bank 5", 5, 5},
			{"upper bits ignored", 0xE3, 3},
			{"wraps to rom size", 0x1F, 31},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cart.Write(0x2000, tt.value)
				assert.Equal(t, tt.bank, cart.Read(0x4000))
				assert.Equal(t, uint8(0), cart.Read(0x3FFF))
			})
		}
	})

	t.Run("upper bank bits", func(t *testing.T) {
		cart := loadTestCart(t, 0x01, 0x06, 0x00) // 128 banks
		cart.Write(0x2000, 0x02)
		cart.Write(0x4000, 0x01)
		assert.Equal(t, uint8(0x22), cart.Read(0x4000))

		cart.Write(0x6000, 0x01)
		assert.Equal(t, uint8(0x20), cart.Read(0x0000), "mode 1 banks the low area")
	})

	t.Run("ram enable and banking", func(t *testing.T) {
		cart := loadTestCart(t, 0x03, 0x01, 0x03)

		cart.Write(0xA000, 0x11)
		assert.Equal(t, uint8(0xFF), cart.Read(0xA000), "ram disabled")

		cart.Write(0x0000, 0x0A)
		cart.Write(0xA000, 0x11)
		assert.Equal(t, uint8(0x11), cart.Read(0xA000))

		cart.Write(0x6000, 0x01)
		cart.Write(0x4000, 0x02)
		assert.Equal(t, uint8(0x00), cart.Read(0xA000))
		cart.Write(0xA000, 0x22)

		cart.Write(0x4000, 0x00)
		assert.Equal(t, uint8(0x11), cart.Read(0xA000))

		cart.Write(0x0000, 0x00)
		assert.Equal(t, uint8(0xFF), cart.Read(0xA000))
	})
}

func TestMBC2(t *testing.T) {
	cart := loadTestCart(t, 0x06, 0x03, 0x00)

	cart.Write(0x2100, 0x03)
	assert.Equal(t, uint8(3), cart.Read(0x4000))

	cart.Write(0x0000, 0x0A)
	cart.Write(0xA005, 0xAB)
	assert.Equal(t, uint8(0xFB), cart.Read(0xA005), "upper nibble reads 1")
	assert.Equal(t, uint8(0xFB), cart.Read(0xA205), "ram repeats every 512 bytes")
}

func TestMBC3(t *testing.T) {
	cart := loadTestCart(t, 0x13, 0x06, 0x03)

	cart.Write(0x2000, 0x45)
	assert.Equal(t, uint8(0x45), cart.Read(0x4000))
	cart.Write(0x2000, 0x00)
	assert.Equal(t, uint8(0x01), cart.Read(0x4000))

	cart.Write(0x0000, 0x0A)
	cart.Write(0x4000, 0x03)
	cart.Write(0xA100, 0x77)
	cart.Write(0x4000, 0x00)
	assert.Equal(t, uint8(0x00), cart.Read(0xA100))
	cart.Write(0x4000, 0x03)
	assert.Equal(t, uint8(0x77), cart.Read(0xA100))

	cart.Write(0x4000, 0x08)
	assert.Equal(t, uint8(0xFF), cart.Read(0xA100), "rtc registers are absent")
}

func TestMBC5(t *testing.T) {
	cart := loadTestCart(t, 0x19, 0x08, 0x00) // 512 banks

	cart.Write(0x2000, 0x00)
	assert.Equal(t, uint8(0x00), cart.Read(0x4000), "bank 0 is selectable")

	cart.Write(0x2000, 0x05)
	cart.Write(0x3000, 0x01)
	// bank 0x105, the fill pattern truncates to its low byte
	assert.Equal(t, uint8(0x05), cart.Read(0x4000))
	assert.Equal(t, uint8(0x05), cart.Read(0x7FFF))
}
