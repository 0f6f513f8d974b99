package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/video"
)

func fillSource(b testBus, base uint16) {
	for i := range uint16(oamSize) {
		b.Write(base+i, uint8(i)+1)
	}
}

func TestDMAPolicy(t *testing.T) {
	assert.True(t, DMAInstant.Approximate())
	assert.False(t, DMAGradual.Approximate())

	p, err := ParseDMAPolicy("instant")
	require.NoError(t, err)
	assert.Equal(t, DMAInstant, p)

	p, err = ParseDMAPolicy("Gradual")
	require.NoError(t, err)
	assert.Equal(t, DMAGradual, p)

	_, err = ParseDMAPolicy("eventually")
	assert.Error(t, err)
}

func TestGradualDMA(t *testing.T) {
	b := newTestBus(WithDMAPolicy(DMAGradual))
	fillSource(b, 0xC100)

	b.Write(addr.DMA, 0xC1)
	assert.False(t, b.DMAActive(), "OAM stays accessible during the start delay")
	b.Advance(dmaStartDelay)
	assert.False(t, b.DMAActive())
	assert.Equal(t, uint8(0), b.Read(0xFE00))

	b.Advance(1)
	assert.True(t, b.DMAActive())
	assert.Equal(t, uint8(0xFF), b.Read(0xFE00), "blocked while active")

	b.Advance(dmaCyclesPerByte - 1)
	// one byte copied so far, peek behind the lockout
	assert.Equal(t, uint8(1), b.ppu.ReadOAM(0xFE00))
	assert.Equal(t, uint8(0), b.ppu.ReadOAM(0xFE01))

	b.Advance(dmaCyclesPerByte*oamSize - dmaCyclesPerByte - 1)
	assert.True(t, b.DMAActive())
	assert.Equal(t, uint8(0), b.ppu.ReadOAM(0xFE9F))

	b.Advance(1)
	assert.False(t, b.DMAActive())
	assert.Equal(t, uint8(1), b.Read(0xFE00))
	assert.Equal(t, uint8(0xA0), b.Read(0xFE9F))
}

func TestInstantDMA(t *testing.T) {
	b := newTestBus(WithDMAPolicy(DMAInstant))
	fillSource(b, 0xC000)

	b.Write(addr.DMA, 0xC0)
	assert.Equal(t, uint8(1), b.ppu.ReadOAM(0xFE00))
	assert.Equal(t, uint8(0xA0), b.ppu.ReadOAM(0xFE9F))

	// OAM is blocked for as long as a real transfer takes
	assert.False(t, b.DMAActive())
	b.Advance(dmaStartDelay + 1)
	assert.Equal(t, uint8(0xFF), b.Read(0xFE00))
	b.Write(0xFE00, 0x55)
	b.Advance(dmaDuration - dmaStartDelay - 2)
	assert.True(t, b.DMAActive())
	b.Advance(1)
	assert.False(t, b.DMAActive())
	assert.Equal(t, uint8(1), b.Read(0xFE00))
}

func TestDMAFromEchoAddresses(t *testing.T) {
	b := newTestBus(WithDMAPolicy(DMAInstant))
	fillSource(b, 0xDE00)

	b.Write(addr.DMA, 0xFE)
	assert.Equal(t, uint8(1), b.ppu.ReadOAM(0xFE00))
	assert.Equal(t, uint8(0xFE), b.Read(addr.DMA))
}

func TestDMAHidesSprites(t *testing.T) {
	b := newTestBus(WithDMAPolicy(DMAGradual))

	// one sprite on line 0 using a solid colour 1 tile
	b.Write(0xC000, 16)
	b.Write(0xC001, 8)
	b.Write(0xC002, 4)
	for row := range uint16(8) {
		b.Write(0x8040+row*2, 0xFF)
		b.Write(0x8041+row*2, 0x00)
	}
	b.Write(addr.BGP, 0xE4)
	b.Write(addr.OBP0, 0xE4)

	b.Write(addr.DMA, 0xC0)
	b.Advance(dmaDuration)
	require.False(t, b.DMAActive())

	b.Write(addr.DMA, 0xC0)
	b.Advance(dmaStartDelay + 1)
	require.True(t, b.DMAActive())

	b.Write(addr.LCDC, 0x93)
	b.ppu.Advance(video.FrameDots)
	assert.Equal(t, uint8(0), b.ppu.Frame().GetPixel(0, 0), "the sprite scan sees blocked OAM")

	b.Advance(dmaDuration)
	b.ppu.Advance(video.FrameDots)
	assert.Equal(t, uint8(1), b.ppu.Frame().GetPixel(0, 0))
}

func TestDMARestart(t *testing.T) {
	b := newTestBus(WithDMAPolicy(DMAGradual))
	fillSource(b, 0xC000)

	b.Write(addr.DMA, 0xC0)
	b.Advance(100)
	b.Write(addr.DMA, 0xC0)
	assert.True(t, b.DMAActive(), "a restart keeps OAM blocked")
	b.Advance(dmaDuration - 1)
	assert.True(t, b.DMAActive())
	b.Advance(1)
	assert.False(t, b.DMAActive())
}
