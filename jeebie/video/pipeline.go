package video

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
)

// pixelFIFO queues background/window color ids (0-3) waiting to be shifted out.
type pixelFIFO struct {
	pixels [16]uint8
	head   int
	size   int
}

func (f *pixelFIFO) pushRow(row [8]uint8) {
	for _, px := range row {
		f.pixels[(f.head+f.size)%len(f.pixels)] = px
		f.size++
	}
}

func (f *pixelFIFO) pop() uint8 {
	px := f.pixels[f.head]
	f.head = (f.head + 1) % len(f.pixels)
	f.size--
	return px
}

func (f *pixelFIFO) clear() {
	f.head = 0
	f.size = 0
}

// tileFetcher walks one row of a 32x32 tile map, one tile at a time.
type tileFetcher struct {
	mapBase uint16
	mapRow  uint16
	fineY   uint8
	column  uint8
}

func (p *PPU) backgroundFetcher() tileFetcher {
	y := p.ly + p.scy
	base := addr.TileMap0
	if bit.IsSet(lcdcBGMap, p.lcdc) {
		base = addr.TileMap1
	}
	return tileFetcher{
		mapBase: base,
		mapRow:  uint16(y / 8),
		fineY:   y % 8,
		column:  p.scx / 8,
	}
}

// windowFetcher always starts at the leftmost tile of the window map,
// on the row given by the window line counter.
func (p *PPU) windowFetcher() tileFetcher {
	base := addr.TileMap0
	if bit.IsSet(lcdcWindowMap, p.lcdc) {
		base = addr.TileMap1
	}
	return tileFetcher{
		mapBase: base,
		mapRow:  uint16(p.windowLine / 8),
		fineY:   uint8(p.windowLine % 8),
	}
}

// fetch decodes the tile under the fetcher into color ids, leftmost first.
func (p *PPU) fetch(f *tileFetcher) [8]uint8 {
	mapAddr := f.mapBase + f.mapRow%32*32 + uint16(f.column%32)
	return p.decodeTileRow(p.vramAt(mapAddr), f.fineY)
}

func (p *PPU) vramAt(address uint16) uint8 {
	return p.vram[address-addr.VRAMStart]
}

// tileRowAddress resolves a background tile number using the addressing
// mode selected by LCDC bit 4.
func (p *PPU) tileRowAddress(tile uint8, fineY uint8) uint16 {
	if bit.IsSet(lcdcTileData, p.lcdc) {
		return addr.TileData0 + uint16(tile)*16 + uint16(fineY)*2
	}
	return uint16(int32(addr.TileData2)+int32(int8(tile))*16) + uint16(fineY)*2
}

func (p *PPU) decodeTileRow(tile uint8, fineY uint8) [8]uint8 {
	rowAddr := p.tileRowAddress(tile, fineY)
	return decodePlanes(p.vramAt(rowAddr), p.vramAt(rowAddr+1))
}

func decodePlanes(low, high uint8) [8]uint8 {
	var row [8]uint8
	for px := range 8 {
		shift := uint8(7 - px)
		row[px] = bit.Value(shift, high)<<1 | bit.Value(shift, low)
	}
	return row
}

// renderBackground shifts out one line of background and window pixels and
// returns their color ids.
//
// Pixel positions start at -8: the first tile fetched is thrown away while
// the fetcher warms up. When the pipeline first reaches x=0 it drops SCX%8
// pixels for fine scrolling. The window check runs after that, on every pixel
// including the warm-up ones, and fires when x+7 == WX. A window starting at
// WX=0 therefore switches during warm-up and has the fine scroll applied to
// its own pixels.
func (p *PPU) renderBackground() (ids [ScreenWidth]uint8, windowDrawn bool) {
	if !bit.IsSet(lcdcBGEnable, p.lcdc) {
		return ids, false
	}

	windowEligible := bit.IsSet(lcdcWindowEnable, p.lcdc) && p.windowLatch && p.wx <= 166
	wx := int(p.wx)

	var fifo pixelFIFO
	fetcher := p.backgroundFetcher()
	fifo.pushRow(p.fetch(&fetcher))

	discard := int(p.scx % 8)
	x := -8

	for x < ScreenWidth {
		if fifo.size == 0 {
			fifo.pushRow(p.fetch(&fetcher))
			fetcher.column++
		}

		if x == 0 && discard > 0 {
			fifo.pop()
			discard--
			continue
		}

		if windowEligible && !windowDrawn && x+7 == wx {
			windowDrawn = true
			fifo.clear()
			fetcher = p.windowFetcher()
			continue
		}

		px := fifo.pop()
		if x >= 0 {
			ids[x] = px
		}
		x++
	}

	return ids, windowDrawn
}

func (p *PPU) renderLine() {
	ids, windowDrawn := p.renderBackground()
	if windowDrawn {
		p.windowLine++
	}

	row := p.back.Row(int(p.ly))
	for x, id := range ids {
		row[x] = paletteShade(p.bgp, id)
	}

	if bit.IsSet(lcdcSpriteEnable, p.lcdc) {
		p.renderSprites(row, &ids)
	}
}

func paletteShade(palette, id uint8) uint8 {
	return palette >> (id * 2) & 0x03
}
