package video

import (
	"sort"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
)

const (
	maxSpritesPerLine = 10
	oamEntries        = 40
)

// sprite is one OAM entry selected for the current line. Coordinates keep
// the hardware offsets (Y+16, X+8).
type sprite struct {
	y, x     uint8
	tile     uint8
	flags    uint8
	oamIndex int
}

func (s sprite) usesOBP1() bool { return bit.IsSet(4, s.flags) }
func (s sprite) flipX() bool    { return bit.IsSet(5, s.flags) }
func (s sprite) flipY() bool    { return bit.IsSet(6, s.flags) }
func (s sprite) behindBG() bool { return bit.IsSet(7, s.flags) }

func (p *PPU) spriteHeight() int {
	if bit.IsSet(lcdcSpriteSize, p.lcdc) {
		return 16
	}
	return 8
}

// scanOAM selects up to ten sprites overlapping LY, in OAM order.
func (p *PPU) scanOAM() {
	p.lineSprites = p.spriteBuf[:0]
	height := p.spriteHeight()
	line := int(p.ly) + 16

	if p.dmaActive {
		// every entry reads 0xFF, which is below the last visible line
		return
	}

	for i := 0; i < oamEntries && len(p.lineSprites) < maxSpritesPerLine; i++ {
		entry := p.oam[i*4 : i*4+4]
		top := int(entry[0])
		if line < top || line >= top+height {
			continue
		}
		p.lineSprites = append(p.lineSprites, sprite{
			y:        entry[0],
			x:        entry[1],
			tile:     entry[2],
			flags:    entry[3],
			oamIndex: i,
		})
	}
}

// renderSprites mixes the selected sprites over row. Lower X wins, then
// lower OAM index; transparent pixels let lower priority sprites through.
func (p *PPU) renderSprites(row []uint8, bgIDs *[ScreenWidth]uint8) {
	if len(p.lineSprites) == 0 {
		return
	}

	ordered := make([]sprite, len(p.lineSprites))
	copy(ordered, p.lineSprites)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].x < ordered[j].x
	})

	var drawn [ScreenWidth]bool
	height := p.spriteHeight()

	for _, s := range ordered {
		pixels := p.spriteRow(s, height)
		for px, id := range pixels {
			x := int(s.x) - 8 + px
			if x < 0 || x >= ScreenWidth || drawn[x] || id == 0 {
				continue
			}
			drawn[x] = true

			if s.behindBG() && bgIDs[x] != 0 {
				continue
			}

			palette := p.obp0
			if s.usesOBP1() {
				palette = p.obp1
			}
			row[x] = paletteShade(palette, id)
		}
	}
}

func (p *PPU) spriteRow(s sprite, height int) [8]uint8 {
	line := int(p.ly) + 16 - int(s.y)
	if s.flipY() {
		line = height - 1 - line
	}

	tile := s.tile
	if height == 16 {
		tile &= 0xFE
	}

	rowAddr := addr.TileData0 + uint16(tile)*16 + uint16(line)*2
	pixels := decodePlanes(p.vramAt(rowAddr), p.vramAt(rowAddr+1))

	if s.flipX() {
		for i, j := 0, 7; i < j; i, j = i+1, j-1 {
			pixels[i], pixels[j] = pixels[j], pixels[i]
		}
	}
	return pixels
}
