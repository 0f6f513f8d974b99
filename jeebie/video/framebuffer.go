package video

import (
	"image"
	"image/color"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// GBColor is an ARGB value for one of the four DMG shades.
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0xFF989898
	DarkGreyColor  GBColor = 0xFF4C4C4C
	BlackColor     GBColor = 0xFF000000
)

var shades = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// FrameBuffer holds one frame of shade indices (0 = lightest, 3 = darkest),
// already mapped through BGP/OBP0/OBP1.
type FrameBuffer struct {
	width  int
	height int
	buffer []uint8
}

// NewFrameBuffer creates a frame buffer with the DMG resolution.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  ScreenWidth,
		height: ScreenHeight,
		buffer: make([]uint8, ScreenWidth*ScreenHeight),
	}
}

func (fb *FrameBuffer) Width() int  { return fb.width }
func (fb *FrameBuffer) Height() int { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y int) uint8 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y int, shade uint8) {
	fb.buffer[y*fb.width+x] = shade & 0x03
}

// Row returns the shades of scanline y. The slice aliases the buffer.
func (fb *FrameBuffer) Row(y int) []uint8 {
	return fb.buffer[y*fb.width : (y+1)*fb.width]
}

// Pixels returns the raw shade indices, row major.
func (fb *FrameBuffer) Pixels() []uint8 {
	return fb.buffer
}

// ToRGBA converts the frame to ARGB colors using the grey palette.
func (fb *FrameBuffer) ToRGBA() []uint32 {
	out := make([]uint32, len(fb.buffer))
	for i, shade := range fb.buffer {
		out[i] = uint32(shades[shade&0x03])
	}
	return out
}

// Image renders the frame with the grey palette.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for i, shade := range fb.buffer {
		c := shades[shade&0x03]
		img.SetRGBA(i%fb.width, i/fb.width, color.RGBA{
			R: uint8(c >> 16),
			G: uint8(c >> 8),
			B: uint8(c),
			A: uint8(c >> 24),
		})
	}
	return img
}

func (fb *FrameBuffer) clear() {
	clear(fb.buffer)
}
