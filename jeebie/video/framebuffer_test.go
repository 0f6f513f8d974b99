package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameBuffer(t *testing.T) {
	fb := NewFrameBuffer()
	assert.Equal(t, ScreenWidth, fb.Width())
	assert.Equal(t, ScreenHeight, fb.Height())
	assert.Len(t, fb.Pixels(), ScreenWidth*ScreenHeight)

	fb.SetPixel(3, 2, 7)
	assert.Equal(t, uint8(3), fb.GetPixel(3, 2), "shades are two bits")
	assert.Equal(t, uint8(3), fb.Row(2)[3])
	assert.Equal(t, uint8(3), fb.Pixels()[2*ScreenWidth+3])

	fb.SetPixel(0, 0, 1)
	fb.SetPixel(1, 0, 2)
	rgba := fb.ToRGBA()
	assert.Equal(t, uint32(LightGreyColor), rgba[0])
	assert.Equal(t, uint32(DarkGreyColor), rgba[1])
	assert.Equal(t, uint32(WhiteColor), rgba[2])
	assert.Equal(t, uint32(BlackColor), rgba[2*ScreenWidth+3])

	img := fb.Image()
	assert.Equal(t, ScreenWidth, img.Bounds().Dx())
	assert.Equal(t, ScreenHeight, img.Bounds().Dy())
	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0x9898, 0x9898, 0x9898, 0xFFFF}, []uint32{r, g, b, a})
	r, _, _, _ = img.At(3, 2).RGBA()
	assert.Equal(t, uint32(0), r)

	fb.clear()
	assert.Equal(t, uint8(0), fb.GetPixel(3, 2))
}
