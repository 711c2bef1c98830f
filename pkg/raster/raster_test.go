package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

func TestFillRect(t *testing.T) {
	c := NewCanvasWithDPI(72, 72, 144)
	assert.Equal(t, image.Rect(0, 0, 144, 144), c.Image().Bounds())

	c.FillRect(0, 0, 36, 36, red)
	assert.Equal(t, red, c.Image().RGBAAt(10, 10))
	assert.Equal(t, white, c.Image().RGBAAt(100, 100))
}

func TestApplyViewTranslates(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Image().SetRGBA(10, 10, red)

	v := View{TransX: 5, TransY: 3, ScaleX: 1, ScaleY: 1}
	assert.Equal(t, image.Pt(5, 3), v.Offset())

	out := ApplyView(c.Image(), 1, 1, v, image.Pt(20, 20), color.Black)
	assert.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
	assert.Equal(t, red, out.RGBAAt(5, 7))
	// uncovered area
	assert.Equal(t, black, out.RGBAAt(19, 19))
}

func TestApplyViewNegativeOffset(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Image().SetRGBA(0, 0, red)

	out := ApplyView(c.Image(), 1, 1, View{TransX: -2, TransY: -1, ScaleX: 1, ScaleY: 1}, image.Pt(10, 10), color.Black)
	assert.Equal(t, red, out.RGBAAt(2, 1))
	assert.Equal(t, black, out.RGBAAt(0, 0))
}

func TestApplyViewCropsMagnifiedPage(t *testing.T) {
	// left half red, right half white
	c := NewCanvas(40, 40)
	c.FillRect(0, 0, 20, 40, red)

	// magnified 2x, the frame keeps the page size and shows the top-left
	// quarter shifted right by 5 source pixels
	v := View{TransX: 5, ScaleX: 2, ScaleY: 2}
	out := ApplyView(c.Image(), 2, 2, v, image.Pt(40, 40), color.Black)
	assert.Equal(t, image.Rect(0, 0, 40, 40), out.Bounds())
	assert.Equal(t, red, out.RGBAAt(5, 20))
	assert.Equal(t, red, out.RGBAAt(25, 20))
	assert.Equal(t, white, out.RGBAAt(35, 20))
}

func TestApplyViewShrunkPage(t *testing.T) {
	c := NewCanvas(40, 40)
	c.FillRect(0, 0, 40, 40, red)

	out := ApplyView(c.Image(), 0.5, 0.5, View{ScaleX: 0.5, ScaleY: 0.5}, image.Pt(40, 40), color.Black)
	assert.Equal(t, red, out.RGBAAt(10, 10))
	assert.Equal(t, black, out.RGBAAt(30, 30))
}

func TestApplyViewFrameSizeIndependentOfScale(t *testing.T) {
	c := NewCanvas(85, 110)
	for _, s := range []float64{0.25, 1, 2, 8, 24} {
		v := View{TransX: 10, TransY: 10, ScaleX: s, ScaleY: s}
		out := ApplyView(c.Image(), s, s, v, image.Pt(85, 110), color.White)
		assert.Equal(t, image.Rect(0, 0, 85, 110), out.Bounds(), "scale %g", s)
	}
}

func TestIsIdentity(t *testing.T) {
	assert.True(t, View{ScaleX: 1, ScaleY: 1}.IsIdentity())
	assert.False(t, View{ScaleX: 2, ScaleY: 2}.IsIdentity())
	assert.False(t, View{TransX: 1, ScaleX: 1, ScaleY: 1}.IsIdentity())
}
