// Package raster provides the pixel-level pieces of the viewer: a drawing
// surface for synthetic pages and the view transform applied to rendered
// pages.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Canvas represents a white drawing surface for rasterization.
type Canvas struct {
	img *image.RGBA
	dpi float64
}

// NewCanvas creates a new canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		dpi: 72,
	}
	c.Clear()
	return c
}

// NewCanvasWithDPI creates a canvas sized for the given page dimensions
// (in points) and DPI.
func NewCanvasWithDPI(pageWidth, pageHeight, dpi float64) *Canvas {
	c := NewCanvas(PixelSize(pageWidth, dpi), PixelSize(pageHeight, dpi))
	c.dpi = dpi
	return c
}

// PixelSize converts a length in points to whole pixels at dpi.
func PixelSize(points, dpi float64) int {
	return int(math.Ceil(points * dpi / 72))
}

// Image returns the underlying RGBA image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Clear fills the canvas with white.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.White, image.Point{}, draw.Src)
}

// FillRect fills a rectangle given in points, measured from the top-left
// corner of the page.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	s := float32(c.dpi / 72)
	x0, y0 := float32(x)*s, float32(y)*s
	x1, y1 := float32(x+w)*s, float32(y+h)*s

	b := c.img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.ClosePath()
	r.Draw(c.img, c.img.Bounds(), &image.Uniform{col}, image.Point{})
}

// StrokeRect draws the outline of a rectangle given in points.
func (c *Canvas) StrokeRect(x, y, w, h, lineWidth float64, col color.Color) {
	c.FillRect(x, y, w, lineWidth, col)
	c.FillRect(x, y+h-lineWidth, w, lineWidth, col)
	c.FillRect(x, y, lineWidth, h, col)
	c.FillRect(x+w-lineWidth, y, lineWidth, h, col)
}
