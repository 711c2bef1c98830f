package raster

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// View is the part of the page a renderer is asked to produce: the page is
// magnified by ScaleX/ScaleY and the point (TransX, TransY), given in
// pixels at the unscaled resolution, moves to the top-left corner.
type View struct {
	TransX, TransY float64
	ScaleX, ScaleY float64
}

// IsIdentity reports whether v leaves a rendered page unchanged.
func (v View) IsIdentity() bool {
	return v.TransX == 0 && v.TransY == 0 && v.ScaleX == 1 && v.ScaleY == 1
}

// Offset returns the pixel offset of the view in the magnified page.
func (v View) Offset() image.Point {
	return image.Pt(int(v.TransX*v.ScaleX), int(v.TransY*v.ScaleY))
}

// ApplyView produces a frame of the given size showing the view v of a
// page. The frame is the part [Offset, Offset+size) of the magnified page.
//
// src holds the whole page at fx, fy times less than the magnified
// resolution; only the visible part is resampled. Frame pixels outside the
// page are filled with bg.
func ApplyView(src image.Image, fx, fy float64, v View, size image.Point, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.Draw(dst, dst.Bounds(), &image.Uniform{bg}, image.Point{}, xdraw.Src)

	sb := src.Bounds()
	if fx == 1 && fy == 1 {
		xdraw.Draw(dst, dst.Bounds(), src, sb.Min.Add(v.Offset()), xdraw.Src)
		return dst
	}

	// src pixel s lands on frame pixel (s-sb.Min)*f - trans*scale
	s2d := f64.Aff3{
		fx, 0, -float64(sb.Min.X)*fx - v.TransX*v.ScaleX,
		0, fy, -float64(sb.Min.Y)*fy - v.TransY*v.ScaleY,
	}
	xdraw.ApproxBiLinear.Transform(dst, s2d, src, sb, xdraw.Src, nil)
	return dst
}
