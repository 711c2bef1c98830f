package api

import "image"

// PageSize contains page dimensions.
type PageSize struct {
	Width  float64 // Width in points (1/72 inch)
	Height float64 // Height in points
}

// PageSizeLetter is US Letter in points.
var PageSizeLetter = PageSize{612, 792}

// Rendered is the output of one production.
type Rendered struct {
	Image image.Image

	// ResX and ResY are the resolution the backend actually used. They
	// may differ from the requested one when a renderer only accepts
	// whole numbers.
	ResX, ResY float64

	// ViewApplied is set by backends that already applied the view
	// transform.
	ViewApplied bool
}
