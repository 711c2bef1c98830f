// Package viewport implements the view transform of the page viewer: the
// logical origin, resolution and scale of the region of a page that is
// requested from the renderer, and the zoom/pan operations on it.
package viewport

import (
	"errors"
	"fmt"
)

// ErrInvalidResolution is returned by Validate for a non-positive resolution.
var ErrInvalidResolution = errors.New("viewport: resolution must be positive")

// State is the current view transform.
//
// OriginX and OriginY are the offset of the top-left corner of the view,
// expressed at BaseRes. DesiredRes is the resolution of the most recent
// render request. BaseRes only changes when the view is re-baselined.
type State struct {
	OriginX, OriginY float64
	DesiredRes       float64
	BaseRes          float64
}

// NewState returns a state at the given resolution with the origin at (0,0).
func NewState(res float64) State {
	return State{DesiredRes: res, BaseRes: res}
}

// ScaleX returns the horizontal scale factor DesiredRes/BaseRes.
func (s State) ScaleX() float64 {
	return s.DesiredRes / s.BaseRes
}

// ScaleY returns the vertical scale factor DesiredRes/BaseRes.
func (s State) ScaleY() float64 {
	return s.DesiredRes / s.BaseRes
}

// Validate checks that both resolutions are positive.
func (s State) Validate() error {
	if !(s.DesiredRes > 0) {
		return fmt.Errorf("%w: desired %v", ErrInvalidResolution, s.DesiredRes)
	}
	if !(s.BaseRes > 0) {
		return fmt.Errorf("%w: base %v", ErrInvalidResolution, s.BaseRes)
	}
	return nil
}

// Params derives the device parameter set for a render request.
// The hardware resolution is always the base resolution; the zoom is
// carried by the scale factors.
func (s State) Params() Params {
	return Params{
		Transform: Transform{
			TransX: s.OriginX,
			TransY: s.OriginY,
			ScaleX: s.ScaleX(),
			ScaleY: s.ScaleY(),
		},
		ResX: s.BaseRes,
		ResY: s.BaseRes,
	}
}
