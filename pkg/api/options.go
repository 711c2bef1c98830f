package api

import (
	"image/color"
	"math"

	"gview/pkg/raster"
)

// RenderOptions configures one page production.
type RenderOptions struct {
	// ResX and ResY set the hardware resolution (dots per inch).
	// Default: 100
	ResX, ResY float64

	// View selects the magnification and the visible part of the page.
	// Default: identity
	View raster.View

	// DeviceOptions is the option string handed verbatim to renderers
	// that apply the view themselves.
	DeviceOptions string

	// TextAlpha enables anti-aliased text.
	// Default: true
	TextAlpha bool

	// RTL selects right-to-left mode on renderers that support it.
	// Default: false
	RTL bool

	// Background fills the area outside the page.
	// Default: white
	Background color.Color
}

// DefaultRenderOptions returns render options with sensible defaults.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		ResX:       100,
		ResY:       100,
		View:       raster.View{ScaleX: 1, ScaleY: 1},
		TextAlpha:  true,
		Background: color.White,
	}
}

// EffectiveDPI returns the resolution after applying the view scale.
func (o *RenderOptions) EffectiveDPI() (x, y float64) {
	return o.ResX * o.View.ScaleX, o.ResY * o.View.ScaleY
}

// MaxRenderDPI bounds the resolution a backend renders a whole page at.
const MaxRenderDPI = 600

// limited returns o with the view scale reduced so that the effective
// resolution does not exceed MaxRenderDPI, or ResX/ResY if those are
// higher already.
func (o RenderOptions) limited() RenderOptions {
	o.View.ScaleX = math.Min(o.View.ScaleX, math.Max(1, MaxRenderDPI/o.ResX))
	o.View.ScaleY = math.Min(o.View.ScaleY, math.Max(1, MaxRenderDPI/o.ResY))
	return o
}

// Option is a functional option for configuring RenderOptions.
type Option func(*RenderOptions)

// Resolution sets the hardware resolution.
func Resolution(x, y float64) Option {
	return func(o *RenderOptions) {
		o.ResX = x
		o.ResY = y
	}
}

// WithView sets the view transform.
func WithView(v raster.View) Option {
	return func(o *RenderOptions) {
		o.View = v
	}
}

// DeviceOptions sets the renderer option string.
func DeviceOptions(s string) Option {
	return func(o *RenderOptions) {
		o.DeviceOptions = s
	}
}

// TextAlpha enables or disables anti-aliased text.
func TextAlpha(on bool) Option {
	return func(o *RenderOptions) {
		o.TextAlpha = on
	}
}

// RTL enables or disables right-to-left mode.
func RTL(on bool) Option {
	return func(o *RenderOptions) {
		o.RTL = on
	}
}

// Background sets the background color.
func Background(c color.Color) Option {
	return func(o *RenderOptions) {
		o.Background = c
	}
}

// NewRenderOptions creates options from functional options.
func NewRenderOptions(opts ...Option) RenderOptions {
	o := DefaultRenderOptions()
	o.Apply(opts...)
	return o
}

// Apply applies functional options to existing options.
func (o *RenderOptions) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}
