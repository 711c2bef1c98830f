package viewport

import "math"

// Requester issues a render request for a page at the given parameters.
// Implementations must not block.
type Requester interface {
	RequestPage(page int, p Params) uint64
}

// PageSource reports the page number a request should carry.
type PageSource interface {
	Page() int
}

// ResolutionBand classifies a zoom-to-resolution target relative to the
// starting resolution.
type ResolutionBand int

const (
	// BelowBaseline targets lie under the starting resolution; the frame
	// is re-baselined at the target itself.
	BelowBaseline ResolutionBand = iota
	// CrossingBaseline targets are at or above the starting resolution
	// while the current base is still below it.
	CrossingBaseline
	// AboveBaseline is the normal case.
	AboveBaseline
)

func (b ResolutionBand) String() string {
	switch b {
	case BelowBaseline:
		return "below-baseline"
	case CrossingBaseline:
		return "crossing-baseline"
	case AboveBaseline:
		return "above-baseline"
	}
	return "unknown"
}

// Starting resolution limits for IncreaseStartingRes/DecreaseStartingRes.
const (
	MinStartingRes  = 25
	MaxStartingRes  = 300
	StartingResStep = 10
)

// Controller computes new view states for pan and zoom gestures and issues
// exactly one render request per operation.
type Controller struct {
	state State

	startingRes     float64
	zoomWindowRatio float64

	pages PageSource
	out   Requester
}

// NewController returns a controller for a view starting at startingRes.
// The state is not validated; callers pass a positive resolution.
func NewController(startingRes, zoomWindowRatio float64, pages PageSource, out Requester) *Controller {
	return &Controller{
		state:           NewState(startingRes),
		startingRes:     startingRes,
		zoomWindowRatio: zoomWindowRatio,
		pages:           pages,
		out:             out,
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	return c.state
}

// Params returns the device parameters of the current state.
func (c *Controller) Params() Params {
	return c.state.Params()
}

// StartingRes returns the configured baseline resolution.
func (c *Controller) StartingRes() float64 {
	return c.startingRes
}

// SetStartingRes changes the baseline resolution used by ZoomToRes and by
// the next Reset.
func (c *Controller) SetStartingRes(res float64) {
	c.startingRes = res
}

// IncreaseStartingRes raises the starting resolution by one step, up to
// MaxStartingRes.
func (c *Controller) IncreaseStartingRes() float64 {
	c.startingRes = math.Min(c.startingRes+StartingResStep, MaxStartingRes)
	return c.startingRes
}

// DecreaseStartingRes lowers the starting resolution by one step, down to
// MinStartingRes.
func (c *Controller) DecreaseStartingRes() float64 {
	c.startingRes = math.Max(c.startingRes-StartingResStep, MinStartingRes)
	return c.startingRes
}

// ZoomWindowRatio returns the size ratio of secondary (navigation) views.
func (c *Controller) ZoomWindowRatio() float64 {
	return c.zoomWindowRatio
}

// SetZoomWindowRatio sets the size ratio of secondary views.
func (c *Controller) SetZoomWindowRatio(r float64) {
	c.zoomWindowRatio = r
}

// Reset starts a fresh view at res with the origin at (0,0). No request is
// issued; the caller produces the first page itself.
func (c *Controller) Reset(res float64) {
	c.state = NewState(res)
}

// Refresh re-issues a request for the current state.
func (c *Controller) Refresh() uint64 {
	return c.request()
}

// Pan moves the view by a delta observed on screen, in displayed pixels.
func (c *Controller) Pan(dx, dy float64) uint64 {
	c.state.OriginX += dx / c.state.ScaleX()
	c.state.OriginY += dy / c.state.ScaleY()
	return c.request()
}

// Translate moves the origin by (dx, dy) without any scale conversion.
func (c *Controller) Translate(dx, dy float64) uint64 {
	c.state.OriginX += dx
	c.state.OriginY += dy
	return c.request()
}

// TranslateTo moves the origin to (x, y).
func (c *Controller) TranslateTo(x, y float64) uint64 {
	c.state.OriginX = x
	c.state.OriginY = y
	return c.request()
}

// Recenter returns to the un-zoomed view at the origin.
func (c *Controller) Recenter() uint64 {
	c.state.DesiredRes = c.state.BaseRes
	return c.TranslateTo(0, 0)
}

// ZoomIn doubles the resolution, shifting the origin by the anchor point.
func (c *Controller) ZoomIn(ax, ay float64) uint64 {
	c.anchor(ax, ay)
	c.state.DesiredRes *= 2
	return c.request()
}

// ZoomOut halves the resolution, shifting the origin by the anchor point.
func (c *Controller) ZoomOut(ax, ay float64) uint64 {
	c.anchor(ax, ay)
	c.state.DesiredRes /= 2
	return c.request()
}

// ZoomInAtOrigin resets the origin and magnifies about the top-left corner.
func (c *Controller) ZoomInAtOrigin() uint64 {
	c.state.OriginX, c.state.OriginY = 0, 0
	return c.ZoomIn(0, 0)
}

// ZoomOutAtOrigin resets the origin and shrinks about the top-left corner.
func (c *Controller) ZoomOutAtOrigin() uint64 {
	c.state.OriginX, c.state.OriginY = 0, 0
	return c.ZoomOut(0, 0)
}

func (c *Controller) anchor(ax, ay float64) {
	c.state.OriginX += ax * c.state.DesiredRes / c.state.BaseRes
	c.state.OriginY += ay * c.state.DesiredRes / c.state.BaseRes
}

// Band classifies res against the current state and starting resolution.
func (c *Controller) Band(res float64) ResolutionBand {
	switch {
	case res < c.startingRes:
		return BelowBaseline
	case c.state.BaseRes < c.startingRes:
		return CrossingBaseline
	default:
		return AboveBaseline
	}
}

// ZoomToRes sets the resolution to exactly res with the origin at (0,0).
//
// Targets below the starting resolution re-baseline the frame at res. All
// other targets go through ZoomIn from res/2, after restoring the starting
// resolution as base if the frame was re-baselined earlier.
func (c *Controller) ZoomToRes(res float64) uint64 {
	switch c.Band(res) {
	case BelowBaseline:
		c.state = NewState(res)
		return c.request()
	case CrossingBaseline:
		c.state.BaseRes = c.startingRes
	}
	c.state.OriginX, c.state.OriginY = 0, 0
	c.state.DesiredRes = res / 2
	return c.ZoomIn(0, 0)
}

// ZoomFactor multiplies the current resolution by f.
func (c *Controller) ZoomFactor(f float64) uint64 {
	return c.ZoomToRes(c.state.DesiredRes * f)
}

func (c *Controller) request() uint64 {
	return c.out.RequestPage(c.pages.Page(), c.state.Params())
}
