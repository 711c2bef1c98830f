package gui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gview/internal/input"
)

// PageViewer shows the current page image at device pixel size and feeds
// mouse input to a Router. While a drag is in progress the image is moved
// by the drag offset without requesting a new page.
type PageViewer struct {
	widget.BaseWidget

	image  *canvas.Image
	router *input.Router

	mu       sync.Mutex
	pageImg  image.Image
	offX     float32
	offY     float32
	lastDrag fyne.Position
}

var (
	_ desktop.Mouseable = (*PageViewer)(nil)
	_ fyne.Draggable    = (*PageViewer)(nil)
)

// NewPageViewer creates a page viewer sending input to r.
func NewPageViewer(r *input.Router) *PageViewer {
	v := &PageViewer{router: r}
	v.ExtendBaseWidget(v)

	v.image = canvas.NewImageFromImage(nil)
	v.image.FillMode = canvas.ImageFillStretch
	v.image.ScaleMode = canvas.ImageScalePixels
	return v
}

// SetImage sets the page image to display. A nil image clears the viewer.
func (v *PageViewer) SetImage(img image.Image) {
	v.mu.Lock()
	changed := img != v.pageImg
	v.pageImg = img
	v.mu.Unlock()
	if changed {
		v.image.Image = img
		v.image.Refresh()
	}
	v.Refresh()
}

// scale returns the number of device pixels per canvas unit.
func (v *PageViewer) scale() float32 {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(v); c != nil && c.Scale() > 0 {
			return c.Scale()
		}
	}
	return 1
}

func (v *PageViewer) pixels(p fyne.Position) (x, y float64) {
	s := v.scale()
	return float64(p.X * s), float64(p.Y * s)
}

// updatePreview copies the router's drag offset for the renderer.
func (v *PageViewer) updatePreview() {
	dx, dy := v.router.Preview()
	v.mu.Lock()
	v.offX, v.offY = float32(dx), float32(dy)
	v.mu.Unlock()
	v.Refresh()
}

// MouseDown starts a drag, recenters or prepares the context menu.
func (v *PageViewer) MouseDown(ev *desktop.MouseEvent) {
	x, y := v.pixels(ev.Position)
	v.mu.Lock()
	v.lastDrag = ev.Position
	v.mu.Unlock()
	v.router.Press(button(ev.Button), modifiers(ev.Modifier), x, y)
}

// MouseUp ends a drag or opens the context menu.
func (v *PageViewer) MouseUp(ev *desktop.MouseEvent) {
	x, y := v.pixels(ev.Position)
	v.router.Release(button(ev.Button), modifiers(ev.Modifier), x, y)
	v.updatePreview()
}

// Dragged moves the drag preview.
func (v *PageViewer) Dragged(ev *fyne.DragEvent) {
	v.mu.Lock()
	v.lastDrag = ev.Position
	v.mu.Unlock()
	x, y := v.pixels(ev.Position)
	v.router.Motion(x, y)
	v.updatePreview()
}

// DragEnd finishes a drag whose button release was not delivered to the
// viewer.
func (v *PageViewer) DragEnd() {
	if !v.router.Dragging() {
		return
	}
	v.mu.Lock()
	x, y := v.pixels(v.lastDrag)
	v.mu.Unlock()
	v.router.Release(input.ButtonPrimary, 0, x, y)
	v.updatePreview()
}

func button(b desktop.MouseButton) input.Button {
	switch b {
	case desktop.MouseButtonSecondary:
		return input.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return input.ButtonTertiary
	}
	return input.ButtonPrimary
}

func modifiers(m fyne.KeyModifier) input.Modifier {
	var out input.Modifier
	if m&fyne.KeyModifierShift != 0 {
		out |= input.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= input.ModControl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= input.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= input.ModSuper
	}
	return out
}

// CreateRenderer creates the renderer for this widget.
func (v *PageViewer) CreateRenderer() fyne.WidgetRenderer {
	return &pageViewerRenderer{viewer: v}
}

type pageViewerRenderer struct {
	viewer *PageViewer
}

func (r *pageViewerRenderer) Layout(fyne.Size) {
	v := r.viewer
	v.mu.Lock()
	img := v.pageImg
	offX, offY := v.offX, v.offY
	v.mu.Unlock()
	if img == nil {
		return
	}

	s := v.scale()
	b := img.Bounds()
	v.image.Move(fyne.NewPos(offX/s, offY/s))
	v.image.Resize(fyne.NewSize(float32(b.Dx())/s, float32(b.Dy())/s))
}

func (r *pageViewerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *pageViewerRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.viewer.image}
}

func (r *pageViewerRenderer) Refresh() {
	r.Layout(r.viewer.Size())
	canvas.Refresh(r.viewer.image)
}

func (r *pageViewerRenderer) Destroy() {}
