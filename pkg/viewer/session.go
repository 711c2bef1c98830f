// Package viewer ties the view transform, the page navigation and the
// renderer workers of one viewer window together.
package viewer

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"gview/pkg/navigation"
	"gview/pkg/pickle"
	"gview/pkg/viewport"
)

// Settings are the view defaults of a session.
type Settings struct {
	StartingRes     float64
	ZoomWindowRatio float64
	TextAlpha       bool
	RTL             bool
}

// Alternate reading mode values.
const (
	alternateStartingRes     = 50
	alternateZoomWindowRatio = 4
)

// Session is the state of one viewer window. All methods are safe for
// concurrent use; the GUI event goroutine and the result loop share it.
type Session struct {
	mu   sync.Mutex
	job  string
	disp *pickle.Dispatcher
	nav  *navigation.State
	view *viewport.Controller
	log  zerolog.Logger

	// OnChange is called, without the session lock held, after the
	// displayed frame or the status text may have changed.
	OnChange func()
}

// New creates a session rendering through d.
func New(d *pickle.Dispatcher, s Settings, log zerolog.Logger) *Session {
	sess := &Session{disp: d, log: log}
	sess.nav = navigation.New(sess.requestPage)
	sess.view = viewport.NewController(s.StartingRes, s.ZoomWindowRatio, sess.nav, d)

	d.Pages().SetTextAlpha(s.TextAlpha)
	d.Pages().SetRTL(s.RTL)
	d.OnPageReady = sess.pageReady
	d.OnPageCountReady = sess.pageCountReady
	return sess
}

// Run starts the renderer workers and applies their results until ctx is
// done.
func (s *Session) Run(ctx context.Context) {
	s.disp.Run(ctx)
	go func() {
		for {
			select {
			case msg := <-s.disp.Results():
				s.Apply(msg)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Apply handles one result message from the workers.
func (s *Session) Apply(msg pickle.Message) {
	s.update(func() { s.disp.Apply(msg) })
}

// update runs f under the session lock and then reports the change.
func (s *Session) update(f func()) {
	s.mu.Lock()
	f()
	s.mu.Unlock()
	if s.OnChange != nil {
		s.OnChange()
	}
}

// requestPage is the navigation's request hook; s.mu is held.
func (s *Session) requestPage(page int) {
	s.disp.RequestPage(page, s.view.Params())
}

// pageReady runs inside Apply with s.mu held.
func (s *Session) pageReady(r pickle.PageResult) {
	if !r.Found() {
		s.log.Debug().Int("page", r.Page).Msg("no image, keeping previous page")
	}
}

// pageCountReady runs inside Apply with s.mu held.
func (s *Session) pageCountReady(n int) {
	s.nav.SetTotal(n)
	s.log.Info().Str("job", s.job).Int("pages", n).Msg("page count known")
}

// Open makes path the current job. The viewport and navigation start over,
// page counting starts in the background and the first page is rendered
// before Open returns, so its size can be used for the window.
func (s *Session) Open(ctx context.Context, path string) (width, height int, err error) {
	s.mu.Lock()
	s.job = path
	res := s.view.StartingRes()
	s.view.Reset(res)
	s.nav.Reset()

	pages := s.disp.Pages()
	s.disp.SetJob(path)
	pages.SetResolution(res, res)
	pages.SetDeviceOptions(s.view.Params().DeviceOptions())
	s.disp.RequestPageCount(path)
	pages.SetPageNumber(s.nav.Page())
	s.mu.Unlock()

	s.log.Info().Str("job", path).Float64("res", res).Msg("opening job")
	_, err = s.disp.ProduceFirst(ctx)
	if s.OnChange != nil {
		s.OnChange()
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to render first page: %w", err)
	}
	return pages.ImageWidth(), pages.ImageHeight(), nil
}

// Frame returns the page image on display, or nil.
func (s *Session) Frame() *pickle.Frame {
	return s.disp.Frame()
}

// Job returns the current job.
func (s *Session) Job() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job
}

// Status returns "<job> <page> of <count>", with "?" for an unknown count.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s %d of %s", s.job, s.nav.Page(), s.nav.TotalText())
}

// PageLabel returns the page entry of the context menu.
func (s *Session) PageLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("page# %d of %s", s.nav.Page(), s.nav.TotalText())
}

// DPILabel returns the resolution entry of the context menu.
func (s *Session) DPILabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return "dpi: " + viewport.FormatReal(s.view.State().DesiredRes)
}

// ResLabel returns the starting resolution entry of the context menu.
func (s *Session) ResLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return "Res: " + viewport.FormatReal(s.view.StartingRes())
}

// Viewport returns a copy of the view state.
func (s *Session) Viewport() viewport.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.State()
}

// Page returns the current page number.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Page()
}

// NextPage advances one page.
func (s *Session) NextPage() {
	s.update(s.nav.Next)
}

// PrevPage goes back one page, stopping at page 1.
func (s *Session) PrevPage() {
	s.update(s.nav.Prev)
}

// SetPage jumps to page n without rendering it and without checking n.
func (s *Session) SetPage(n int) {
	s.update(func() { s.nav.SetPage(n) })
}

// Pan moves the view by a drag delta in displayed pixels.
func (s *Session) Pan(dx, dy float64) {
	s.update(func() { s.view.Pan(dx, dy) })
}

// Recenter returns to the un-zoomed view at the origin.
func (s *Session) Recenter() {
	s.update(func() { s.view.Recenter() })
}

// ZoomInAtOrigin doubles the resolution about the top-left corner.
func (s *Session) ZoomInAtOrigin() {
	s.update(func() { s.view.ZoomInAtOrigin() })
}

// ZoomOutAtOrigin halves the resolution about the top-left corner.
func (s *Session) ZoomOutAtOrigin() {
	s.update(func() { s.view.ZoomOutAtOrigin() })
}

// ZoomIn doubles the resolution about an anchor in displayed pixels.
func (s *Session) ZoomIn(x, y float64) {
	s.update(func() { s.view.ZoomIn(x, y) })
}

// ZoomOut halves the resolution about an anchor in displayed pixels.
func (s *Session) ZoomOut(x, y float64) {
	s.update(func() { s.view.ZoomOut(x, y) })
}

// ZoomToRes shows the page at exactly res.
func (s *Session) ZoomToRes(res float64) {
	s.update(func() { s.view.ZoomToRes(res) })
}

// ZoomFactor multiplies the resolution by f.
func (s *Session) ZoomFactor(f float64) {
	s.update(func() { s.view.ZoomFactor(f) })
}

// ZoomActualSize shows the page at the starting resolution.
func (s *Session) ZoomActualSize() {
	s.update(func() { s.view.ZoomToRes(s.view.StartingRes()) })
}

// IncreaseStartingRes raises the resolution new jobs open at.
func (s *Session) IncreaseStartingRes() {
	s.update(func() { s.view.IncreaseStartingRes() })
}

// DecreaseStartingRes lowers the resolution new jobs open at.
func (s *Session) DecreaseStartingRes() {
	s.update(func() { s.view.DecreaseStartingRes() })
}

// TextAlpha reports whether text anti-aliasing is on.
func (s *Session) TextAlpha() bool {
	return s.disp.Pages().TextAlpha()
}

// SetTextAlpha turns text anti-aliasing on or off for later productions.
func (s *Session) SetTextAlpha(on bool) {
	s.disp.Pages().SetTextAlpha(on)
}

// RTL reports whether right-to-left mode is on.
func (s *Session) RTL() bool {
	return s.disp.Pages().RTL()
}

// SetRTL turns right-to-left mode on or off for later productions.
func (s *Session) SetRTL(on bool) {
	s.disp.Pages().SetRTL(on)
}

// ToggleAlternateMode switches to the right-to-left reading setup: a
// lower starting resolution and zoom window ratio, and the renderer's RTL
// flag flipped. The resolution change is not undone by a second toggle.
func (s *Session) ToggleAlternateMode() {
	s.update(func() {
		s.view.SetStartingRes(alternateStartingRes)
		s.view.SetZoomWindowRatio(alternateZoomWindowRatio)
		pages := s.disp.Pages()
		pages.SetRTL(!pages.RTL())
		s.view.Refresh()
	})
}

// ZoomWindowRatio returns the size ratio of secondary views.
func (s *Session) ZoomWindowRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.ZoomWindowRatio()
}
