// Package gui provides the desktop window of the page viewer using Fyne.
package gui

import (
	"context"
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"gview/internal/config"
	"gview/internal/input"
	"gview/pkg/viewer"
)

const (
	windowTitle = "Ghost Pickle Viewer"
	titlePrefix = "GhostPickle: "
)

// App is the viewer application: one window showing one session.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	session *viewer.Session
	router  *input.Router
	viewer  *PageViewer
	log     zerolog.Logger
	ctx     context.Context
}

var _ input.Shell = (*App)(nil)

// NewApp creates the application window for s.
func NewApp(ctx context.Context, cfg config.Config, s *viewer.Session, log zerolog.Logger) *App {
	a := &App{
		fyneApp: app.New(),
		session: s,
		log:     log,
		ctx:     ctx,
	}

	opts := []input.Option{input.WithLogger(log)}
	if !cfg.PopupMenu {
		opts = append(opts, input.WithoutPopupMenu())
	}
	a.router = input.NewRouter(s, a, opts...)
	a.viewer = NewPageViewer(a.router)

	a.window = a.fyneApp.NewWindow(windowTitle)
	a.window.SetContent(a.viewer)
	a.window.Canvas().SetOnTypedKey(a.handleKey)
	a.window.Resize(fyne.NewSize(600, 800))

	s.OnChange = a.refresh
	return a
}

// Run opens path and runs the event loop until the window closes.
func (a *App) Run(path string) {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	a.ctx = ctx
	a.session.Run(ctx)

	if err := a.open(path); err != nil {
		a.log.Error().Err(err).Str("job", path).Msg("failed to open job")
	}
	a.window.ShowAndRun()
}

// open makes path the current job and sizes the window to its first page.
func (a *App) open(path string) error {
	w, h, err := a.session.Open(a.ctx, path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if w > 0 && h > 0 {
		a.window.Resize(fyne.NewSize(float32(w), float32(h)))
	}
	return nil
}

// refresh shows the session's current frame and status.
func (a *App) refresh() {
	a.window.SetTitle(titlePrefix + a.session.Status())
	var img image.Image
	if f := a.session.Frame(); f != nil {
		img = f.Image
	}
	a.viewer.SetImage(img)
}

// handleKey forwards typed keys to the router. Modifier keys on their own
// are not commands.
func (a *App) handleKey(key *fyne.KeyEvent) {
	switch key.Name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight,
		desktop.KeyControlLeft, desktop.KeyControlRight,
		desktop.KeyAltLeft, desktop.KeyAltRight,
		desktop.KeySuperLeft, desktop.KeySuperRight:
		return
	}
	a.router.Key(string(key.Name))
}

// OpenJob shows a file dialog and opens the selected document.
func (a *App) OpenJob() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return // Cancelled
		}
		path := reader.URI().Path()
		reader.Close()

		a.log.Debug().Str("job", path).Msg("file open")
		if err := a.open(path); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
}

// ShowContextMenu pops up the context menu at (x, y) in device pixels.
func (a *App) ShowContextMenu(x, y float64) {
	c := a.window.Canvas()
	s := c.Scale()
	if s <= 0 {
		s = 1
	}
	pos := fyne.NewPos(float32(x)/s, float32(y)/s)
	widget.ShowPopUpMenuAtPosition(newContextMenu(a.session, a), c, pos)
}

// Quit closes the application.
func (a *App) Quit() {
	a.fyneApp.Quit()
}
