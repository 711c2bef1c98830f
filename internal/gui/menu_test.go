package gui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gview/pkg/api"
	"gview/pkg/pickle"
	"gview/pkg/viewer"
)

type shell struct {
	opened, quit int
}

func (s *shell) OpenJob() { s.opened++ }
func (s *shell) ShowContextMenu(x, y float64) {}
func (s *shell) Quit() { s.quit++ }

func newTestSession(t *testing.T) (*viewer.Session, *pickle.Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	blank := api.NewBlank(3, api.PageSizeLetter)
	d := pickle.NewDispatcher(func(path string) (*api.Document, error) {
		return api.NewDocument(path, blank), nil
	})
	d.Run(ctx)
	s := viewer.New(d, viewer.Settings{StartingRes: 100, ZoomWindowRatio: 3, TextAlpha: true}, zerolog.Nop())
	_, _, err := s.Open(ctx, "doc.pcl")
	require.NoError(t, err)
	return s, d
}

func item(t *testing.T, m *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, it := range m.Items {
		if it.Label == label {
			return it
		}
	}
	t.Fatalf("no menu item %q", label)
	return nil
}

func waitPage(t *testing.T, d *pickle.Dispatcher, s *viewer.Session) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-d.Results():
			s.Apply(msg)
			if msg.Kind == pickle.PageReady {
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for page")
		}
	}
}

func TestContextMenuLabels(t *testing.T) {
	s, _ := newTestSession(t)
	m := newContextMenu(s, &shell{})

	item(t, m, "dpi: 100.0")
	item(t, m, "page# 1 of ?")
	opts := item(t, m, "Options")
	require.NotNil(t, opts.ChildMenu)
	item(t, opts.ChildMenu, "Res: 100.0")
	assert.True(t, item(t, opts.ChildMenu, "TextAntiAlias").Checked)
	assert.False(t, item(t, opts.ChildMenu, "RTL").Checked)
	assert.Len(t, item(t, m, "Zoom").ChildMenu.Items, 7)
	assert.Len(t, item(t, m, "Zoom DPI").ChildMenu.Items, 7)
}

func TestContextMenuActions(t *testing.T) {
	s, d := newTestSession(t)
	sh := &shell{}
	m := newContextMenu(s, sh)

	item(t, m, "Next Page").Action()
	waitPage(t, d, s)
	assert.Equal(t, 2, s.Page())

	item(t, item(t, m, "Zoom DPI").ChildMenu, "300 dpi").Action()
	waitPage(t, d, s)
	assert.Equal(t, 300.0, s.Viewport().DesiredRes)

	item(t, item(t, m, "Zoom").ChildMenu, "1:1").Action()
	waitPage(t, d, s)
	assert.Equal(t, 100.0, s.Viewport().DesiredRes)

	item(t, item(t, m, "Zoom").ChildMenu, "2:1").Action()
	waitPage(t, d, s)
	assert.Equal(t, 200.0, s.Viewport().DesiredRes)

	res := item(t, item(t, m, "Options").ChildMenu, "Res: 100.0")
	item(t, res.ChildMenu, "Increase Resolution").Action()
	assert.Equal(t, "Res: 110.0", s.ResLabel())

	item(t, item(t, m, "Options").ChildMenu, "TextAntiAlias").Action()
	assert.False(t, s.TextAlpha())

	file := item(t, m, "File").ChildMenu
	item(t, file, "Open").Action()
	item(t, file, "Quit").Action()
	assert.Equal(t, 1, sh.opened)
	assert.Equal(t, 1, sh.quit)
}
