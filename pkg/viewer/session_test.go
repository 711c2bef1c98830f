package viewer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gview/pkg/api"
	"gview/pkg/pickle"
)

var defaults = Settings{StartingRes: 100, ZoomWindowRatio: 3, TextAlpha: true}

func newTestSession(t *testing.T, pages int) (*Session, *pickle.Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	blank := api.NewBlank(pages, api.PageSizeLetter)
	d := pickle.NewDispatcher(func(path string) (*api.Document, error) {
		return api.NewDocument(path, blank), nil
	})
	d.Run(ctx)
	return New(d, defaults, zerolog.Nop()), d
}

func receive(t *testing.T, d *pickle.Dispatcher) pickle.Message {
	t.Helper()
	select {
	case msg := <-d.Results():
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for result")
	}
	return pickle.Message{}
}

func TestOpen(t *testing.T) {
	s, d := newTestSession(t, 42)

	var changes atomic.Int32
	s.OnChange = func() { changes.Add(1) }

	w, h, err := s.Open(context.Background(), "GhostPrinter.pcl")
	require.NoError(t, err)
	assert.Equal(t, 850, w)
	assert.Equal(t, 1100, h)
	assert.Equal(t, "GhostPrinter.pcl 1 of ?", s.Status())
	assert.Equal(t, "page# 1 of ?", s.PageLabel())
	assert.Equal(t, "dpi: 100.0", s.DPILabel())
	require.NotNil(t, s.Frame())
	assert.Equal(t, 1, s.Frame().Page)

	// the count arrives after the first page is already on display
	msg := receive(t, d)
	require.Equal(t, pickle.PageCountReady, msg.Kind)
	s.Apply(msg)
	assert.Equal(t, "GhostPrinter.pcl 1 of 42", s.Status())
	assert.Equal(t, "page# 1 of 42", s.PageLabel())
	assert.GreaterOrEqual(t, changes.Load(), int32(2))
}

func TestOpenResetsView(t *testing.T) {
	s, d := newTestSession(t, 3)
	_, _, err := s.Open(context.Background(), "a.pcl")
	require.NoError(t, err)
	receive(t, d)

	s.ZoomIn(40, 40)
	receive(t, d)
	s.NextPage()
	receive(t, d)
	require.NotEqual(t, 100.0, s.Viewport().DesiredRes)

	_, _, err = s.Open(context.Background(), "b.pcl")
	require.NoError(t, err)
	v := s.Viewport()
	assert.Equal(t, 100.0, v.DesiredRes)
	assert.Equal(t, 100.0, v.BaseRes)
	assert.Zero(t, v.OriginX)
	assert.Zero(t, v.OriginY)
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, "b.pcl 1 of ?", s.Status())
}

func TestLastRequestedPageShown(t *testing.T) {
	s, d := newTestSession(t, 5)
	_, _, err := s.Open(context.Background(), "doc.pcl")
	require.NoError(t, err)
	s.Apply(receive(t, d))

	s.NextPage()
	s.NextPage()
	s.Apply(receive(t, d))
	s.Apply(receive(t, d))

	require.NotNil(t, s.Frame())
	assert.Equal(t, 3, s.Frame().Page)
	assert.Equal(t, "doc.pcl 3 of 5", s.Status())
}

func TestPastLastPageKeepsFrame(t *testing.T) {
	s, d := newTestSession(t, 1)
	_, _, err := s.Open(context.Background(), "doc.pcl")
	require.NoError(t, err)
	s.Apply(receive(t, d))
	shown := s.Frame()

	s.NextPage()
	s.Apply(receive(t, d))
	assert.Same(t, shown, s.Frame())
	assert.Equal(t, "doc.pcl 2 of 1", s.Status())

	s.PrevPage()
	s.PrevPage()
	s.Apply(receive(t, d))
	assert.Equal(t, 1, s.Page())
}

func TestSetPageDoesNotRender(t *testing.T) {
	s, d := newTestSession(t, 5)
	_, _, err := s.Open(context.Background(), "doc.pcl")
	require.NoError(t, err)
	s.Apply(receive(t, d))

	before := d.Pages().LastIssued()
	s.SetPage(4)
	assert.Equal(t, 4, s.Page())
	assert.Equal(t, before, d.Pages().LastIssued())
}

func TestZoomAndRecenter(t *testing.T) {
	s, d := newTestSession(t, 2)
	_, _, err := s.Open(context.Background(), "doc.pcl")
	require.NoError(t, err)
	receive(t, d)

	s.ZoomInAtOrigin()
	s.Apply(receive(t, d))
	assert.Equal(t, 200.0, s.Viewport().DesiredRes)
	assert.Equal(t, "dpi: 200.0", s.DPILabel())

	s.Pan(10, 20)
	s.Apply(receive(t, d))
	assert.Equal(t, 5.0, s.Viewport().OriginX)
	assert.Equal(t, 10.0, s.Viewport().OriginY)

	s.Recenter()
	s.Apply(receive(t, d))
	v := s.Viewport()
	assert.Equal(t, v.BaseRes, v.DesiredRes)
	assert.Zero(t, v.OriginX)

	s.ZoomToRes(600)
	s.Apply(receive(t, d))
	assert.Equal(t, 600.0, s.Viewport().DesiredRes)

	s.ZoomActualSize()
	s.Apply(receive(t, d))
	assert.Equal(t, 100.0, s.Viewport().DesiredRes)
}

func TestToggleAlternateMode(t *testing.T) {
	s, d := newTestSession(t, 2)
	_, _, err := s.Open(context.Background(), "doc.pcl")
	require.NoError(t, err)
	receive(t, d)
	require.False(t, s.RTL())

	before := d.Pages().LastIssued()
	s.ToggleAlternateMode()
	assert.True(t, s.RTL())
	assert.Equal(t, 4.0, s.ZoomWindowRatio())
	assert.Equal(t, "Res: 50.0", s.ResLabel())
	assert.Greater(t, d.Pages().LastIssued(), before)

	msg := receive(t, d)
	assert.Equal(t, pickle.PageReady, msg.Kind)

	s.ToggleAlternateMode()
	assert.False(t, s.RTL())
	assert.Equal(t, "Res: 50.0", s.ResLabel())
}

func TestStartingResLimits(t *testing.T) {
	s, _ := newTestSession(t, 1)
	for i := 0; i < 30; i++ {
		s.IncreaseStartingRes()
	}
	assert.Equal(t, "Res: 300.0", s.ResLabel())
	for i := 0; i < 30; i++ {
		s.DecreaseStartingRes()
	}
	assert.Equal(t, "Res: 25.0", s.ResLabel())
}

func TestTextAlpha(t *testing.T) {
	s, _ := newTestSession(t, 1)
	assert.True(t, s.TextAlpha())
	s.SetTextAlpha(false)
	assert.False(t, s.TextAlpha())
}

func TestRunAppliesResultsConcurrently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blank := api.NewBlank(10, api.PageSizeLetter)
	d := pickle.NewDispatcher(func(path string) (*api.Document, error) {
		return api.NewDocument(path, blank), nil
	})
	s := New(d, defaults, zerolog.Nop())
	changed := make(chan struct{}, 1)
	s.OnChange = func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	s.Run(ctx)

	_, _, err := s.Open(ctx, "doc.pcl")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			s.NextPage()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			s.Pan(3, 4)
			_ = s.Status()
			_ = s.Viewport()
		}
	}()
	wg.Wait()
	assert.Equal(t, 6, s.Page())

	deadline := time.After(5 * time.Second)
	for {
		if f := s.Frame(); f != nil && f.Page == 6 && s.Status() == "doc.pcl 6 of 10" {
			break
		}
		select {
		case <-changed:
		case <-deadline:
			t.Fatalf("frame never reached page 6, status %q", s.Status())
		}
	}
}

func TestOpenClearsFrame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := pickle.NewDispatcher(func(path string) (*api.Document, error) {
		if path == "empty.pcl" {
			return api.NewDocument(path, api.NewBlank(0, api.PageSizeLetter)), nil
		}
		return api.NewDocument(path, api.NewBlank(2, api.PageSizeLetter)), nil
	})
	d.Run(ctx)
	s := New(d, defaults, zerolog.Nop())

	_, _, err := s.Open(ctx, "a.pcl")
	require.NoError(t, err)
	require.NotNil(t, s.Frame())

	w, h, err := s.Open(ctx, "empty.pcl")
	require.NoError(t, err)
	assert.Nil(t, s.Frame())
	assert.Zero(t, w)
	assert.Zero(t, h)
}
