package api

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gview/pkg/raster"
)

func TestBlankRender(t *testing.T) {
	ctx := context.Background()
	doc := NewDocument("blank", NewBlank(3, PageSize{144, 72}))

	n, err := doc.PageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	img, err := doc.Render(ctx, 2, NewRenderOptions(Resolution(72, 72)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 144, 72), img.Bounds())

	_, err = doc.Render(ctx, 4, DefaultRenderOptions())
	assert.ErrorIs(t, err, ErrPageNotFound)
	_, err = doc.Render(ctx, 0, DefaultRenderOptions())
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestRenderAppliesView(t *testing.T) {
	ctx := context.Background()
	doc := NewDocument("blank", NewBlank(1, PageSize{72, 72}))

	opts := NewRenderOptions(
		Resolution(72, 72),
		WithView(raster.View{TransX: 9, TransY: 9, ScaleX: 2, ScaleY: 2}),
		Background(color.Black),
	)
	img, err := doc.Render(ctx, 1, opts)
	require.NoError(t, err)

	// the frame keeps the page's base size and shows the magnified page from
	// pixel 18 on
	require.Equal(t, image.Rect(0, 0, 72, 72), img.Bounds())
	rgba := img.(*image.RGBA)
	// the first tick mark sits at 18pt, i.e. 36px magnified
	assert.Equal(t, color.RGBA{A: 0xff}, rgba.RGBAAt(36-18+2, 36-18+2))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, rgba.RGBAAt(60, 60))
}

func TestRenderFrameSizeIndependentOfScale(t *testing.T) {
	doc := NewDocument("letter", NewBlank(1, PageSizeLetter))
	for _, scale := range []float64{0.5, 1, 2, 8, 24} {
		opts := NewRenderOptions(
			Resolution(100, 100),
			WithView(raster.View{TransX: 40, TransY: 30, ScaleX: scale, ScaleY: scale}),
		)
		img, err := doc.Render(context.Background(), 1, opts)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 850, 1100), img.Bounds(), "scale %v", scale)
	}
}

type spyBackend struct {
	*Blank
	dpi []float64
}

func (b *spyBackend) RenderPage(ctx context.Context, page int, opts RenderOptions) (*Rendered, error) {
	dpi, _ := opts.EffectiveDPI()
	b.dpi = append(b.dpi, dpi)
	return b.Blank.RenderPage(ctx, page, opts)
}

func TestRenderCapsBackendResolution(t *testing.T) {
	b := &spyBackend{Blank: NewBlank(1, PageSize{72, 72})}
	doc := NewDocument("spy", b)
	for _, scale := range []float64{2, 6, 40} {
		opts := NewRenderOptions(
			Resolution(100, 100),
			WithView(raster.View{ScaleX: scale, ScaleY: scale}),
		)
		img, err := doc.Render(context.Background(), 1, opts)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
	}
	assert.Equal(t, []float64{200, MaxRenderDPI, MaxRenderDPI}, b.dpi)

	// a base resolution above the cap is never lowered
	b.dpi = nil
	_, err := doc.Render(context.Background(), 1, NewRenderOptions(
		Resolution(720, 720),
		WithView(raster.View{ScaleX: 3, ScaleY: 3}),
	))
	require.NoError(t, err)
	assert.Equal(t, []float64{720}, b.dpi)
}

type fixedResBackend struct {
	*Blank
}

func (b fixedResBackend) RenderPage(ctx context.Context, page int, opts RenderOptions) (*Rendered, error) {
	return b.Blank.RenderPage(ctx, page, NewRenderOptions(Resolution(72, 72)))
}

func TestRenderResamples(t *testing.T) {
	doc := NewDocument("fixed", fixedResBackend{NewBlank(1, PageSize{72, 72})})
	img, err := doc.Render(context.Background(), 1, NewRenderOptions(Resolution(150, 150)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 150, 150), img.Bounds())
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open("notes.txt", DefaultCommands())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestOpenExecBackends(t *testing.T) {
	doc, err := Open("GhostPrinter.pcl", DefaultCommands())
	require.NoError(t, err)
	assert.Equal(t, "gpcl6", doc.backend.(*execBackend).command)

	doc, err = Open("tiger.eps", DefaultCommands())
	require.NoError(t, err)
	assert.Equal(t, "gs", doc.backend.(*execBackend).command)
}

func TestExecRenderArgs(t *testing.T) {
	opts := NewRenderOptions(
		Resolution(100, 100),
		WithView(raster.View{ScaleX: 1.51, ScaleY: 1.51}),
		DeviceOptions(" -dViewTransX=0.0 -dViewTransY=0.0 -dViewScaleX=1.51 -dViewScaleY=1.51"),
		TextAlpha(false),
	)

	b := newExecBackend("gpcl6", "job.pcl", false)
	args, resX, resY := b.renderArgs(3, opts)
	assert.Equal(t, 151.0, resX)
	assert.Equal(t, 151.0, resY)
	assert.Equal(t, []string{
		"-dNOPAUSE", "-dBATCH", "-dSAFER", "-q",
		"-sDEVICE=png16m", "-r151x151",
		"-dFirstPage=3", "-dLastPage=3",
		"-sOutputFile=-", "job.pcl",
	}, args)

	opts.TextAlpha = true
	opts.RTL = true
	b = newExecBackend("pickle", "job.pxl", true)
	args, resX, _ = b.renderArgs(1, opts)
	assert.Equal(t, 100.0, resX)
	assert.Equal(t, []string{
		"-dNOPAUSE", "-dBATCH", "-dSAFER", "-q",
		"-sDEVICE=png16m", "-r100x100",
		"-dFirstPage=1", "-dLastPage=1",
		"-dTextAlphaBits=4", "-dGraphicsAlphaBits=4",
		"-dViewTransX=0.0", "-dViewTransY=0.0", "-dViewScaleX=1.51", "-dViewScaleY=1.51",
		"-dRTL",
		"-sOutputFile=-", "job.pxl",
	}, args)
}

func TestCountBoundingBoxes(t *testing.T) {
	out := bytes.NewBufferString("%%BoundingBox: 0 0 612 792\n%%HiResBoundingBox: 0 0 612 792\n" +
		"%%BoundingBox: 0 0 612 792\n%%HiResBoundingBox: 0 0 612 792\n")
	assert.Equal(t, 2, countBoundingBoxes(out))
}
