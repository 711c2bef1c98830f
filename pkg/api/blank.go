package api

import (
	"context"
	"image/color"

	"gview/pkg/raster"
)

// Blank is an in-memory document of plain sheets. Each sheet carries a
// border and one tick mark per page number, so pages can be told apart.
type Blank struct {
	Pages int
	Size  PageSize
}

// NewBlank returns a blank document with the given number of pages.
func NewBlank(pages int, size PageSize) *Blank {
	return &Blank{Pages: pages, Size: size}
}

func (b *Blank) PageCount(ctx context.Context) (int, error) {
	return b.Pages, ctx.Err()
}

func (b *Blank) RenderPage(ctx context.Context, page int, opts RenderOptions) (*Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page > b.Pages {
		return nil, ErrPageNotFound
	}

	dpiX, _ := opts.EffectiveDPI()
	c := raster.NewCanvasWithDPI(b.Size.Width, b.Size.Height, dpiX)
	gray := color.Gray{Y: 0x80}
	c.StrokeRect(0, 0, b.Size.Width, b.Size.Height, 2, gray)
	for i := 0; i < page; i++ {
		c.FillRect(18+float64(i%20)*9, 18+float64(i/20)*9, 6, 6, color.Black)
	}
	return &Rendered{Image: c.Image(), ResX: dpiX, ResY: dpiX}, nil
}

func (b *Blank) Close() error {
	return nil
}
