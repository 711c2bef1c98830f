// Package api opens documents for the viewer and produces page images.
// The actual rasterization is done by a backend: MuPDF for PDF files, an
// external Ghostscript/GhostPCL process for PCL, PXL and PostScript.
package api

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"gview/pkg/raster"
)

var (
	// ErrPageNotFound is returned when a page past the end of the
	// document is requested.
	ErrPageNotFound = errors.New("page not found")

	// ErrUnsupported is returned for documents no backend can read.
	ErrUnsupported = errors.New("unsupported document type")
)

// Backend renders the pages of one open document.
type Backend interface {
	// PageCount returns the number of pages. This may be slow.
	PageCount(ctx context.Context) (int, error)

	// RenderPage renders page (1-based) at the effective resolution of
	// opts. Pages past the end yield ErrPageNotFound.
	RenderPage(ctx context.Context, page int, opts RenderOptions) (*Rendered, error)

	Close() error
}

// Document is an open job.
type Document struct {
	path    string
	backend Backend
}

// Commands names the external renderer executables.
type Commands struct {
	PCL string // PCL5, PCL XL
	PS  string // PostScript, and PDF when MuPDF is not wanted

	// NativeView is set when the renderer understands the view device
	// options itself.
	NativeView bool
}

// DefaultCommands returns the stock Ghostscript executable names.
func DefaultCommands() Commands {
	return Commands{PCL: "gpcl6", PS: "gs"}
}

// Open opens the document at path, choosing a backend by file extension.
func Open(path string, cmds Commands) (*Document, error) {
	var b Backend
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		fb, err := openFitz(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open PDF: %w", err)
		}
		b = fb
	case ".pcl", ".pxl", ".px3", ".prn":
		b = newExecBackend(cmds.PCL, path, cmds.NativeView)
	case ".ps", ".eps":
		b = newExecBackend(cmds.PS, path, cmds.NativeView)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return NewDocument(path, b), nil
}

// NewDocument wraps an already open backend.
func NewDocument(path string, b Backend) *Document {
	return &Document{path: path, backend: b}
}

// Path returns the job the document was opened for.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount(ctx context.Context) (int, error) {
	n, err := d.backend.PageCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// Render renders a page (1-based) with the view transform of opts applied.
//
// The result is a frame the size of the page at the hardware resolution
// ResX/ResY, whatever the view scale. Backends are asked for at most
// MaxRenderDPI; stronger magnifications upsample the visible part.
func (d *Document) Render(ctx context.Context, page int, opts RenderOptions) (image.Image, error) {
	if page < 1 {
		return nil, ErrPageNotFound
	}
	out, err := d.backend.RenderPage(ctx, page, opts.limited())
	if err != nil {
		return nil, err
	}
	if out.ViewApplied {
		return out.Image, nil
	}
	if opts.View.IsIdentity() && out.ResX == opts.ResX && out.ResY == opts.ResY {
		return out.Image, nil
	}

	b := out.Image.Bounds()
	size := image.Pt(
		int(float64(b.Dx())*opts.ResX/out.ResX+0.5),
		int(float64(b.Dy())*opts.ResY/out.ResY+0.5),
	)
	dpiX, dpiY := opts.EffectiveDPI()
	bg := opts.Background
	if bg == nil {
		bg = DefaultRenderOptions().Background
	}
	return raster.ApplyView(out.Image, dpiX/out.ResX, dpiY/out.ResY, opts.View, size, bg), nil
}

// Close releases resources associated with the document.
func (d *Document) Close() error {
	return d.backend.Close()
}
