package api

import (
	"context"
	"errors"
	"fmt"

	fitz "github.com/gen2brain/go-fitz"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// fitzBackend renders PDF pages with MuPDF. Pages are counted from the
// page tree, which does not need MuPDF to lay out anything.
type fitzBackend struct {
	path string
	doc  *fitz.Document
}

func openFitz(path string) (*fitzBackend, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzBackend{path: path, doc: doc}, nil
}

func (b *fitzBackend) PageCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := CountPDFPages(b.path)
	if err != nil {
		// damaged page trees are still readable by MuPDF
		return b.doc.NumPage(), nil
	}
	return n, nil
}

func (b *fitzBackend) RenderPage(ctx context.Context, page int, opts RenderOptions) (*Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page > b.doc.NumPage() {
		return nil, ErrPageNotFound
	}
	dpi, _ := opts.EffectiveDPI()
	img, err := b.doc.ImageDPI(page-1, dpi)
	if errors.Is(err, fitz.ErrPageMissing) {
		return nil, ErrPageNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}
	return &Rendered{Image: img, ResX: dpi, ResY: dpi}, nil
}

func (b *fitzBackend) Close() error {
	return b.doc.Close()
}

// CountPDFPages reads the page count from the page tree of a PDF file.
func CountPDFPages(path string) (int, error) {
	r, err := pdf.Open(path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	defer r.Close()

	n, err := pagetree.NumPages(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read page tree: %w", err)
	}
	return n, nil
}
