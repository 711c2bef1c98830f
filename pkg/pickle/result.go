package pickle

import "image"

// Kind tells the two result messages apart.
type Kind int

const (
	// PageReady carries a PageResult.
	PageReady Kind = iota
	// PageCountReady carries a page count.
	PageCountReady
)

func (k Kind) String() string {
	switch k {
	case PageReady:
		return "page"
	case PageCountReady:
		return "count"
	}
	return "unknown"
}

// PageResult is the outcome of one production: either a page image was
// found, or the page does not exist (past the end, or the renderer failed).
type PageResult struct {
	Page  int
	Image image.Image
}

// Found returns a result holding img for page.
func Found(page int, img image.Image) PageResult {
	return PageResult{Page: page, Image: img}
}

// NotFound returns a result for a page that produced no image.
func NotFound(page int) PageResult {
	return PageResult{Page: page}
}

// Found reports whether the result holds an image.
func (r PageResult) Found() bool {
	return r.Image != nil
}

// Message is posted by a worker when a request completes. Seq is the
// sequence number StartProduction or StartCountingPages returned.
type Message struct {
	Seq  uint64
	Kind Kind
	Job  string
	// Gen is the worker's SetJob generation the request was issued in.
	Gen uint64

	Page  PageResult // PageReady
	Count int        // PageCountReady

	// Err is set when the renderer failed. Failed productions still
	// carry a NotFound page.
	Err error
}

// Frame is the page image currently on display.
type Frame struct {
	Seq   uint64
	Page  int
	Image image.Image
}

// Size returns the image dimensions.
func (f *Frame) Size() (w, h int) {
	b := f.Image.Bounds()
	return b.Dx(), b.Dy()
}
