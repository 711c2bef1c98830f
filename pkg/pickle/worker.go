// Package pickle drives the page renderer. A Worker is a long-running
// sequential producer of page images or page counts; the Dispatcher pairs
// two of them and hands their results to the foreground.
package pickle

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"gview/pkg/api"
	"gview/pkg/raster"
	"gview/pkg/viewport"
)

// Opener opens the document of a job.
type Opener func(path string) (*api.Document, error)

type taskKind int

const (
	produce taskKind = iota
	countPages
)

type task struct {
	kind taskKind
	seq  uint64
	job  string
	gen  uint64
	page int
	opts api.RenderOptions
}

// Worker accepts one job description at a time and executes the requests
// it is given strictly in issue order. The setters and Start methods never
// block; results are posted to the channel given to NewWorker.
type Worker struct {
	name string
	open Opener
	out  chan<- Message
	log  zerolog.Logger

	mu        sync.Mutex
	job       string
	gen       uint64
	resX      float64
	resY      float64
	options   string
	page      int
	textAlpha bool
	rtl       bool
	queue     []task
	current   image.Image

	wake chan struct{}
	seq  atomic.Uint64

	docMu  sync.Mutex
	doc    *api.Document
	docGen uint64
}

// NewWorker returns a worker named name (used in logs) that posts to out.
func NewWorker(name string, open Opener, out chan<- Message, log zerolog.Logger) *Worker {
	return &Worker{
		name:      name,
		open:      open,
		out:       out,
		log:       log.With().Str("worker", name).Logger(),
		resX:      100,
		resY:      100,
		page:      1,
		textAlpha: true,
		wake:      make(chan struct{}, 1),
	}
}

// SetJob selects the document for subsequent requests. Every call starts
// a new generation, even for the same path: the document is reopened and
// the last output image is forgotten.
func (w *Worker) SetJob(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.job = path
	w.gen++
	w.current = nil
}

// Generation returns the number of SetJob calls so far.
func (w *Worker) Generation() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gen
}

// Job returns the current job.
func (w *Worker) Job() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.job
}

// SetResolution sets the hardware resolution.
func (w *Worker) SetResolution(x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resX, w.resY = x, y
}

// SetDeviceOptions sets the device option string.
func (w *Worker) SetDeviceOptions(opts string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.options = opts
}

// SetPageNumber sets the page used by Produce.
func (w *Worker) SetPageNumber(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.page = n
}

// SetTextAlpha turns text anti-aliasing on or off.
func (w *Worker) SetTextAlpha(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.textAlpha = on
}

// TextAlpha reports whether text anti-aliasing is on.
func (w *Worker) TextAlpha() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.textAlpha
}

// SetRTL turns right-to-left mode on or off.
func (w *Worker) SetRTL(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rtl = on
}

// RTL reports whether right-to-left mode is on.
func (w *Worker) RTL() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rtl
}

// StartProduction queues a rendering of page n with the current settings
// and returns the request's sequence number.
func (w *Worker) StartProduction(n int) uint64 {
	w.mu.Lock()
	w.page = n
	t := task{kind: produce, job: w.job, gen: w.gen, page: n, opts: w.renderOptionsLocked()}
	w.mu.Unlock()
	return w.enqueue(t)
}

// StartCountingPages queues a page count of the current job.
func (w *Worker) StartCountingPages() uint64 {
	w.mu.Lock()
	t := task{kind: countPages, job: w.job, gen: w.gen}
	w.mu.Unlock()
	return w.enqueue(t)
}

// LastIssued returns the sequence number of the latest request.
func (w *Worker) LastIssued() uint64 {
	return w.seq.Load()
}

func (w *Worker) enqueue(t task) uint64 {
	w.mu.Lock()
	t.seq = w.seq.Add(1)
	w.queue = append(w.queue, t)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return t.seq
}

// renderOptionsLocked snapshots the settings; w.mu must be held.
func (w *Worker) renderOptionsLocked() api.RenderOptions {
	opts := api.NewRenderOptions(
		api.Resolution(w.resX, w.resY),
		api.DeviceOptions(w.options),
		api.TextAlpha(w.textAlpha),
		api.RTL(w.rtl),
	)
	if tr, err := viewport.ParseDeviceOptions(w.options); err != nil {
		w.log.Warn().Err(err).Str("options", w.options).Msg("ignoring device options")
	} else {
		opts.View = raster.View(tr)
	}
	return opts
}

// Produce renders the current page synchronously on the caller's
// goroutine. It is used once when a job is opened to size the view.
func (w *Worker) Produce(ctx context.Context) (PageResult, error) {
	w.mu.Lock()
	t := task{kind: produce, job: w.job, gen: w.gen, page: w.page, opts: w.renderOptionsLocked()}
	w.mu.Unlock()
	return w.render(ctx, t)
}

// CurrentOutputImage returns the image of the last completed production,
// or nil.
func (w *Worker) CurrentOutputImage() image.Image {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// ImageWidth returns the width of CurrentOutputImage, or 0.
func (w *Worker) ImageWidth() int {
	if img := w.CurrentOutputImage(); img != nil {
		return img.Bounds().Dx()
	}
	return 0
}

// ImageHeight returns the height of CurrentOutputImage, or 0.
func (w *Worker) ImageHeight() int {
	if img := w.CurrentOutputImage(); img != nil {
		return img.Bounds().Dy()
	}
	return 0
}

// Run executes queued requests until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	defer w.closeDoc()
	for {
		t, ok := w.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.wake:
			}
			continue
		}

		msg := w.execute(ctx, t)
		select {
		case w.out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Worker) next() (task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return task{}, false
	}
	t := w.queue[0]
	w.queue = w.queue[1:]
	return t, true
}

func (w *Worker) execute(ctx context.Context, t task) Message {
	log := w.log.With().Uint64("seq", t.seq).Str("job", t.job).Logger()
	switch t.kind {
	case countPages:
		msg := Message{Seq: t.seq, Kind: PageCountReady, Job: t.job, Gen: t.gen, Count: -1}
		n, err := w.count(ctx, t)
		if err != nil {
			log.Error().Err(err).Msg("page count failed")
			msg.Err = err
			return msg
		}
		log.Debug().Int("count", n).Msg("pages counted")
		msg.Count = n
		return msg

	default:
		res, err := w.render(ctx, t)
		if err != nil {
			log.Error().Err(err).Int("page", t.page).Msg("production failed")
		} else {
			log.Debug().Int("page", t.page).Bool("found", res.Found()).Msg("production done")
		}
		return Message{Seq: t.seq, Kind: PageReady, Job: t.job, Gen: t.gen, Page: res, Err: err}
	}
}

// render produces one page. A page past the end is not an error.
func (w *Worker) render(ctx context.Context, t task) (PageResult, error) {
	w.docMu.Lock()
	defer w.docMu.Unlock()
	doc, err := w.document(t)
	if err != nil {
		return NotFound(t.page), err
	}
	img, err := doc.Render(ctx, t.page, t.opts)
	if errors.Is(err, api.ErrPageNotFound) {
		return NotFound(t.page), nil
	} else if err != nil {
		return NotFound(t.page), err
	}

	w.mu.Lock()
	if t.gen == w.gen {
		w.current = img
	}
	w.mu.Unlock()
	return Found(t.page, img), nil
}

func (w *Worker) count(ctx context.Context, t task) (int, error) {
	w.docMu.Lock()
	defer w.docMu.Unlock()
	doc, err := w.document(t)
	if err != nil {
		return 0, err
	}
	return doc.PageCount(ctx)
}

// document returns the open document of t's job, reopening it when the
// job or its generation changed. w.docMu must be held.
func (w *Worker) document(t task) (*api.Document, error) {
	if w.doc != nil && w.doc.Path() == t.job && w.docGen == t.gen {
		return w.doc, nil
	}
	if w.doc != nil {
		w.doc.Close()
		w.doc = nil
	}
	doc, err := w.open(t.job)
	if err != nil {
		return nil, err
	}
	w.doc, w.docGen = doc, t.gen
	return doc, nil
}

func (w *Worker) closeDoc() {
	w.docMu.Lock()
	defer w.docMu.Unlock()
	if w.doc != nil {
		w.doc.Close()
		w.doc = nil
	}
}
