package pickle

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"gview/pkg/viewport"
)

// resultBuffer bounds the number of completed results waiting for the
// foreground before the workers block.
const resultBuffer = 16

// Dispatcher issues render requests to a page worker and count requests to
// a separate counting worker. Both post completed results onto one channel
// which the foreground drains and passes to Apply.
//
// Results are applied in arrival order. A request is never cancelled by a
// newer one; with a single sequential worker the last issued request is
// also the last to complete, so the display converges on it.
type Dispatcher struct {
	pages   *Worker
	counter *Worker
	results chan Message
	frame   atomic.Pointer[Frame]
	log     zerolog.Logger

	dropStale bool

	// OnPageReady is called by Apply for every page result, found or not,
	// after the displayed frame has been updated.
	OnPageReady func(PageResult)

	// OnPageCountReady is called by Apply when a page count arrives.
	OnPageCountReady func(count int)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDropStale makes Apply discard page results of requests that have
// been superseded by a newer request.
func WithDropStale() DispatcherOption {
	return func(d *Dispatcher) {
		d.dropStale = true
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// NewDispatcher creates the two workers. Call Run to start them.
func NewDispatcher(open Opener, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		results: make(chan Message, resultBuffer),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.pages = NewWorker("pages", open, d.results, d.log)
	d.counter = NewWorker("counter", open, d.results, d.log)
	return d
}

// Run runs both workers until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	go d.pages.Run(ctx)
	go d.counter.Run(ctx)
}

// Pages returns the page rendering worker.
func (d *Dispatcher) Pages() *Worker {
	return d.pages
}

// Results returns the channel the workers post completed requests to.
func (d *Dispatcher) Results() <-chan Message {
	return d.results
}

// SetJob selects the document on the page worker and takes the current
// frame off display. Results requested before the call are dropped by
// Apply, even when path names the same document.
func (d *Dispatcher) SetJob(path string) {
	d.pages.SetJob(path)
	d.frame.Store(nil)
}

// RequestPage asks for page at the given device parameters and returns the
// sequence number of the request. It does not wait for the result.
func (d *Dispatcher) RequestPage(page int, p viewport.Params) uint64 {
	d.pages.SetResolution(p.ResX, p.ResY)
	d.pages.SetDeviceOptions(p.DeviceOptions())
	d.pages.SetPageNumber(page)
	seq := d.pages.StartProduction(page)
	d.log.Debug().
		Uint64("seq", seq).
		Int("page", page).
		Float64("res", p.ResX).
		Float64("scale", p.ScaleX).
		Float64("x", p.TransX).
		Float64("y", p.TransY).
		Msg("page requested")
	return seq
}

// RequestPageCount starts counting the pages of job.
func (d *Dispatcher) RequestPageCount(job string) uint64 {
	d.counter.SetJob(job)
	return d.counter.StartCountingPages()
}

// ProduceFirst renders the current page of the page worker synchronously
// and puts it on display. Used when a job is opened.
func (d *Dispatcher) ProduceFirst(ctx context.Context) (PageResult, error) {
	res, err := d.pages.Produce(ctx)
	if res.Found() {
		d.frame.Store(&Frame{Page: res.Page, Image: res.Image})
	}
	return res, err
}

// Apply handles one message from Results. It must be called from the
// goroutine that owns the view state.
func (d *Dispatcher) Apply(msg Message) {
	// results of a previous job, or an earlier open of this one, are never shown
	gen := d.pages.Generation()
	if msg.Kind == PageCountReady {
		gen = d.counter.Generation()
	}
	if msg.Job != d.pages.Job() || msg.Gen != gen {
		d.log.Debug().
			Str("job", msg.Job).
			Uint64("gen", msg.Gen).
			Stringer("kind", msg.Kind).
			Msg("dropping result of closed job")
		return
	}

	switch msg.Kind {
	case PageCountReady:
		if msg.Err != nil {
			return
		}
		if d.OnPageCountReady != nil {
			d.OnPageCountReady(msg.Count)
		}

	case PageReady:
		if d.dropStale && msg.Seq < d.pages.LastIssued() {
			d.log.Debug().Uint64("seq", msg.Seq).Msg("dropping superseded page")
			return
		}
		if msg.Page.Found() {
			d.frame.Store(&Frame{Seq: msg.Seq, Page: msg.Page.Page, Image: msg.Page.Image})
		}
		if d.OnPageReady != nil {
			d.OnPageReady(msg.Page)
		}
	}
}

// Frame returns the page image on display, or nil before the first page.
func (d *Dispatcher) Frame() *Frame {
	return d.frame.Load()
}
