// Package worker runs preview renders off the caller's goroutine. Requests
// carry monotonically increasing ids; a newer request supersedes any
// pending one and results for superseded ids are never delivered.
package worker

import (
	"context"
	"sync"

	"github.com/air-gapped/jsxpreview/internal/vfs"
)

// Request is one render job.
type Request struct {
	ID    uint64
	Files []vfs.File
}

// Result is the outcome of the request with the same ID. Empty is set when
// the files held no component and HTML is therefore absent.
type Result struct {
	ID    uint64
	HTML  string
	Empty bool
}

// RenderFunc computes a document. ok is false for a null document.
type RenderFunc func(files []vfs.File) (html string, ok bool)

// Worker holds at most one pending request. It is safe for concurrent use.
type Worker struct {
	render RenderFunc

	mu      sync.Mutex
	latest  uint64
	pending *Request

	wake    chan struct{}
	results chan Result
}

// New creates a worker that renders with fn. Call Run to start it.
func New(fn RenderFunc) *Worker {
	return &Worker{
		render:  fn,
		wake:    make(chan struct{}, 1),
		results: make(chan Result, 1),
	}
}

// Submit queues files under the next id and returns that id.
func (w *Worker) Submit(files []vfs.File) uint64 {
	w.mu.Lock()
	w.latest++
	id := w.latest
	w.pending = &Request{ID: id, Files: files}
	w.mu.Unlock()

	w.notify()
	return id
}

// SubmitRequest queues a request whose id the caller chose. It reports
// false, and drops the request, when the id is not newer than every id
// seen so far.
func (w *Worker) SubmitRequest(req Request) bool {
	w.mu.Lock()
	if req.ID <= w.latest {
		w.mu.Unlock()
		return false
	}
	w.latest = req.ID
	w.pending = &req
	w.mu.Unlock()

	w.notify()
	return true
}

// Latest returns the newest id accepted.
func (w *Worker) Latest() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// Results delivers results for requests that were still the latest when
// they finished. An unread result is replaced by a newer one. The channel
// is closed when Run returns.
func (w *Worker) Results() <-chan Result {
	return w.results
}

func (w *Worker) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Worker) current(id uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return id == w.latest
}

// Run processes requests until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.results)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.wake:
		}

		w.mu.Lock()
		req := w.pending
		w.pending = nil
		w.mu.Unlock()
		if req == nil {
			continue
		}

		html, ok := w.render(req.Files)
		if !w.current(req.ID) {
			continue
		}
		w.publish(Result{ID: req.ID, HTML: html, Empty: !ok})
	}
}

func (w *Worker) publish(res Result) {
	for {
		select {
		case w.results <- res:
			return
		case <-w.results:
			// stale, never read
		}
	}
}
