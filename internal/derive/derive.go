// Package derive implements keyed derivations whose results may complete
// asynchronously and out of order. Only the most recently issued request
// for the live key is ever applied; everything else is discarded on
// arrival.
//
// A Keyed value is owned by a single goroutine (the UI loop). Request.Run
// touches no Keyed state and may be called from any goroutine.
package derive

import "context"

// Fetcher produces the derived list for a key.
type Fetcher[K comparable, V any] func(ctx context.Context, key K) ([]V, error)

// Ticket identifies one issued request.
type Ticket[K comparable] struct {
	Key K
	Seq uint64
}

// Request is an issued, not yet completed derivation.
type Request[K comparable, V any] struct {
	Ticket Ticket[K]
	fetch  Fetcher[K, V]
}

// Run performs the fetch. It is safe to call off the owning goroutine.
func (r Request[K, V]) Run(ctx context.Context) Result[K, V] {
	items, err := r.fetch(ctx, r.Ticket.Key)
	return Result[K, V]{Ticket: r.Ticket, Items: items, Err: err}
}

// Result is a completed derivation waiting to be accepted.
type Result[K comparable, V any] struct {
	Ticket Ticket[K]
	Items  []V
	Err    error
}

// Outcome describes what Accept did with a result.
type Outcome int

const (
	// Applied means the result became the current output.
	Applied Outcome = iota
	// Failed means the result was current but carried an error; the
	// previous output is kept.
	Failed
	// Stale means a newer request or a different live key superseded it.
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	default:
		return "stale"
	}
}

// Keyed holds the output cache of one derivation and enforces
// last-request-wins per key.
type Keyed[K comparable, V any] struct {
	fetch   Fetcher[K, V]
	seq     uint64
	live    K
	hasLive bool
	liveSeq uint64
	ready   bool
	pending bool
	items   []V
	err     error
}

// New creates a derivation backed by fetch.
func New[K comparable, V any](fetch Fetcher[K, V]) *Keyed[K, V] {
	return &Keyed[K, V]{fetch: fetch}
}

// Issue makes key the live key and returns a request for it. Any request
// issued earlier, for this key or another, can no longer be applied.
// Switching to a different key drops the cached output immediately so
// no list belonging to the previous key is ever visible under the new one.
func (d *Keyed[K, V]) Issue(key K) Request[K, V] {
	d.seq++
	if !d.hasLive || d.live != key {
		d.items = nil
		d.ready = false
	}
	d.live = key
	d.hasLive = true
	d.liveSeq = d.seq
	d.pending = true
	d.err = nil
	return Request[K, V]{Ticket: Ticket[K]{Key: key, Seq: d.seq}, fetch: d.fetch}
}

// Clear removes the live key. Output becomes empty and every outstanding
// request becomes stale.
func (d *Keyed[K, V]) Clear() {
	d.seq++
	var zero K
	d.live = zero
	d.hasLive = false
	d.liveSeq = 0
	d.pending = false
	d.ready = false
	d.items = nil
	d.err = nil
}

// Accept applies r if it answers the most recent request for the live key.
func (d *Keyed[K, V]) Accept(r Result[K, V]) Outcome {
	if !d.Current(r.Ticket) {
		return Stale
	}
	d.pending = false
	if r.Err != nil {
		d.err = r.Err
		return Failed
	}
	d.items = r.Items
	d.ready = true
	d.err = nil
	return Applied
}

// Current reports whether t is the latest ticket for the live key.
func (d *Keyed[K, V]) Current(t Ticket[K]) bool {
	return d.hasLive && t.Key == d.live && t.Seq == d.liveSeq
}

// Key returns the live key, if any.
func (d *Keyed[K, V]) Key() (K, bool) {
	return d.live, d.hasLive
}

// Items returns a copy of the current output.
func (d *Keyed[K, V]) Items() []V {
	if len(d.items) == 0 {
		return nil
	}
	out := make([]V, len(d.items))
	copy(out, d.items)
	return out
}

// Ready reports whether the output belongs to the live key, meaning at
// least one request for it has been applied.
func (d *Keyed[K, V]) Ready() bool {
	return d.hasLive && d.ready
}

// Pending reports whether the latest request is still outstanding.
func (d *Keyed[K, V]) Pending() bool {
	return d.pending
}

// Err returns the error of the latest failed request, if it was current.
func (d *Keyed[K, V]) Err() error {
	return d.err
}
