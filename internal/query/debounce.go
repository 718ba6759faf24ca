package query

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is how long the debouncer waits for parameter
// changes to settle before firing.
const DefaultDebounceWindow = 500 * time.Millisecond

// Token identifies one requested (route, buffer, filter) combination.
// A completion carrying a token older than the latest one must be discarded
// by the caller; this replaces implicit timer cancellation with an explicit
// supersession protocol.
type Token uint64

// Debouncer coalesces rapid trigger bursts so only the last requested
// combination within the window starts a fetch. A superseded pending timer
// is stopped outright, not merely ignored on completion.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
	latest Token
}

// NewDebouncer creates a debouncer with the given settle window, or
// DefaultDebounceWindow when zero.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window}
}

// Trigger schedules fn after the settle window, cancelling any pending
// schedule. fn receives the token of this trigger; by the time it runs a
// newer trigger may exist, so fn (or its caller) must check Current before
// applying results.
func (d *Debouncer) Trigger(fn func(Token)) Token {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.latest++
	token := d.latest
	d.timer = time.AfterFunc(d.window, func() { fn(token) })
	return token
}

// Current reports whether token is still the most recent trigger. Stale
// tokens mean the associated result must be thrown away.
func (d *Debouncer) Current(token Token) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return token == d.latest
}

// Stop cancels any pending trigger without firing it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
